package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kcmvp/rawsql/payload"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

type valuesKey struct{}

// Bind validates the request body against obj. Valid values are stored in
// the request context for the next handler; anything else aborts with 400.
func Bind(obj *payload.Object) gin.HandlerFunc {
	return func(c *gin.Context) {
		bts := mo.TupleToResult[[]byte](io.ReadAll(c.Request.Body))
		if bts.IsError() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bts.Error().Error()})
			return
		}
		body := string(bts.MustGet())
		if !gjson.Valid(body) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		result := obj.Validate(body)
		if result.IsError() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": result.Error().Error()})
			return
		}
		ctx := context.WithValue(c.Request.Context(), valuesKey{}, result.MustGet())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Values returns the payload validated by Bind, None when Bind did not run.
func Values(c *gin.Context) mo.Option[payload.Values] {
	if v, ok := c.Request.Context().Value(valuesKey{}).(payload.Values); ok {
		return mo.Some(v)
	}
	return mo.None[payload.Values]()
}
