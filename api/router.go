// Package api serves the DAOs over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kcmvp/rawsql/constraint"
	"github.com/kcmvp/rawsql/dao"
	"github.com/kcmvp/rawsql/payload"
	"github.com/kcmvp/rawsql/record"
	"github.com/kcmvp/rawsql/store"
)

// entityDAO is the call surface shared by the three entity DAOs.
type entityDAO[N, U, R any] interface {
	Insert(ctx context.Context, n N) (R, error)
	Get(ctx context.Context, id int64) (R, error)
	GetAll(ctx context.Context) ([]R, error)
	Update(ctx context.Context, id int64, u U) (R, error)
	Delete(ctx context.Context, id int64) (R, error)
}

// resource wires one entity DAO to its routes.
type resource[N, U, R any] struct {
	dao        entityDAO[N, U, R]
	create     func() *payload.Object
	patch      func() *payload.Object
	newFrom    func(payload.Values) N
	updateFrom func(payload.Values) U
	logger     *log.Logger
}

func (r resource[N, U, R]) register(g *gin.RouterGroup) {
	g.POST("", Bind(r.create()), r.insert)
	g.GET("", r.list)
	g.GET("/:id", r.get)
	g.PATCH("/:id", Bind(r.patch()), r.update)
	g.DELETE("/:id", r.delete)
}

func (r resource[N, U, R]) insert(c *gin.Context) {
	values, ok := Values(c).Get()
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "validated payload not found"})
		return
	}
	rec, err := r.dao.Insert(c.Request.Context(), r.newFrom(values))
	if err != nil {
		fail(c, r.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (r resource[N, U, R]) list(c *gin.Context) {
	recs, err := r.dao.GetAll(c.Request.Context())
	if err != nil {
		fail(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (r resource[N, U, R]) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := r.dao.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r resource[N, U, R]) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	values, ok := Values(c).Get()
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "validated payload not found"})
		return
	}
	rec, err := r.dao.Update(c.Request.Context(), id, r.updateFrom(values))
	if err != nil {
		fail(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r resource[N, U, R]) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := r.dao.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, r.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid id '%s'", c.Param("id"))})
		return 0, false
	}
	return id, true
}

// Status maps a DAO error to its HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrIntegrity):
		return http.StatusConflict
	case errors.Is(err, dao.ErrEmptyUpdate), constraint.IsViolation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, logger *log.Logger, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.Printf("level=error msg=%q method=%s path=%s err=%v", "request failed", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// NewRouter builds the HTTP API over the store. Requests are logged to logger.
func NewRouter(m *store.Manager, logger *log.Logger) (*gin.Engine, error) {
	users, err := dao.NewUserDAO(m)
	if err != nil {
		return nil, err
	}
	orders, err := dao.NewOrderDAO(m)
	if err != nil {
		return nil, err
	}
	payments, err := dao.NewPaymentDAO(m)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	resource[record.NewUser, record.UserUpdate, record.User]{
		dao:        users,
		create:     record.UserPayload,
		patch:      record.UserUpdatePayload,
		newFrom:    record.NewUserFrom,
		updateFrom: record.UserUpdateFrom,
		logger:     logger,
	}.register(router.Group("/users"))
	resource[record.NewOrder, record.OrderUpdate, record.Order]{
		dao:        orders,
		create:     record.OrderPayload,
		patch:      record.OrderUpdatePayload,
		newFrom:    record.NewOrderFrom,
		updateFrom: record.OrderUpdateFrom,
		logger:     logger,
	}.register(router.Group("/orders"))
	resource[record.NewPayment, record.PaymentUpdate, record.Payment]{
		dao:        payments,
		create:     record.PaymentPayload,
		patch:      record.PaymentUpdatePayload,
		newFrom:    record.NewPaymentFrom,
		updateFrom: record.PaymentUpdateFrom,
		logger:     logger,
	}.register(router.Group("/payments"))

	router.GET("/users/:id/orders", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if _, err := users.Get(c.Request.Context(), id); err != nil {
			fail(c, logger, err)
			return
		}
		recs, err := orders.GetByUser(c.Request.Context(), id)
		if err != nil {
			fail(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, recs)
	})
	return router, nil
}
