package serve

import (
	"testing"

	"github.com/kcmvp/rawsql/app"
	"github.com/kcmvp/rawsql/cmd/internal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestAddr(t *testing.T) {
	v := viper.New()
	rt := &internal.Runtime{Config: v}
	require.Equal(t, defaultAddr, Addr("", rt))

	v.Set(app.KeyServerAddr, ":8081")
	require.Equal(t, ":8081", Addr("", rt))

	rt.Env.Addr = ":8082"
	require.Equal(t, ":8082", Addr("", rt))
	require.Equal(t, ":8083", Addr(":8083", rt))
}
