package serve

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/kcmvp/rawsql/api"
	"github.com/kcmvp/rawsql/app"
	"github.com/kcmvp/rawsql/cmd/internal"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	addrFlag        = "addr"
	defaultAddr     = ":8080"
	shutdownTimeout = 5 * time.Second
)

// Addr picks the listen address: flag, then environment, then configuration.
func Addr(flag string, rt *internal.Runtime) string {
	return lo.CoalesceOrEmpty(flag, rt.Env.Addr, rt.Config.GetString(app.KeyServerAddr), defaultAddr)
}

// ServeCmd starts the HTTP API and stops it on SIGINT or SIGTERM.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve users, orders and payments over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		rt, err := internal.Boot(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()
		gin.SetMode(gin.ReleaseMode)
		router, err := api.NewRouter(rt.Manager, rt.Logger)
		if err != nil {
			return err
		}
		flag, _ := cmd.Flags().GetString(addrFlag)
		srv := &http.Server{Addr: Addr(flag, rt), Handler: router}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		color.Green("listening on %s", srv.Addr)
		rt.Logger.Printf("level=info msg=%q addr=%s", "server started", srv.Addr)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		rt.Logger.Printf("level=info msg=%q", "server stopped")
		return nil
	},
}

func init() {
	ServeCmd.Flags().String(addrFlag, "", "listen address, e.g. :8080")
}
