package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/kcmvp/rawsql/app"
	"github.com/kcmvp/rawsql/store"
	"github.com/spf13/viper"
)

// Runtime is everything a command needs once the environment, the
// configuration and the store are resolved.
type Runtime struct {
	Env     app.Env
	Config  *viper.Viper
	Logger  *log.Logger
	Manager *store.Manager
	closers []io.Closer
}

// LoadDotEnv exports the variables of the given .env files, ./.env when none
// is given. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Settings resolves the environment, the configuration and the logger without
// touching the store.
func Settings() (*Runtime, error) {
	env, err := app.LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg := app.Load(env.Config)
	if cfg.IsError() {
		return nil, cfg.Error()
	}
	v := cfg.MustGet()
	logger, closer, err := app.NewLogger(v)
	if err != nil {
		return nil, err
	}
	return &Runtime{Env: env, Config: v, Logger: logger, closers: []io.Closer{closer}}, nil
}

// Boot resolves the settings and opens the configured datasource.
func Boot(ctx context.Context) (*Runtime, error) {
	rt, err := Settings()
	if err != nil {
		return nil, err
	}
	ds, err := store.DataSourceFrom(rt.Config, rt.Env.DataSource)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	opts := []store.Option{store.WithLogger(rt.Logger)}
	if rt.Config.GetBool(app.KeyLogSQL) {
		opts = append(opts, store.WithSQLLogger(rt.Logger))
	}
	m, err := store.Open(ctx, ds, opts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("open datasource %s: %w", rt.Env.DataSource, err)
	}
	rt.Manager = m
	rt.closers = append([]io.Closer{m}, rt.closers...)
	return rt, nil
}

// Close releases the store and the log file.
func (rt *Runtime) Close() error {
	var errs []error
	for _, c := range rt.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
