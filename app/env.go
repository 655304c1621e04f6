package app

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable the runtime reads.
const EnvPrefix = "RAWSQL"

// Env holds the settings taken from the process environment. They win over
// the configuration file.
type Env struct {
	Config     string `envconfig:"CONFIG"`
	DataSource string `envconfig:"DATASOURCE" default:"default"`
	Addr       string `envconfig:"ADDR"`
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("process env: %w", err)
	}
	return env, nil
}
