package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"
	cfgType     = "yaml"
)

// Config keys read by the runtime.
const (
	KeyLogFile    = "logging.file"
	KeyLogSQL     = "logging.sql"
	KeyServerAddr = "server.addr"
)

// Load reads the application configuration.
//
// Rules:
//  1. A non-empty file is read as is.
//  2. Otherwise application_test.yml is used under `go test`, application.yml
//     everywhere else.
//  3. The name is searched in the project root, the current working
//     directory and the config directory of both.
func Load(file string) mo.Result[*viper.Viper] {
	v := viper.New()
	v.SetConfigType(cfgType)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return mo.Err[*viper.Viper](fmt.Errorf("read %s: %w", file, err))
		}
		return mo.Ok(v)
	}
	addDefaultConfigPaths(v)
	name := lo.Ternary(isTestProcess(), testCfgName, cfgName)
	v.SetConfigName(name)
	if err := v.ReadInConfig(); err != nil {
		return mo.Err[*viper.Viper](fmt.Errorf("read %s: %w", name, err))
	}
	return mo.Ok(v)
}

// addDefaultConfigPaths registers the project root first so runs from any
// package directory find the same file, then the working directory.
func addDefaultConfigPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}
	if root, ok := findProjectRoot(cwd); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// findProjectRoot walks upward from start to the nearest directory holding a go.mod.
func findProjectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess detects whether we are running under `go test`.
func isTestProcess() bool {
	for _, a := range os.Args {
		if strings.HasPrefix(a, "-test.") {
			return true
		}
	}
	const maxFrames = 256
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if strings.HasSuffix(f.File, "_test.go") {
			return true
		}
		if !more {
			return false
		}
	}
}
