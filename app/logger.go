package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const logFlags = log.LstdFlags | log.LUTC

// NewLogger returns a logger writing to logging.file, or to stderr when the
// key is unset. The returned closer releases the file.
func NewLogger(v *viper.Viper) (*log.Logger, io.Closer, error) {
	file := v.GetString(KeyLogFile)
	if file == "" {
		return log.New(os.Stderr, "", logFlags), io.NopCloser(nil), nil
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", logFlags), f, nil
}
