package store

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	UserKey     = "${user}"
	PasswordKey = "${password}"
	HostKey     = "${host}"

	// DefaultName is the datasource used when no name is given.
	DefaultName = "default"
)

// DataSource is one `datasource.<name>` entry of the application config.
type DataSource struct {
	Driver   string `mapstructure:"driver" yaml:"driver"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Host     string `mapstructure:"host" yaml:"host"`
	URL      string `mapstructure:"url" yaml:"url"`
}

// DSNChecked returns the final connection string for sql.Open and validates placeholder usage.
//
// Go drivers don't share a single DSN format, so `url` is required and should be a
// driver-specific DSN/URI (optionally containing placeholders). A placeholder whose
// field is empty is an error rather than a blank credential.
func (ds DataSource) DSNChecked() (string, error) {
	if strings.TrimSpace(ds.URL) == "" {
		return "", fmt.Errorf("dsn requires url")
	}
	if strings.Contains(ds.URL, UserKey) && ds.User == "" {
		return "", fmt.Errorf("dsn requires user")
	}
	if strings.Contains(ds.URL, PasswordKey) && ds.Password == "" {
		return "", fmt.Errorf("dsn requires password")
	}
	if strings.Contains(ds.URL, HostKey) && ds.Host == "" {
		return "", fmt.Errorf("dsn requires host")
	}
	return ds.DSN(), nil
}

// DSN substitutes ${user}, ${password} and ${host} in ds.URL. A URL without
// placeholders is returned as-is.
func (ds DataSource) DSN() string {
	dsn := strings.ReplaceAll(ds.URL, UserKey, ds.User)
	dsn = strings.ReplaceAll(dsn, PasswordKey, ds.Password)
	return strings.ReplaceAll(dsn, HostKey, ds.Host)
}

// DataSourceFrom decodes `datasource.<name>` from v. An empty name selects
// DefaultName.
func DataSourceFrom(v *viper.Viper, name string) (DataSource, error) {
	if name == "" {
		name = DefaultName
	}
	key := "datasource." + name
	if v == nil || !v.IsSet(key) {
		return DataSource{}, fmt.Errorf("datasource %q is not configured", name)
	}
	var ds DataSource
	if err := v.UnmarshalKey(key, &ds); err != nil {
		return DataSource{}, fmt.Errorf("unmarshal datasource %s: %w", name, err)
	}
	if ds.Driver == "" {
		return DataSource{}, fmt.Errorf("driver is required for datasource %q", name)
	}
	return ds, nil
}
