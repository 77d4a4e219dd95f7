// Package viper loads the urlwatch configuration file using spf13/viper.
// Secrets can be supplied through URLWATCH_-prefixed environment variables
// instead of the file (e.g. URLWATCH_SMTP_PASSWORD).
package viper

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/fwojciec/urlwatch"
	"github.com/spf13/viper"
)

// LoadConfig reads, unmarshals and validates the configuration at path.
// The file format is inferred from the extension (YAML, JSON and TOML all
// work). Missing or unreadable files are ENOTFOUND/EINVALID errors.
func LoadConfig(path string) (*urlwatch.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("URLWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, urlwatch.Errorf(urlwatch.ENOTFOUND, "config file %s not found", path)
		}
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "reading config file %s: %v", path, err)
	}

	var cfg urlwatch.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, urlwatch.Errorf(urlwatch.EINVALID, "parsing config file %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults mirrors the request defaults the tool has always shipped
// with. Sources and SMTP settings have no defaults; they must be explicit.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("request.timeout_seconds", 30)
	v.SetDefault("request.max_retries", 3)
	v.SetDefault("request.retry_delay_seconds", 2)
	v.SetDefault("smtp.port", 587)
}
