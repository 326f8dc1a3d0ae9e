// Package config handles input from etc/*.toml files, .env files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. JESITE_WEBSERVER_PORT.
	EnvPrefix = "JESITE"

	// EnvConfigJSON holds a json document merged over the file configuration.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	// FileName is the name of the main configuration file.
	FileName = "main.toml"

	defaultShutDownTime      = 5
	defaultSessionExpiry     = 24 * time.Hour
	defaultCacheExpiration   = time.Minute
	defaultNewsletterSpec    = "@every 1m"
	defaultNewsletterBatch   = 100
	devSessionSecret         = "jesite-dev-session-secret"
	invalidConfigErrorPrefix = "invalid config"
)

// ReadConfig from config file.
// A .env file in the working directory is loaded first, so its values are visible
// to the environment overrides.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, FileName))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if jsonConfig := os.Getenv(EnvConfigJSON); jsonConfig != "" {
		if c, err = decodeAndMergeConfig(c, jsonConfig); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the settings the service can not start without and fill in defaults.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidConfigErrorPrefix)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidConfigErrorPrefix)
	}

	if c.Webserver.Session.Secret == "" {
		if !c.DevMode {
			return errors.Wrap(ErrEmptySessionSecret, invalidConfigErrorPrefix)
		}

		c.Webserver.Session.Secret = devSessionSecret
	}

	switch strings.ToLower(c.DB.GormEngine) {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
		c.DB.GormEngine = strings.ToLower(c.DB.GormEngine)
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidConfigErrorPrefix, c.DB.GormEngine)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.CacheExpiration == 0 {
		c.Webserver.CacheExpiration = defaultCacheExpiration
	}

	if c.Newsletter.Schedule == "" {
		c.Newsletter.Schedule = defaultNewsletterSpec
	}

	if c.Newsletter.BatchSize <= 0 {
		c.Newsletter.BatchSize = defaultNewsletterBatch
	}

	return nil
}
