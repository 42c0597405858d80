// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can start
// working. Function will return an error if something is critically
// wrong and the application can't run because of that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.access_ttl", "jwt_access_ttl")
	v.BindEnv("jwt.refresh_ttl", "jwt_refresh_ttl")

	v.BindEnv("codes.expiry", "codes_expiry")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("cleanup.interval", "cleanup_interval")
	v.BindEnv("cleanup.unverified_accounts", "cleanup_unverified_accounts")

	v.BindEnv("ratelimit.rps", "ratelimit_rps")
	v.BindEnv("ratelimit.burst", "ratelimit_burst")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "identity.db")

	// Access tokens live an hour, refresh tokens thirty days
	v.SetDefault("jwt.access_ttl", 3600)
	v.SetDefault("jwt.refresh_ttl", 2592000)

	v.SetDefault("codes.expiry", 1800)

	v.SetDefault("mail.port", 587)

	v.SetDefault("cleanup.interval", 3600)
	v.SetDefault("cleanup.unverified_accounts", 0)

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid db driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("jwt.access_ttl") <= 0 || v.GetInt("jwt.refresh_ttl") <= 0 {
		return errors.New("token lifetimes must be bigger than 0")
	}

	if v.GetInt("codes.expiry") <= 0 {
		return errors.New("codes.expiry must be bigger than 0")
	}

	if v.GetString("mail.host") != "" && v.GetString("mail.sender") == "" {
		return errors.New("mail.sender can't be empty when mail.host is set")
	}

	if v.GetInt("ratelimit.rps") <= 0 || v.GetInt("ratelimit.burst") <= 0 {
		return errors.New("rate limit values must be bigger than 0")
	}

	return nil
}
