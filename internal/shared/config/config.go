package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/shared/types"
)

// LoadIni loads connect.ini on top of the defaults and applies env overrides.
// A missing file is not an error.
func LoadIni(fileName string) (*types.Config, error) {
	cfg := types.DefaultConfig()

	iniFile, err := ini.Load(fileName)
	switch {
	case err == nil:
		if err := iniFile.MapTo(cfg); err != nil {
			return nil, fmt.Errorf("failed to map config file '%s': %w", fileName, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to load config file '%s': %w", fileName, err)
	}

	overrideFromEnvString(&cfg.ConnectConf.Host, "CONNECT_HOST")
	overrideFromEnvInt(&cfg.ConnectConf.Port, "CONNECT_PORT")
	overrideFromEnvInt(&cfg.ConnectConf.TimeoutMillis, "CONNECT_TIMEOUT_MS")
	overrideFromEnvString(&cfg.LogConf.Level, "LOG_LEVEL")

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ranges ini.MapTo cannot express.
func Validate(cfg *types.Config) error {
	c := cfg.ConnectConf
	if _, err := cnet.PortFromInt(c.Port); err != nil {
		return fmt.Errorf("connect.port: %w", err)
	}
	if c.TimeoutMillis < 0 {
		return fmt.Errorf("connect.timeout_ms must not be negative: %d", c.TimeoutMillis)
	}
	if c.RecvBufBytes < 0 || c.SendBufBytes < 0 {
		return fmt.Errorf("buffer sizes must not be negative")
	}
	if c.Retries < 0 {
		return fmt.Errorf("connect.retries must not be negative: %d", c.Retries)
	}
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
