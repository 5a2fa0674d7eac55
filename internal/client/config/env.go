package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const envPrefix = "USERDESK_"

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

var envKeys = map[string]func(*Config) *string{
	"BASE_URL":   func(c *Config) *string { return &c.BaseURL },
	"STORE_PATH": func(c *Config) *string { return &c.StorePath },
	"API_KEY":    func(c *Config) *string { return &c.APIKey },
	"LOG_LEVEL":  func(c *Config) *string { return &c.LogLevel },
	"LOG_FORMAT": func(c *Config) *string { return &c.LogFormat },
}

// parseEnv overlays USERDESK_* values. A missing dotenv file is ignored;
// variables already set in the process environment win over the file.
func parseEnv(cfg *Config, dotenvPath string, lookup func(string) (string, bool)) error {
	fileVals := map[string]string{}
	if dotenvPath != "" {
		vals, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}

	var o Config
	for key, field := range envKeys {
		name := envPrefix + key
		if v, ok := lookup(name); ok && v != "" {
			*field(&o) = v
			continue
		}
		if v, ok := fileVals[name]; ok {
			*field(&o) = v
		}
	}
	cfg.merge(o)
	return nil
}

func osLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}
