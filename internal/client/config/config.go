package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// Config holds runtime settings for the userdesk CLI.
//
// Fields:
//   - BaseURL: root of the remote user directory, e.g. https://reqres.in/api.
//   - StorePath: SQLite file holding the persisted credential.
//   - APIKey: optional value sent as the x-api-key header.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	BaseURL   string `json:"base_url"`
	StorePath string `json:"store_path"`
	APIKey    string `json:"api_key"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://reqres.in/api"
	c.StorePath = "userdesk.db"
	c.APIKey = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// merge copies the non-empty fields of o into c.
func (c *Config) merge(o Config) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.StorePath != "" {
		c.StorePath = o.StorePath
	}
	if o.APIKey != "" {
		c.APIKey = o.APIKey
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	switch {
	case c.BaseURL == "":
		errs = append(errs, errors.New("base url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("base url: %w", err))
	case u.Scheme == "" || u.Host == "":
		errs = append(errs, fmt.Errorf("base url %q must be absolute", c.BaseURL))
	}

	if strings.TrimSpace(c.StorePath) == "" {
		errs = append(errs, errors.New("store path is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
