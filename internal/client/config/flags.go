package config

import (
	"github.com/spf13/pflag"
)

// Flags are the persistent command-line settings. Register them once on the
// root command, then call Load after cobra has parsed the arguments.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	values     Config
}

const (
	flagConfig    = "config"
	flagBaseURL   = "base-url"
	flagStorePath = "store"
	flagAPIKey    = "api-key"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	var d Config
	d.LoadDefaults()

	fs.StringVarP(&f.ConfigPath, flagConfig, "c", "", "path to JSON config file")
	fs.StringVarP(&f.values.BaseURL, flagBaseURL, "a", d.BaseURL, "base URL of the user directory")
	fs.StringVar(&f.values.StorePath, flagStorePath, d.StorePath, "credential store file")
	fs.StringVar(&f.values.APIKey, flagAPIKey, "", "value for the x-api-key header")
	fs.StringVar(&f.values.LogLevel, flagLogLevel, d.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&f.values.LogFormat, flagLogFormat, d.LogFormat, "log format (text, json)")
	return f
}

// overlay applies only the flags given explicitly, so a default flag value
// never hides the environment or the JSON file.
func (f *Flags) overlay(cfg *Config) {
	var o Config
	if f.fs.Changed(flagBaseURL) {
		o.BaseURL = f.values.BaseURL
	}
	if f.fs.Changed(flagStorePath) {
		o.StorePath = f.values.StorePath
	}
	if f.fs.Changed(flagAPIKey) {
		o.APIKey = f.values.APIKey
	}
	if f.fs.Changed(flagLogLevel) {
		o.LogLevel = f.values.LogLevel
	}
	if f.fs.Changed(flagLogFormat) {
		o.LogFormat = f.values.LogFormat
	}
	cfg.merge(o)
}

// Load builds the Config from every source and validates it.
func (f *Flags) Load() (*Config, error) {
	return load(f, DotEnvFile, osLookup)
}
