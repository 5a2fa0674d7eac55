package config

// load applies the sources in order: defaults, dotenv and environment, JSON
// file, flags. Later sources take precedence over earlier ones.
func load(f *Flags, dotenvPath string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, dotenvPath, lookup); err != nil {
		return nil, err
	}

	jsonPath := ""
	if f != nil {
		jsonPath = f.ConfigPath
	}
	if jsonPath == "" {
		if v, ok := lookup(envPrefix + "CONFIG"); ok {
			jsonPath = v
		}
	}
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}

	if f != nil {
		f.overlay(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
