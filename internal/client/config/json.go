package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// parseJson overlays cfg with the non-empty values of the JSON file at path.
// An empty path loads nothing. Unknown keys are an error so typos surface.
//
//	{
//	  "base_url": "https://reqres.in/api",
//	  "store_path": "/home/me/.userdesk.db",
//	  "api_key": "reqres-free-v1",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var jc Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.merge(jc)
	return nil
}
