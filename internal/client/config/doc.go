// Package config loads runtime configuration for the userdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. USERDESK_* environment variables, falling back to a .env file in the
//     working directory.
//  3. Optional JSON file selected with -c/--config (or USERDESK_CONFIG).
//  4. Command-line flags given explicitly, which override everything else.
//
// Supported flags
//
//	-c, --config string   JSON config file
//	-a, --base-url string base URL of the user directory
//	    --store string    credential store file
//	    --api-key string  x-api-key header value
//	    --log-level       debug, info, warn or error
//	    --log-format      text or json
//
// Environment
//
//	USERDESK_BASE_URL, USERDESK_STORE_PATH, USERDESK_API_KEY,
//	USERDESK_LOG_LEVEL, USERDESK_LOG_FORMAT, USERDESK_CONFIG
package config
