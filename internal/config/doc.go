// Package config handles configuration loading for luvya-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package validates required fields at load time.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from LUVYA_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/luvya/gateway.yaml
//  3. ~/.config/luvya/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	supabase:
//	  anon_key: "${SUPABASE_ANON_KEY}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	supabase:
//	  request_timeout: "10s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"                # Listener address
//	  base_url: "https://luvya.example.com"    # OAuth issuer / token audience
//	  require_auth: false                      # Bearer token on MCP initialize
//
// Hosted store:
//
//	supabase:
//	  url: "https://YOUR-PROJECT.supabase.co"
//	  anon_key: "${SUPABASE_ANON_KEY}"
//	  request_timeout: "10s"
//
// Token signing:
//
//	auth:
//	  jwt_secret: "${LUVYA_JWT_SECRET}"
//	  token_ttl: "1h"  # access token lifetime, defaults to 1h
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - server.http_addr present
//   - supabase.url present and an http(s) URL
//   - supabase.anon_key present
//   - auth.jwt_secret present
//   - Duration format validity
//
// # Usage
//
//	cfg, err := config.Load("/etc/luvya/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
