// Package config provides configuration loading for the 2048 server.
//
// The config package handles:
//   - Loading the server configuration from YAML files
//   - Environment variable overrides
//   - Configuration validation
//   - The embedded default configuration
//
// Search Order:
//
// Load looks for the configuration in this order and uses the first file found:
//   - the explicit path passed by the caller (an error if unreadable)
//   - ~/.game2048/config.yaml
//   - ./configs/config.yaml
//   - the embedded defaults/config.yaml
//
// Environment:
//
// ApplyEnv overrides file values from GAME2048_HOST, GAME2048_PORT,
// GAME2048_LOG_LEVEL, GAME2048_LOG_FORMAT, GAME2048_SCORES_DB,
// NGROK_ENABLED, NGROK_AUTHTOKEN and NGROK_DOMAIN.
//
// Usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.Getenv)
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
package config
