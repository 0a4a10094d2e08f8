// Package config loads and validates jirafeau-cli settings.
//
// The package handles a YAML configuration file, environment variables and
// CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s), ~/.jirafeau/config.yaml unless --config is given
//  3. Environment variables (JIRAFEAU_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load(nil, cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with the JIRAFEAU_ prefix:
//   - host → JIRAFEAU_HOST
//   - upload.time → JIRAFEAU_UPLOAD_TIME
//   - log.level → JIRAFEAU_LOG_LEVEL
//
// # Validation
//
//   - host, when set, must be an http or https URL
//   - timeout must not be negative
//   - output.color must be auto, always or never
//   - log.level must be debug, info, warn or error; log.format text or json
//
// The upload lifetime is passed to the server verbatim and not validated.
package config
