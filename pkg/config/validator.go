package config

import (
	"fmt"
	"net"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate server config
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Message: fmt.Sprintf("invalid listen address %q", c.Server.Addr),
		})
	}

	if c.Server.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.rate_limit",
			Message: "rate_limit must not be negative",
		})
	}

	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.rate_burst",
			Message: "rate_burst must be positive when rate_limit is set",
		})
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.timeouts",
			Message: "timeouts must not be negative",
		})
	}

	// Validate storage config
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "storage.path",
				Message: "data file path is required",
			})
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "database URL is required for the postgres driver",
			})
		} else if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
		if c.Database.TableName == "" {
			errors = append(errors, ValidationError{
				Field:   "database.table_name",
				Message: "table_name is required",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "storage.driver",
			Message: fmt.Sprintf("unknown storage driver %q", c.Storage.Driver),
		})
	}

	// Validate log config
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level %q", c.Log.Level),
		})
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		errors = append(errors, ValidationError{
			Field:   "log.format",
			Message: "format must be text or json",
		})
	}

	return errors
}
