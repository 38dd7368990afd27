package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset or
// malformed values leave the current value untouched.
//
// Recognized variables: ADDRESS, DB_ENGINE, DB_HOST, DB_PORT, DB_NAME,
// SQLITE_PATH, SECRET_SOURCE, SECRET_NAME, AWS_REGION, AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY, DB_USER, DB_PASSWORD, SECRET_KEY,
// POOL_MIN_CONNS, POOL_MAX_CONNS, ACQUIRE_TIMEOUT, OPERATION_TIMEOUT.
func parseEnv(config *Config) {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString(&config.EndpointAddr, "ADDRESS")
	setString(&config.DBEngine, "DB_ENGINE")
	setString(&config.DBHost, "DB_HOST")
	setString(&config.DBPort, "DB_PORT")
	setString(&config.DBName, "DB_NAME")
	setString(&config.SQLitePath, "SQLITE_PATH")
	setString(&config.SecretSource, "SECRET_SOURCE")
	setString(&config.SecretName, "SECRET_NAME")
	setString(&config.AWSRegion, "AWS_REGION")
	setString(&config.AWSAccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.AWSSecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&config.DBUser, "DB_USER")
	setString(&config.DBPassword, "DB_PASSWORD")
	setString(&config.SecretKey, "SECRET_KEY")
	setInt(&config.PoolMinConns, "POOL_MIN_CONNS")
	setInt(&config.PoolMaxConns, "POOL_MAX_CONNS")
	setDuration(&config.AcquireTimeout, "ACQUIRE_TIMEOUT")
	setDuration(&config.OperationTimeout, "OPERATION_TIMEOUT")
}
