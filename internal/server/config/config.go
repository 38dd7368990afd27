// Package config handles configuration for the server, layering
// defaults, an optional JSON file, environment variables and
// command-line flags (later sources win).
package config

import "time"

// Supported database engines.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Supported credential sources.
const (
	SecretSourceManager = "manager"
	SecretSourceEnv     = "env"
	SecretSourceStatic  = "static"
)

// Config holds runtime settings for the quotewall server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DBEngine: "postgres" or "sqlite".
//   - DBHost/DBPort/DBName: relational backend location; values from the
//     secret payload take precedence when present.
//   - SQLitePath: database file for the sqlite engine.
//   - SecretSource: where credentials come from ("manager", "env", "static").
//   - SecretName/AWSRegion: Secrets Manager lookup parameters.
//   - AWSAccessKeyID/AWSSecretAccessKey: optional static AWS credentials.
//   - DBUser/DBPassword: credentials for the static source.
//   - SecretKey: HMAC secret for CSRF token signing. Do not use the
//     default in production.
//   - PoolMinConns/PoolMaxConns: connection pool bounds; PoolMaxConns = 0
//     selects direct-connect mode (no idle connections kept).
//   - AcquireTimeout: how long to wait for a pooled connection.
//   - OperationTimeout: per-operation deadline for store calls.
type Config struct {
	EndpointAddr string

	DBEngine   string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	SecretSource       string
	SecretName         string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DBUser             string
	DBPassword         string

	SecretKey string

	PoolMinConns     int
	PoolMaxConns     int
	AcquireTimeout   time.Duration
	OperationTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DBEngine = EnginePostgres
	c.DBHost = "127.0.0.1"
	c.DBPort = "5432"
	c.DBName = "postgres"
	c.SQLitePath = "quotewall.db"
	c.SecretSource = SecretSourceEnv
	c.SecretName = ""
	c.AWSRegion = "ap-south-1"
	c.SecretKey = "dev-secret-change-in-production"
	c.PoolMinConns = 1
	c.PoolMaxConns = 20
	c.AcquireTimeout = 2 * time.Second
	c.OperationTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
