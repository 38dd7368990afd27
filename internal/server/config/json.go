package config

import (
	"encoding/json"
	"os"

	"github.com/cvyas/quotewall/internal/flagx"
	"github.com/cvyas/quotewall/internal/timex"
)

// JSONConfig is the DTO used to read the optional JSON configuration
// file. Duration fields accept both "5s" strings and integer
// nanoseconds via timex.Duration. After unmarshalling, non-zero fields
// are copied into the runtime Config.
type JSONConfig struct {
	EndpointAddr string `json:"endpoint_addr"`

	DBEngine   string `json:"db_engine"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	SQLitePath string `json:"sqlite_path"`

	SecretSource       string `json:"secret_source"`
	SecretName         string `json:"secret_name"`
	AWSRegion          string `json:"aws_region"`
	AWSAccessKeyID     string `json:"aws_access_key_id"`
	AWSSecretAccessKey string `json:"aws_secret_access_key"`
	DBUser             string `json:"db_user"`
	DBPassword         string `json:"db_password"`

	SecretKey string `json:"secret_key"`

	PoolMinConns     *int           `json:"pool_min_conns"`
	PoolMaxConns     *int           `json:"pool_max_conns"`
	AcquireTimeout   timex.Duration `json:"acquire_timeout"`
	OperationTimeout timex.Duration `json:"operation_timeout"`
}

// parseJSON loads configuration values from a JSON file into the
// provided Config instance. The file path comes from the -c/-config
// flags; when neither is set, no file is loaded. An unreadable or
// invalid file panics, since a half-applied config is worse than a
// refused start.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlag()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DBEngine, c.DBEngine)
	setString(&config.DBHost, c.DBHost)
	setString(&config.DBPort, c.DBPort)
	setString(&config.DBName, c.DBName)
	setString(&config.SQLitePath, c.SQLitePath)
	setString(&config.SecretSource, c.SecretSource)
	setString(&config.SecretName, c.SecretName)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setString(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setString(&config.DBUser, c.DBUser)
	setString(&config.DBPassword, c.DBPassword)
	setString(&config.SecretKey, c.SecretKey)

	if c.PoolMinConns != nil {
		config.PoolMinConns = *c.PoolMinConns
	}
	if c.PoolMaxConns != nil {
		config.PoolMaxConns = *c.PoolMaxConns
	}
	if c.AcquireTimeout.Duration != 0 {
		config.AcquireTimeout = c.AcquireTimeout.Duration
	}
	if c.OperationTimeout.Duration != 0 {
		config.OperationTimeout = c.OperationTimeout.Duration
	}
}
