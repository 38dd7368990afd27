package config

import (
	"flag"
	"os"

	"github.com/cvyas/quotewall/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-e string   database engine ("postgres" or "sqlite")
//	-H string   database host
//	-P string   database port
//	-n string   database name
//	-f string   sqlite database file
//	-S string   secret source ("manager", "env", "static")
//	-N string   secret name in Secrets Manager
//	-g string   AWS region of the secret store
//	-s string   CSRF signing secret key
//	-m int      minimum pool connections
//	-x int      maximum pool connections (0 = direct-connect mode)
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-H", "-P", "-n", "-f", "-S", "-N", "-g", "-s", "-m", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DBEngine, "e", config.DBEngine, "database engine")
	fs.StringVar(&config.DBHost, "H", config.DBHost, "database host")
	fs.StringVar(&config.DBPort, "P", config.DBPort, "database port")
	fs.StringVar(&config.DBName, "n", config.DBName, "database name")
	fs.StringVar(&config.SQLitePath, "f", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.SecretSource, "S", config.SecretSource, "credential source")
	fs.StringVar(&config.SecretName, "N", config.SecretName, "secret name")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "secret store region")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.IntVar(&config.PoolMinConns, "m", config.PoolMinConns, "minimum pool connections")
	fs.IntVar(&config.PoolMaxConns, "x", config.PoolMaxConns, "maximum pool connections")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
