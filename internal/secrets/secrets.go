// Package secrets resolves the database credentials the connection
// provider needs. The canonical source is AWS Secrets Manager; env-var
// and static providers exist as alternative configurations.
package secrets

import "context"

// Credentials is the decoded secret payload. Host, Port and DBName are
// optional and, when present, override the statically configured values.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host,omitempty"`
	Port     string `json:"port,omitempty"`
	DBName   string `json:"dbname,omitempty"`
}

// Provider resolves database credentials. Implementations must be safe
// for concurrent use.
type Provider interface {
	Get(ctx context.Context) (Credentials, error)
}
