package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/cvyas/quotewall/internal/common"
)

// EnvProvider reads credentials from DB_USER/DB_PASSWORD (plus optional
// DB_HOST/DB_PORT/DB_NAME) for deployments without a secret store.
type EnvProvider struct{}

func (EnvProvider) Get(_ context.Context) (Credentials, error) {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	if user == "" || password == "" {
		return Credentials{}, fmt.Errorf("%w: DB_USER/DB_PASSWORD not set", common.ErrSecretUnavailable)
	}

	return Credentials{
		Username: user,
		Password: password,
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		DBName:   os.Getenv("DB_NAME"),
	}, nil
}

// StaticProvider returns fixed credentials, mainly for tests and local
// development.
type StaticProvider struct {
	Credentials Credentials
}

func (p StaticProvider) Get(_ context.Context) (Credentials, error) {
	if p.Credentials.Username == "" || p.Credentials.Password == "" {
		return Credentials{}, fmt.Errorf("%w: static credentials not configured", common.ErrSecretUnavailable)
	}
	return p.Credentials, nil
}
