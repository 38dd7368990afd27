package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/cvyas/quotewall/internal/common"
)

// managerClient is the subset of the Secrets Manager API used here.
type managerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newManagerClientFromConfig = func(cfg aws.Config) managerClient {
		return secretsmanager.NewFromConfig(cfg)
	}
)

// ManagerProvider fetches the named secret from AWS Secrets Manager and
// caches the decoded payload for the remainder of the process lifetime.
// There is no TTL: credential rotation requires a restart. The mutex is
// held across the fetch so concurrent callers never duplicate it; a
// failed fetch is not cached and the next caller retries.
type ManagerProvider struct {
	secretName string
	region     string

	// Optional static AWS credentials, mainly for local endpoints.
	// When empty the SDK default chain applies.
	awsAccessKeyID     string
	awsSecretAccessKey string

	mu     sync.Mutex
	cached *Credentials
}

func NewManagerProvider(secretName, region, awsAccessKeyID, awsSecretAccessKey string) *ManagerProvider {
	return &ManagerProvider{
		secretName:         secretName,
		region:             region,
		awsAccessKeyID:     awsAccessKeyID,
		awsSecretAccessKey: awsSecretAccessKey,
	}
}

func (p *ManagerProvider) Get(ctx context.Context) (Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached, nil
	}

	creds, err := p.fetch(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", common.ErrSecretUnavailable, err)
	}

	p.cached = &creds
	return creds, nil
}

func (p *ManagerProvider) fetch(ctx context.Context) (Credentials, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(p.region)}
	if p.awsAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.awsAccessKeyID, p.awsSecretAccessKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return Credentials{}, fmt.Errorf("loading aws config: %w", err)
	}

	client := newManagerClientFromConfig(cfg)

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretName),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("fetching secret %q: %w", p.secretName, err)
	}
	if out.SecretString == nil {
		return Credentials{}, errors.New("secret has no string payload")
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decoding secret payload: %w", err)
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, errors.New("secret payload is missing username/password")
	}

	return creds, nil
}
