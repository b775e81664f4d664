// Package secrets provides read-only access to named string secrets held in
// AWS Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// Common errors for secret resolution. Callers decide whether to retry;
// the resolver itself never does.
var (
	ErrNotFound     = errors.New("secret not found")
	ErrAccessDenied = errors.New("secret access denied")
	ErrUnavailable  = errors.New("secret backend unavailable")
)

// Resolver fetches the current value of a named secret.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// API is the subset of the Secrets Manager client used by [Manager].
// It allows mocks to be injected in tests.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager is a [Resolver] backed by AWS Secrets Manager. It performs no
// caching and no mutation; every call is an independent read.
//
// Manager is safe for concurrent use by multiple goroutines.
type Manager struct {
	client API
}

// New creates a Manager from the given AWS config. Supply [WithAPI] to
// inject a custom or mock client.
func New(awsCfg *aws.Config, opts ...Option) *Manager {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	m := &Manager{client: options.api}
	if m.client == nil {
		m.client = secretsmanager.NewFromConfig(*awsCfg)
	}

	return m
}

// Resolve returns the current string value of the secret with the given
// logical name. It returns [ErrNotFound] if no such secret exists,
// [ErrAccessDenied] if the caller lacks permission, and [ErrUnavailable]
// for any other backend failure.
func (m *Manager) Resolve(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty secret name", ErrNotFound)
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	}

	output, err := m.client.GetSecretValue(ctx, input)
	if err != nil {
		return "", classify(name, err)
	}

	if output.SecretString == nil {
		return "", fmt.Errorf("%w: secret %s has no string value", ErrNotFound, name)
	}

	return *output.SecretString, nil
}

// classify maps SDK failures onto the package's sentinel errors.
func classify(name string, err error) error {
	var notFound *smtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnauthorizedException":
			return fmt.Errorf("%w: %s", ErrAccessDenied, name)
		}
	}

	return fmt.Errorf("%w: failed to get secret %s: %v", ErrUnavailable, name, err)
}
