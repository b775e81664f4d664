// Package auth implements the token-based authorization gate.
//
// The gate compares the token a caller presents against a shared API key
// held in the secret store and produces an Allow/Deny decision bound to the
// requested resource. It holds no session state; every call is independent
// and idempotent. Any caching sits in front of the gate, never inside it.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/crmgate/crmgate/internal/model"
	"github.com/crmgate/crmgate/internal/secrets"
)

// DefaultSecretName is the logical name of the shared API key secret.
const DefaultSecretName = "shared-api-key"

// principalID identifies the single shared-secret caller in emitted
// decisions. There is no per-caller identity behind the shared key.
const principalID = "api-caller"

// Gate authorizes requests against the shared API key.
//
// Gate is safe for concurrent use by multiple goroutines.
type Gate struct {
	resolver   secrets.Resolver
	secretName string
}

// NewGate creates a Gate that resolves the expected token through resolver.
// secretName may be empty, in which case [DefaultSecretName] is used.
func NewGate(resolver secrets.Resolver, secretName string) *Gate {
	if secretName == "" {
		secretName = DefaultSecretName
	}

	return &Gate{
		resolver:   resolver,
		secretName: secretName,
	}
}

// Authorize compares presentedToken against the shared API key and returns a
// decision bound to resource. The comparison is exact: case differences and
// surrounding whitespace yield Deny. The resource does not influence the
// outcome; it is carried through so the decision can be audited and consumed
// by the policy-enforcement layer.
//
// If the expected token cannot be resolved, Authorize returns an error and
// no decision. Callers must treat that identically to Deny: the gate fails
// closed, never open.
func (g *Gate) Authorize(ctx context.Context, presentedToken, resource string) (*model.Decision, error) {
	expected, err := g.resolver.Resolve(ctx, g.secretName)
	if err != nil {
		return nil, fmt.Errorf("authorization backend error: %w", err)
	}

	effect := model.EffectDeny
	if subtle.ConstantTimeCompare([]byte(presentedToken), []byte(expected)) == 1 {
		effect = model.EffectAllow
	}

	return model.NewDecision(principalID, effect, resource), nil
}
