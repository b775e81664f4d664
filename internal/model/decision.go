package model

// Effect is the outcome of an authorization check.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// PolicyStatement is a single statement inside a policy document.
type PolicyStatement struct {
	Action   string `json:"Action"`
	Effect   Effect `json:"Effect"`
	Resource string `json:"Resource"`
}

// PolicyDocument is the policy shape consumed by the external
// policy-enforcement layer.
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

// Decision is an authorization decision bound to the resource the caller
// requested. The enforcement layer may cache it for a bounded TTL; the
// decision itself carries no expiry.
type Decision struct {
	PrincipalID    string         `json:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument"`
}

const (
	policyVersion = "2012-10-17"
	invokeAction  = "execute-api:Invoke"
)

// NewDecision builds a Decision with the given effect bound to resource.
func NewDecision(principalID string, effect Effect, resource string) *Decision {
	return &Decision{
		PrincipalID: principalID,
		PolicyDocument: PolicyDocument{
			Version: policyVersion,
			Statement: []PolicyStatement{
				{
					Action:   invokeAction,
					Effect:   effect,
					Resource: resource,
				},
			},
		},
	}
}

// Allowed reports whether the decision permits the request.
func (d *Decision) Allowed() bool {
	return len(d.PolicyDocument.Statement) > 0 && d.PolicyDocument.Statement[0].Effect == EffectAllow
}
