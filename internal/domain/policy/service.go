package policy

import "context"

// PolicyService resolves and administers the active attendance policy.
type PolicyService interface {
	// GetActivePolicy returns the active policy, falling back to the
	// built-in default when none is configured. Results may be served
	// from a short-lived process cache.
	GetActivePolicy(ctx context.Context) (Policy, error)

	// UpdateRules applies an admin update and invalidates the cache.
	UpdateRules(ctx context.Context, req UpdateRulesRequest) (Policy, error)
}
