package policy

import "context"

// PolicyRepository defines data access for attendance rule rows.
type PolicyRepository interface {
	// GetActive retrieves the single row flagged active.
	// Returns ErrPolicyNotFound when none is configured.
	GetActive(ctx context.Context) (Policy, error)

	// Save upserts the active policy. Any previously active row is
	// deactivated in the same transaction so that exactly one row stays
	// active.
	Save(ctx context.Context, p Policy) (Policy, error)
}
