package policy

import "errors"

// Policy domain errors
var (
	ErrPolicyNotFound = errors.New("no active attendance policy configured")
)
