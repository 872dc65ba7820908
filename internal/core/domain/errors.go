package domain

import "errors"

// Error taxonomy shared by all core services. Callers match with errors.Is;
// services wrap these with fmt.Errorf("...: %w", Err...) to name the
// violated rule.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication failed")
	ErrInvariant  = errors.New("invariant violated")
)
