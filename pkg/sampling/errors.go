package sampling

import "fmt"

// ValidationError reports an argument that was rejected before any
// sampling took place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
