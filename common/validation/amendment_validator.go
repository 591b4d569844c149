package validation

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// AmendmentValidator validates JSON Patch documents against a whitelist of
// patchable paths. Operations that would move values between paths are
// rejected outright since both ends would need whitelisting.
type AmendmentValidator struct {
	allowed map[string]bool
}

// NewAmendmentValidator creates a validator permitting only the given paths
func NewAmendmentValidator(paths ...string) *AmendmentValidator {
	allowed := make(map[string]bool, len(paths))
	for _, p := range paths {
		allowed[p] = true
	}
	return &AmendmentValidator{allowed: allowed}
}

// Validate checks every operation in the patch
func (v *AmendmentValidator) Validate(patch jsonpatch.Patch) error {
	if len(patch) == 0 {
		return fmt.Errorf("patch has no operations")
	}

	for i, op := range patch {
		kind := op.Kind()
		switch kind {
		case "add", "replace", "remove", "test":
		case "move", "copy":
			return fmt.Errorf("operation %d: %s is not allowed", i, kind)
		default:
			return fmt.Errorf("operation %d: unsupported operation type: %s", i, kind)
		}

		path, err := op.Path()
		if err != nil {
			return fmt.Errorf("operation %d: missing or invalid 'path' field", i)
		}
		if !v.allowed[path] {
			return fmt.Errorf("operation %d: path %s is not amendable", i, path)
		}
	}

	return nil
}
