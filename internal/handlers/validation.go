package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// maxCredentialValueLen bounds submitted credential values before they
// reach the session layer. Blankness is a validation concern handled
// there; this only rejects abusive payloads.
const maxCredentialValueLen = 512

// validateCredentialValues applies size limits to every value in a
// submitted credentials map.
func validateCredentialValues(credentials map[string]string) error {
	for field, value := range credentials {
		if err := validate.Var(value, fmt.Sprintf("max=%d", maxCredentialValueLen)); err != nil {
			return fmt.Errorf("field %q exceeds %d characters", field, maxCredentialValueLen)
		}
		if err := validate.Var(field, fmt.Sprintf("max=%d", maxCredentialValueLen)); err != nil {
			return fmt.Errorf("field name exceeds %d characters", maxCredentialValueLen)
		}
	}
	return nil
}
