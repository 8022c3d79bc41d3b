package posting

import "fmt"

// InsufficientDataError rejects a business event missing a required field,
// before any transaction is opened.
type InsufficientDataError struct {
	Field string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InvalidInputError rejects a business event whose field values are out of
// range, before any transaction is opened.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// CountNotFoundError reports an inventory count id unknown to the tenant.
type CountNotFoundError struct {
	TenantID string
	CountID  string
}

func (e *CountNotFoundError) Error() string {
	return fmt.Sprintf("inventory count %s not found for tenant %s", e.CountID, e.TenantID)
}
