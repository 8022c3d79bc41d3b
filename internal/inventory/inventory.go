package inventory

import (
	"fmt"
	"time"
)

// StockLevel is the physical quantity of one product in one warehouse.
// Quantity is signed: overselling records a negative gap rather than
// guessing at a floor.
type StockLevel struct {
	TenantID    string `json:"tenant_id"`
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
}

// CountStatus is the lifecycle state of an inventory count.
type CountStatus string

const (
	CountDraft     CountStatus = "DRAFT"
	CountCompleted CountStatus = "COMPLETED"
	CountCancelled CountStatus = "CANCELLED"
)

// AllowedTransitions defines the valid count lifecycle moves.
// COMPLETED and CANCELLED are terminal.
func AllowedTransitions() map[CountStatus][]CountStatus {
	return map[CountStatus][]CountStatus{
		CountDraft:     {CountCompleted, CountCancelled},
		CountCompleted: {},
		CountCancelled: {},
	}
}

// ValidTransition reports whether moving from one status to another is allowed.
func ValidTransition(from, to CountStatus) bool {
	for _, next := range AllowedTransitions()[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidStateError rejects an operation attempted against a count in the
// wrong lifecycle state.
type InvalidStateError struct {
	CountID   string
	Status    CountStatus
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid operation %s for count %s in state %s", e.Operation, e.CountID, e.Status)
}

// Count is a snapshot-based physical audit of a warehouse. System
// quantities are captured at creation; counted quantities are filled in
// while the count stays DRAFT and written back to stock on finalization.
type Count struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	WarehouseID string      `json:"warehouse_id"`
	Status      CountStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Lines       []CountLine `json:"lines"`
}

// CountLine tracks one product within a count.
// Difference is always CountedQty - SystemQty.
type CountLine struct {
	CountID    string `json:"count_id"`
	ProductID  string `json:"product_id"`
	SystemQty  int64  `json:"system_qty"`
	CountedQty int64  `json:"counted_qty"`
	Difference int64  `json:"difference"`
}
