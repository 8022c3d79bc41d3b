package posting

import (
	"context"
	"time"

	"github.com/example/commerce-ledger/internal/inventory"
	"github.com/example/commerce-ledger/internal/ledger"
)

// Sale is the persisted header of one recorded sale.
type Sale struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	Number      int64      `json:"number"`
	WarehouseID string     `json:"warehouse_id"`
	CustomerID  string     `json:"customer_id,omitempty"`
	Total       float64    `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	Items       []SaleItem `json:"items"`
}

// SaleItem is one line of a sale.
type SaleItem struct {
	SaleID    string  `json:"sale_id"`
	ProductID string  `json:"product_id"`
	Qty       int64   `json:"qty"`
	Price     float64 `json:"price"`
}

// Purchase is the persisted header of one recorded purchase order.
type Purchase struct {
	ID          string         `json:"id"`
	TenantID    string         `json:"tenant_id"`
	Number      int64          `json:"number"`
	WarehouseID string         `json:"warehouse_id"`
	SupplierID  string         `json:"supplier_id,omitempty"`
	Total       float64        `json:"total"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []PurchaseItem `json:"items"`
}

// PurchaseItem is one line of a purchase order.
type PurchaseItem struct {
	PurchaseID string  `json:"purchase_id"`
	ProductID  string  `json:"product_id"`
	Qty        int64   `json:"qty"`
	Cost       float64 `json:"cost"`
}

// Tx is the unit of work an event posting runs inside. It extends the
// ledger capability with the physical-state operations that must commit or
// roll back together with the journal entry.
type Tx interface {
	ledger.Tx

	// AdjustStock adds delta to the (warehouse, product) stock row,
	// creating it first if absent, and returns the new quantity. The
	// result may be negative.
	AdjustStock(ctx context.Context, tenantID, warehouseID, productID string, delta int64) (int64, error)

	// SetStockQuantity overwrites the stock row with an absolute quantity.
	SetStockQuantity(ctx context.Context, tenantID, warehouseID, productID string, qty int64) error

	// StockByWarehouse lists the stock rows of one warehouse.
	StockByWarehouse(ctx context.Context, tenantID, warehouseID string) ([]inventory.StockLevel, error)

	// ProductCost returns the recorded unit cost of a product, or 0 when
	// no cost has been recorded yet.
	ProductCost(ctx context.Context, tenantID, productID string) (float64, error)

	// SetProductCost upserts the recorded unit cost (last-cost convention).
	SetProductCost(ctx context.Context, tenantID, productID string, cost float64) error

	// NextSequence atomically increments and returns the named per-tenant
	// counter. First use starts at 1.
	NextSequence(ctx context.Context, tenantID, name string) (int64, error)

	InsertSale(ctx context.Context, s *Sale) error
	InsertPurchase(ctx context.Context, p *Purchase) error

	InsertCount(ctx context.Context, c *inventory.Count) error
	CountByID(ctx context.Context, tenantID, countID string) (*inventory.Count, error)

	// SetCountedQty records the counted quantity (and difference) for one
	// line of a DRAFT count.
	SetCountedQty(ctx context.Context, tenantID, countID, productID string, counted int64) error

	// SetCountStatus transitions the count header, guarded by the expected
	// current status. It fails when the guard does not match.
	SetCountStatus(ctx context.Context, tenantID, countID string, from, to inventory.CountStatus) error
}

// DB opens atomic units of work. Any error returned by fn rolls the whole
// transaction back; nothing staged inside survives a failure.
type DB interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}
