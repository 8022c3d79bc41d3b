package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/commerce-ledger/internal/inventory"
	"github.com/example/commerce-ledger/internal/ledger"
)

// Poster orchestrates business events: each operation validates its input,
// opens one atomic unit of work, mutates physical state, posts one balanced
// journal entry, and commits, or rolls the whole thing back. Stock and
// ledger never diverge because they only ever move together.
type Poster struct {
	db       DB
	chart    *ledger.Chart
	engine   *ledger.Engine
	accounts AccountConfig
}

// NewPoster wires a poster over the given unit-of-work provider.
func NewPoster(db DB, chart *ledger.Chart, engine *ledger.Engine, accounts AccountConfig) *Poster {
	return &Poster{db: db, chart: chart, engine: engine, accounts: accounts}
}

// SeedChart installs the default chart of accounts for a tenant.
// Safe to call repeatedly.
func (p *Poster) SeedChart(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return &InsufficientDataError{Field: "tenant_id"}
	}
	return p.db.RunInTx(ctx, func(tx Tx) error {
		return p.chart.Seed(ctx, tx, tenantID)
	})
}

// Post records a manual journal entry in its own unit of work.
func (p *Poster) Post(ctx context.Context, in ledger.PostInput) (*ledger.JournalEntry, error) {
	var entry *ledger.JournalEntry
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		var err error
		entry, err = p.engine.Post(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SaleItemInput is one requested sale line.
type SaleItemInput struct {
	ProductID string  `json:"product_id"`
	Qty       int64   `json:"qty"`
	Price     float64 `json:"price"`
}

// SaleInput is a request to record a sale.
type SaleInput struct {
	TenantID    string          `json:"tenant_id"`
	WarehouseID string          `json:"warehouse_id"`
	CustomerID  string          `json:"customer_id,omitempty"`
	Items       []SaleItemInput `json:"items"`
}

// SaleResult reports the recorded sale and its journal entry.
type SaleResult struct {
	Sale  *Sale                `json:"sale"`
	Entry *ledger.JournalEntry `json:"entry"`
}

// RecordSale assigns the next sale number, writes the sale document,
// decrements stock per item, and posts
// Dr AR / Cr Revenue for the sale total plus Dr COGS / Cr Inventory for
// the recorded cost of the goods, all in one transaction.
func (p *Poster) RecordSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	if in.TenantID == "" {
		return nil, &InsufficientDataError{Field: "tenant_id"}
	}
	if in.WarehouseID == "" {
		return nil, &InsufficientDataError{Field: "warehouse_id"}
	}
	if len(in.Items) == 0 {
		return nil, &InsufficientDataError{Field: "items"}
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return nil, &InsufficientDataError{Field: "items.product_id"}
		}
		if item.Qty <= 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("sale item %s: qty must be positive", item.ProductID)}
		}
		if item.Price < 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("sale item %s: price must not be negative", item.ProductID)}
		}
	}

	var result SaleResult
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		number, err := tx.NextSequence(ctx, in.TenantID, "sale")
		if err != nil {
			return fmt.Errorf("assign sale number: %w", err)
		}

		sale := &Sale{
			ID:          uuid.NewString(),
			TenantID:    in.TenantID,
			Number:      number,
			WarehouseID: in.WarehouseID,
			CustomerID:  in.CustomerID,
			CreatedAt:   time.Now().UTC(),
			Items:       make([]SaleItem, len(in.Items)),
		}

		var total, totalCost float64
		for i, item := range in.Items {
			total += item.Price * float64(item.Qty)
			sale.Items[i] = SaleItem{
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				Qty:       item.Qty,
				Price:     item.Price,
			}

			if _, err := tx.AdjustStock(ctx, in.TenantID, in.WarehouseID, item.ProductID, -item.Qty); err != nil {
				return fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
			}

			cost, err := tx.ProductCost(ctx, in.TenantID, item.ProductID)
			if err != nil {
				return fmt.Errorf("look up cost for %s: %w", item.ProductID, err)
			}
			totalCost += cost * float64(item.Qty)
		}
		sale.Total = total

		if err := tx.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("persist sale: %w", err)
		}

		lines := []ledger.LineInput{
			{AccountCode: p.accounts.Receivable, Type: ledger.Debit, Amount: total},
			{AccountCode: p.accounts.Revenue, Type: ledger.Credit, Amount: total},
		}
		// Items without a recorded cost carry no COGS leg.
		if totalCost > 0 {
			lines = append(lines,
				ledger.LineInput{AccountCode: p.accounts.COGS, Type: ledger.Debit, Amount: totalCost},
				ledger.LineInput{AccountCode: p.accounts.Inventory, Type: ledger.Credit, Amount: totalCost},
			)
		}

		entry, err := p.engine.Post(ctx, tx, ledger.PostInput{
			TenantID:    in.TenantID,
			Description: fmt.Sprintf("Sale #%d", number),
			Reference:   sale.ID,
			Lines:       lines,
		})
		if err != nil {
			return err
		}

		result.Sale = sale
		result.Entry = entry
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}
	return &result, nil
}

// PurchaseItemInput is one requested purchase line.
type PurchaseItemInput struct {
	ProductID string  `json:"product_id"`
	Qty       int64   `json:"qty"`
	Cost      float64 `json:"cost"`
}

// PurchaseInput is a request to record a purchase.
type PurchaseInput struct {
	TenantID    string              `json:"tenant_id"`
	WarehouseID string              `json:"warehouse_id"`
	SupplierID  string              `json:"supplier_id,omitempty"`
	Items       []PurchaseItemInput `json:"items"`
}

// PurchaseResult reports the recorded purchase and its journal entry.
type PurchaseResult struct {
	Purchase *Purchase            `json:"purchase"`
	Entry    *ledger.JournalEntry `json:"entry"`
}

// RecordPurchase assigns the next PO number, updates each product's
// recorded cost to the new unit cost, increments stock, and posts
// Dr Inventory / Cr AP for the purchase total.
func (p *Poster) RecordPurchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	if in.TenantID == "" {
		return nil, &InsufficientDataError{Field: "tenant_id"}
	}
	if in.WarehouseID == "" {
		return nil, &InsufficientDataError{Field: "warehouse_id"}
	}
	if len(in.Items) == 0 {
		return nil, &InsufficientDataError{Field: "items"}
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return nil, &InsufficientDataError{Field: "items.product_id"}
		}
		if item.Qty <= 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("purchase item %s: qty must be positive", item.ProductID)}
		}
		if item.Cost < 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("purchase item %s: cost must not be negative", item.ProductID)}
		}
	}

	var result PurchaseResult
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		number, err := tx.NextSequence(ctx, in.TenantID, "purchase")
		if err != nil {
			return fmt.Errorf("assign purchase number: %w", err)
		}

		purchase := &Purchase{
			ID:          uuid.NewString(),
			TenantID:    in.TenantID,
			Number:      number,
			WarehouseID: in.WarehouseID,
			SupplierID:  in.SupplierID,
			CreatedAt:   time.Now().UTC(),
			Items:       make([]PurchaseItem, len(in.Items)),
		}

		var total float64
		for i, item := range in.Items {
			total += item.Cost * float64(item.Qty)
			purchase.Items[i] = PurchaseItem{
				PurchaseID: purchase.ID,
				ProductID:  item.ProductID,
				Qty:        item.Qty,
				Cost:       item.Cost,
			}

			// Last-cost convention: the newest unit cost wins.
			if err := tx.SetProductCost(ctx, in.TenantID, item.ProductID, item.Cost); err != nil {
				return fmt.Errorf("update cost for %s: %w", item.ProductID, err)
			}
			if _, err := tx.AdjustStock(ctx, in.TenantID, in.WarehouseID, item.ProductID, item.Qty); err != nil {
				return fmt.Errorf("increment stock for %s: %w", item.ProductID, err)
			}
		}
		purchase.Total = total

		if err := tx.InsertPurchase(ctx, purchase); err != nil {
			return fmt.Errorf("persist purchase: %w", err)
		}

		entry, err := p.engine.Post(ctx, tx, ledger.PostInput{
			TenantID:    in.TenantID,
			Description: fmt.Sprintf("Purchase #%d", number),
			Reference:   purchase.ID,
			Lines: []ledger.LineInput{
				{AccountCode: p.accounts.Inventory, Type: ledger.Debit, Amount: total},
				{AccountCode: p.accounts.Payable, Type: ledger.Credit, Amount: total},
			},
		})
		if err != nil {
			return err
		}

		result.Purchase = purchase
		result.Entry = entry
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	return &result, nil
}

// ExpenseInput is a request to record a business expense.
type ExpenseInput struct {
	TenantID    string  `json:"tenant_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

// RecordExpense posts Dr <category expense account> / Cr Cash.
func (p *Poster) RecordExpense(ctx context.Context, in ExpenseInput) (*ledger.JournalEntry, error) {
	if in.TenantID == "" {
		return nil, &InsufficientDataError{Field: "tenant_id"}
	}
	if in.Amount <= 0 {
		return nil, &InvalidInputError{Reason: "expense amount must be positive"}
	}

	expenseCode := p.accounts.ExpenseAccount(in.Category)

	var entry *ledger.JournalEntry
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		var err error
		entry, err = p.engine.Post(ctx, tx, ledger.PostInput{
			TenantID:    in.TenantID,
			Description: in.Description,
			Lines: []ledger.LineInput{
				{AccountCode: expenseCode, Type: ledger.Debit, Amount: in.Amount},
				{AccountCode: p.accounts.Cash, Type: ledger.Credit, Amount: in.Amount},
			},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record expense: %w", err)
	}
	return entry, nil
}

// MovementType is the direction of a treasury movement.
type MovementType string

const (
	Deposit  MovementType = "DEPOSIT"
	Withdraw MovementType = "WITHDRAW"
)

// TreasuryInput is a request to record a manual treasury movement.
type TreasuryInput struct {
	TenantID    string       `json:"tenant_id"`
	Type        MovementType `json:"type"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description,omitempty"`
}

// RecordTreasuryMovement lazily resolves the treasury account and the
// contra account for the movement type, then posts Dr Treasury / Cr Contra
// for a deposit and the reverse for a withdrawal.
func (p *Poster) RecordTreasuryMovement(ctx context.Context, in TreasuryInput) (*ledger.JournalEntry, error) {
	if in.TenantID == "" {
		return nil, &InsufficientDataError{Field: "tenant_id"}
	}
	if in.Amount <= 0 {
		return nil, &InvalidInputError{Reason: "movement amount must be positive"}
	}

	var contra ledger.AccountSpec
	switch in.Type {
	case Deposit:
		contra = p.accounts.DepositContra
	case Withdraw:
		contra = p.accounts.WithdrawalContra
	default:
		return nil, &InvalidInputError{Reason: fmt.Sprintf("movement type must be DEPOSIT or WITHDRAW, got %q", in.Type)}
	}

	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Treasury %s", in.Type)
	}

	var entry *ledger.JournalEntry
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		treasury, err := p.chart.Resolve(ctx, tx, in.TenantID, p.accounts.Treasury)
		if err != nil {
			return err
		}
		contraAccount, err := p.chart.Resolve(ctx, tx, in.TenantID, contra)
		if err != nil {
			return err
		}

		treasurySide, contraSide := ledger.Debit, ledger.Credit
		if in.Type == Withdraw {
			treasurySide, contraSide = ledger.Credit, ledger.Debit
		}

		entry, err = p.engine.Post(ctx, tx, ledger.PostInput{
			TenantID:    in.TenantID,
			Description: description,
			Lines: []ledger.LineInput{
				{AccountCode: treasury.Code, Type: treasurySide, Amount: in.Amount},
				{AccountCode: contraAccount.Code, Type: contraSide, Amount: in.Amount},
			},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record treasury movement: %w", err)
	}
	return entry, nil
}

// StartInventoryCount opens a DRAFT count for a warehouse, snapshotting the
// current system quantity of every stocked product.
func (p *Poster) StartInventoryCount(ctx context.Context, tenantID, warehouseID string) (*inventory.Count, error) {
	if tenantID == "" {
		return nil, &InsufficientDataError{Field: "tenant_id"}
	}
	if warehouseID == "" {
		return nil, &InsufficientDataError{Field: "warehouse_id"}
	}

	count := &inventory.Count{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		WarehouseID: warehouseID,
		Status:      inventory.CountDraft,
		CreatedAt:   time.Now().UTC(),
	}
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		levels, err := tx.StockByWarehouse(ctx, tenantID, warehouseID)
		if err != nil {
			return fmt.Errorf("snapshot stock: %w", err)
		}
		count.Lines = make([]inventory.CountLine, len(levels))
		for i, level := range levels {
			count.Lines[i] = inventory.CountLine{
				CountID:    count.ID,
				ProductID:  level.ProductID,
				SystemQty:  level.Quantity,
				CountedQty: level.Quantity,
			}
		}
		if err := tx.InsertCount(ctx, count); err != nil {
			return fmt.Errorf("persist count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("start inventory count: %w", err)
	}
	return count, nil
}

// RecordCountLine stores the counted quantity for one product of a DRAFT
// count. The difference against the snapshot is recomputed on write.
func (p *Poster) RecordCountLine(ctx context.Context, tenantID, countID, productID string, counted int64) error {
	if tenantID == "" {
		return &InsufficientDataError{Field: "tenant_id"}
	}
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		count, err := tx.CountByID(ctx, tenantID, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return &CountNotFoundError{TenantID: tenantID, CountID: countID}
		}
		if count.Status != inventory.CountDraft {
			return &inventory.InvalidStateError{CountID: countID, Status: count.Status, Operation: "record line"}
		}
		return tx.SetCountedQty(ctx, tenantID, countID, productID, counted)
	})
	if err != nil {
		return fmt.Errorf("record count line: %w", err)
	}
	return nil
}

// FinalizeInventoryCount writes counted quantities back to stock for every
// line with a nonzero difference and completes the count. Only DRAFT counts
// can be finalized.
//
// By default no journal entry is posted for the discrepancy; when the
// account configuration names a shrinkage account, the net value of the
// adjustment (at recorded cost) is posted against inventory.
func (p *Poster) FinalizeInventoryCount(ctx context.Context, tenantID, countID string) error {
	if tenantID == "" {
		return &InsufficientDataError{Field: "tenant_id"}
	}
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		count, err := tx.CountByID(ctx, tenantID, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return &CountNotFoundError{TenantID: tenantID, CountID: countID}
		}
		if count.Status != inventory.CountDraft {
			return &inventory.InvalidStateError{CountID: countID, Status: count.Status, Operation: "finalize"}
		}

		var shortfallValue float64
		for _, line := range count.Lines {
			if line.Difference == 0 {
				continue
			}
			if err := tx.SetStockQuantity(ctx, tenantID, count.WarehouseID, line.ProductID, line.CountedQty); err != nil {
				return fmt.Errorf("write back stock for %s: %w", line.ProductID, err)
			}
			if p.accounts.Shrinkage.Code != "" {
				cost, err := tx.ProductCost(ctx, tenantID, line.ProductID)
				if err != nil {
					return fmt.Errorf("look up cost for %s: %w", line.ProductID, err)
				}
				shortfallValue += cost * float64(-line.Difference)
			}
		}

		if p.accounts.Shrinkage.Code != "" && shortfallValue != 0 {
			if _, err := p.chart.Resolve(ctx, tx, tenantID, p.accounts.Shrinkage); err != nil {
				return err
			}
			lines := []ledger.LineInput{
				{AccountCode: p.accounts.Shrinkage.Code, Type: ledger.Debit, Amount: shortfallValue},
				{AccountCode: p.accounts.Inventory, Type: ledger.Credit, Amount: shortfallValue},
			}
			if shortfallValue < 0 {
				// Counted more than the system expected: reverse the legs.
				lines = []ledger.LineInput{
					{AccountCode: p.accounts.Inventory, Type: ledger.Debit, Amount: -shortfallValue},
					{AccountCode: p.accounts.Shrinkage.Code, Type: ledger.Credit, Amount: -shortfallValue},
				}
			}
			if _, err := p.engine.Post(ctx, tx, ledger.PostInput{
				TenantID:    tenantID,
				Description: fmt.Sprintf("Inventory count adjustment %s", countID),
				Reference:   countID,
				Lines:       lines,
			}); err != nil {
				return err
			}
		}

		return tx.SetCountStatus(ctx, tenantID, countID, inventory.CountDraft, inventory.CountCompleted)
	})
	if err != nil {
		return fmt.Errorf("finalize inventory count: %w", err)
	}
	return nil
}

// CancelInventoryCount abandons a DRAFT count without touching stock.
func (p *Poster) CancelInventoryCount(ctx context.Context, tenantID, countID string) error {
	if tenantID == "" {
		return &InsufficientDataError{Field: "tenant_id"}
	}
	err := p.db.RunInTx(ctx, func(tx Tx) error {
		count, err := tx.CountByID(ctx, tenantID, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return &CountNotFoundError{TenantID: tenantID, CountID: countID}
		}
		if !inventory.ValidTransition(count.Status, inventory.CountCancelled) {
			return &inventory.InvalidStateError{CountID: countID, Status: count.Status, Operation: "cancel"}
		}
		return tx.SetCountStatus(ctx, tenantID, countID, count.Status, inventory.CountCancelled)
	})
	if err != nil {
		return fmt.Errorf("cancel inventory count: %w", err)
	}
	return nil
}
