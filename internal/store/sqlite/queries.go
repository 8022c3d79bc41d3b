package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/commerce-ledger/internal/inventory"
	"github.com/example/commerce-ledger/internal/ledger"
	"github.com/example/commerce-ledger/internal/posting"
)

type queries struct {
	db querier
}

func (q queries) UpsertAccount(ctx context.Context, a *ledger.Account) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO accounts (id, tenant_id, code, name, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, code) DO NOTHING
	`, a.ID, a.TenantID, a.Code, a.Name, a.Type, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

func (q queries) AccountByCode(ctx context.Context, tenantID, code string) (*ledger.Account, error) {
	var a ledger.Account
	err := q.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, code, name, type, created_at
		FROM accounts
		WHERE tenant_id = ? AND code = ?
	`, tenantID, code).Scan(&a.ID, &a.TenantID, &a.Code, &a.Name, &a.Type, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (q queries) AccountsByCodes(ctx context.Context, tenantID string, codes []string) ([]ledger.Account, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(codes)-1) + "?"
	args := make([]any, 0, len(codes)+1)
	args = append(args, tenantID)
	for _, code := range codes {
		args = append(args, code)
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT id, tenant_id, code, name, type, created_at
		FROM accounts
		WHERE tenant_id = ? AND code IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Code, &a.Name, &a.Type, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (q queries) InsertJournalEntry(ctx context.Context, e *ledger.JournalEntry) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, tenant_id, description, reference, entry_date)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.TenantID, e.Description, e.Reference, e.Date)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	for _, line := range e.Lines {
		_, err := q.db.ExecContext(ctx, `
			INSERT INTO transactions (id, journal_entry_id, account_id, entry_type, amount)
			VALUES (?, ?, ?, ?, ?)
		`, line.ID, line.JournalEntryID, line.AccountID, line.Type, line.Amount)
		if err != nil {
			return fmt.Errorf("insert ledger line: %w", err)
		}
	}
	return nil
}

func (q queries) AdjustStock(ctx context.Context, tenantID, warehouseID, productID string, delta int64) (int64, error) {
	var quantity int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO stock (tenant_id, warehouse_id, product_id, quantity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tenant_id, warehouse_id, product_id)
		DO UPDATE SET quantity = stock.quantity + excluded.quantity
		RETURNING quantity
	`, tenantID, warehouseID, productID, delta).Scan(&quantity)
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return quantity, nil
}

func (q queries) SetStockQuantity(ctx context.Context, tenantID, warehouseID, productID string, qty int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO stock (tenant_id, warehouse_id, product_id, quantity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tenant_id, warehouse_id, product_id)
		DO UPDATE SET quantity = excluded.quantity
	`, tenantID, warehouseID, productID, qty)
	if err != nil {
		return fmt.Errorf("set stock quantity: %w", err)
	}
	return nil
}

func (q queries) StockQuantity(ctx context.Context, tenantID, warehouseID, productID string) (int64, error) {
	var quantity int64
	err := q.db.QueryRowContext(ctx, `
		SELECT quantity FROM stock
		WHERE tenant_id = ? AND warehouse_id = ? AND product_id = ?
	`, tenantID, warehouseID, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get stock quantity: %w", err)
	}
	return quantity, nil
}

func (q queries) StockByWarehouse(ctx context.Context, tenantID, warehouseID string) ([]inventory.StockLevel, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT tenant_id, warehouse_id, product_id, quantity
		FROM stock
		WHERE tenant_id = ? AND warehouse_id = ?
		ORDER BY product_id
	`, tenantID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}
	defer rows.Close()

	var levels []inventory.StockLevel
	for rows.Next() {
		var l inventory.StockLevel
		if err := rows.Scan(&l.TenantID, &l.WarehouseID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (q queries) ProductCost(ctx context.Context, tenantID, productID string) (float64, error) {
	var cost float64
	err := q.db.QueryRowContext(ctx, `
		SELECT unit_cost FROM products
		WHERE tenant_id = ? AND product_id = ?
	`, tenantID, productID).Scan(&cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get product cost: %w", err)
	}
	return cost, nil
}

func (q queries) SetProductCost(ctx context.Context, tenantID, productID string, cost float64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO products (tenant_id, product_id, unit_cost)
		VALUES (?, ?, ?)
		ON CONFLICT (tenant_id, product_id)
		DO UPDATE SET unit_cost = excluded.unit_cost
	`, tenantID, productID, cost)
	if err != nil {
		return fmt.Errorf("set product cost: %w", err)
	}
	return nil
}

func (q queries) NextSequence(ctx context.Context, tenantID, name string) (int64, error) {
	var value int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO sequences (tenant_id, name, last_value)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, name)
		DO UPDATE SET last_value = sequences.last_value + 1
		RETURNING last_value
	`, tenantID, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return value, nil
}

func (q queries) InsertSale(ctx context.Context, s *posting.Sale) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO sales (id, tenant_id, number, warehouse_id, customer_id, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.TenantID, s.Number, s.WarehouseID, s.CustomerID, s.Total, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range s.Items {
		_, err := q.db.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, product_id, qty, price)
			VALUES (?, ?, ?, ?)
		`, item.SaleID, item.ProductID, item.Qty, item.Price)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (q queries) InsertPurchase(ctx context.Context, p *posting.Purchase) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO purchases (id, tenant_id, number, warehouse_id, supplier_id, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.TenantID, p.Number, p.WarehouseID, p.SupplierID, p.Total, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	for _, item := range p.Items {
		_, err := q.db.ExecContext(ctx, `
			INSERT INTO purchase_items (purchase_id, product_id, qty, cost)
			VALUES (?, ?, ?, ?)
		`, item.PurchaseID, item.ProductID, item.Qty, item.Cost)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (q queries) InsertCount(ctx context.Context, c *inventory.Count) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO inventory_counts (id, tenant_id, warehouse_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.TenantID, c.WarehouseID, c.Status, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert count: %w", err)
	}
	for _, line := range c.Lines {
		_, err := q.db.ExecContext(ctx, `
			INSERT INTO inventory_count_lines (count_id, product_id, system_qty, counted_qty, difference)
			VALUES (?, ?, ?, ?, ?)
		`, line.CountID, line.ProductID, line.SystemQty, line.CountedQty, line.CountedQty-line.SystemQty)
		if err != nil {
			return fmt.Errorf("insert count line: %w", err)
		}
	}
	return nil
}

func (q queries) CountByID(ctx context.Context, tenantID, countID string) (*inventory.Count, error) {
	var c inventory.Count
	err := q.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, warehouse_id, status, created_at
		FROM inventory_counts
		WHERE tenant_id = ? AND id = ?
	`, tenantID, countID).Scan(&c.ID, &c.TenantID, &c.WarehouseID, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT count_id, product_id, system_qty, counted_qty, difference
		FROM inventory_count_lines
		WHERE count_id = ?
		ORDER BY product_id
	`, countID)
	if err != nil {
		return nil, fmt.Errorf("query count lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l inventory.CountLine
		if err := rows.Scan(&l.CountID, &l.ProductID, &l.SystemQty, &l.CountedQty, &l.Difference); err != nil {
			return nil, fmt.Errorf("scan count line: %w", err)
		}
		c.Lines = append(c.Lines, l)
	}
	return &c, rows.Err()
}

func (q queries) SetCountedQty(ctx context.Context, tenantID, countID, productID string, counted int64) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE inventory_count_lines
		SET counted_qty = ?, difference = ? - system_qty
		WHERE count_id = ? AND product_id = ?
		AND EXISTS (
			SELECT 1 FROM inventory_counts c
			WHERE c.id = inventory_count_lines.count_id AND c.tenant_id = ?
		)
	`, counted, counted, countID, productID, tenantID)
	if err != nil {
		return fmt.Errorf("set counted qty: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set counted qty: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("count line %s/%s not found", countID, productID)
	}
	return nil
}

func (q queries) SetCountStatus(ctx context.Context, tenantID, countID string, from, to inventory.CountStatus) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE inventory_counts
		SET status = ?
		WHERE tenant_id = ? AND id = ? AND status = ?
	`, to, tenantID, countID, from)
	if err != nil {
		return fmt.Errorf("set count status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set count status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("count %s is no longer %s", countID, from)
	}
	return nil
}

func (q queries) AccountTotals(ctx context.Context, tenantID string) ([]ledger.AccountTotals, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT
			a.id, a.tenant_id, a.code, a.name, a.type, a.created_at,
			COALESCE(SUM(CASE WHEN t.entry_type = 'debit' THEN t.amount ELSE 0 END), 0) AS debit_total,
			COALESCE(SUM(CASE WHEN t.entry_type = 'credit' THEN t.amount ELSE 0 END), 0) AS credit_total
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.tenant_id = ?
		GROUP BY a.id, a.tenant_id, a.code, a.name, a.type, a.created_at
		ORDER BY a.code
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query account totals: %w", err)
	}
	defer rows.Close()

	var totals []ledger.AccountTotals
	for rows.Next() {
		var t ledger.AccountTotals
		err := rows.Scan(
			&t.Account.ID, &t.Account.TenantID, &t.Account.Code, &t.Account.Name,
			&t.Account.Type, &t.Account.CreatedAt, &t.DebitTotal, &t.CreditTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account totals: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (q queries) LinesByAccount(ctx context.Context, tenantID, accountID string) ([]ledger.PostedLine, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT
			t.id, t.journal_entry_id, t.account_id, a.code, t.entry_type, t.amount,
			e.id, e.entry_date, e.description
		FROM transactions t
		JOIN journal_entries e ON e.id = t.journal_entry_id
		JOIN accounts a ON a.id = t.account_id
		WHERE e.tenant_id = ? AND t.account_id = ?
		ORDER BY e.entry_date, e.id
	`, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	var lines []ledger.PostedLine
	for rows.Next() {
		var l ledger.PostedLine
		err := rows.Scan(
			&l.Line.ID, &l.JournalEntryID, &l.AccountID, &l.AccountCode, &l.Type, &l.Amount,
			&l.EntryID, &l.Date, &l.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
