package postgres

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('asset', 'liability', 'equity', 'revenue', 'expense')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (tenant_id, code)
	);`,

	`CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		description TEXT NOT NULL,
		reference TEXT,
		entry_date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,

	`CREATE INDEX IF NOT EXISTS idx_journal_entries_tenant_date
		ON journal_entries (tenant_id, entry_date);`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		journal_entry_id TEXT NOT NULL REFERENCES journal_entries(id) ON DELETE RESTRICT,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE RESTRICT,
		entry_type TEXT NOT NULL CHECK (entry_type IN ('debit', 'credit')),
		amount NUMERIC(18, 2) NOT NULL CHECK (amount > 0)
	);`,

	`CREATE INDEX IF NOT EXISTS idx_transactions_account
		ON transactions (account_id);`,

	`CREATE TABLE IF NOT EXISTS stock (
		tenant_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, warehouse_id, product_id)
	);`,

	`CREATE TABLE IF NOT EXISTS products (
		tenant_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		unit_cost NUMERIC(18, 2) NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, product_id)
	);`,

	`CREATE TABLE IF NOT EXISTS sequences (
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		last_value BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, name)
	);`,

	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		number BIGINT NOT NULL,
		warehouse_id TEXT NOT NULL,
		customer_id TEXT,
		total NUMERIC(18, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (tenant_id, number)
	);`,

	`CREATE TABLE IF NOT EXISTS sale_items (
		sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		qty BIGINT NOT NULL,
		price NUMERIC(18, 2) NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		number BIGINT NOT NULL,
		warehouse_id TEXT NOT NULL,
		supplier_id TEXT,
		total NUMERIC(18, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (tenant_id, number)
	);`,

	`CREATE TABLE IF NOT EXISTS purchase_items (
		purchase_id TEXT NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		qty BIGINT NOT NULL,
		cost NUMERIC(18, 2) NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS inventory_counts (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('DRAFT', 'COMPLETED', 'CANCELLED')),
		created_at TIMESTAMPTZ NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS inventory_count_lines (
		count_id TEXT NOT NULL REFERENCES inventory_counts(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		system_qty BIGINT NOT NULL,
		counted_qty BIGINT NOT NULL,
		difference BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (count_id, product_id)
	);`,
}
