package sqlite

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('asset', 'liability', 'equity', 'revenue', 'expense')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (tenant_id, code)
	);`,

	`CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		description TEXT NOT NULL,
		reference TEXT,
		entry_date TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,

	`CREATE INDEX IF NOT EXISTS idx_journal_entries_tenant_date
		ON journal_entries (tenant_id, entry_date);`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		journal_entry_id TEXT NOT NULL REFERENCES journal_entries(id),
		account_id TEXT NOT NULL REFERENCES accounts(id),
		entry_type TEXT NOT NULL CHECK (entry_type IN ('debit', 'credit')),
		amount REAL NOT NULL CHECK (amount > 0)
	);`,

	`CREATE INDEX IF NOT EXISTS idx_transactions_account
		ON transactions (account_id);`,

	`CREATE TABLE IF NOT EXISTS stock (
		tenant_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, warehouse_id, product_id)
	);`,

	`CREATE TABLE IF NOT EXISTS products (
		tenant_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		unit_cost REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, product_id)
	);`,

	`CREATE TABLE IF NOT EXISTS sequences (
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		last_value INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, name)
	);`,

	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		warehouse_id TEXT NOT NULL,
		customer_id TEXT,
		total REAL NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (tenant_id, number)
	);`,

	`CREATE TABLE IF NOT EXISTS sale_items (
		sale_id TEXT NOT NULL REFERENCES sales(id),
		product_id TEXT NOT NULL,
		qty INTEGER NOT NULL,
		price REAL NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		warehouse_id TEXT NOT NULL,
		supplier_id TEXT,
		total REAL NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (tenant_id, number)
	);`,

	`CREATE TABLE IF NOT EXISTS purchase_items (
		purchase_id TEXT NOT NULL REFERENCES purchases(id),
		product_id TEXT NOT NULL,
		qty INTEGER NOT NULL,
		cost REAL NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS inventory_counts (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('DRAFT', 'COMPLETED', 'CANCELLED')),
		created_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS inventory_count_lines (
		count_id TEXT NOT NULL REFERENCES inventory_counts(id),
		product_id TEXT NOT NULL,
		system_qty INTEGER NOT NULL,
		counted_qty INTEGER NOT NULL,
		difference INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (count_id, product_id)
	);`,
}
