package journal

// Schema таблицы реестра. seq сохраняет порядок добавления кредитов.
const Schema = `
CREATE TABLE IF NOT EXISTS loans (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	loan_id TEXT NOT NULL UNIQUE,
	customer_id TEXT NOT NULL,
	lender_id TEXT NOT NULL,
	amount REAL NOT NULL,
	remaining_amount REAL NOT NULL,
	payment_date TEXT NOT NULL,
	interest_per_day INTEGER NOT NULL,
	due_date TEXT NOT NULL,
	penalty_per_day REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS alert_runs (
	run_id TEXT PRIMARY KEY,
	evaluated_for TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	alert_count INTEGER NOT NULL,
	alerts TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alert_runs_evaluated_for ON alert_runs(evaluated_for);
`
