package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations should be run via the migrate CLI or embed package
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE projects (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    client_name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    phase TEXT NOT NULL CHECK(phase IN (
        'intake', 'estimating', 'quoted', 'contracted',
        'active', 'punch_list', 'complete', 'cancelled'
    )),
    estimate_low REAL NOT NULL DEFAULT 0,
    estimate_high REAL NOT NULL DEFAULT 0,
    contract_value REAL NOT NULL DEFAULT 0,
    selected_tier TEXT NOT NULL DEFAULT '',
    line_items TEXT NOT NULL DEFAULT '[]',
    selections_pending INTEGER NOT NULL DEFAULT 0,
    amount_paid REAL NOT NULL DEFAULT 0,
    cancel_reason TEXT NOT NULL DEFAULT '',
    wall_sections TEXT NOT NULL DEFAULT '[]',
    quote_sent_at TIMESTAMP,
    contract_signed_at TIMESTAMP,
    actual_start TIMESTAMP,
    actual_completion TIMESTAMP,
    phase_changed_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_projects ON projects(tenant_id);
CREATE INDEX idx_phase ON projects(phase);

-- Scope tasks table
CREATE TABLE tasks (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'done', 'blocked')),
    note TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX idx_tenant_tasks ON tasks(tenant_id);
CREATE INDEX idx_project_tasks ON tasks(project_id);
CREATE INDEX idx_task_status ON tasks(status);

-- Activity log (append-only)
CREATE TABLE activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    event_data TEXT NOT NULL DEFAULT '{}',
    actor TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_activity ON activity_log(tenant_id);
CREATE INDEX idx_project_activity ON activity_log(project_id);
CREATE INDEX idx_created_at ON activity_log(created_at);

-- Saved framing openings
CREATE TABLE saved_openings (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    opening_type TEXT NOT NULL,
    rough_width REAL NOT NULL,
    rough_height REAL NOT NULL,
    members TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_tenant_openings ON saved_openings(tenant_id);

-- Full-text search over project intake fields (SQLite FTS5)
CREATE VIRTUAL TABLE projects_fts USING fts5(
    name,
    client_name,
    address,
    content='projects',
    content_rowid='rowid'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER projects_ai AFTER INSERT ON projects BEGIN
    INSERT INTO projects_fts(rowid, name, client_name, address)
    VALUES (new.rowid, new.name, new.client_name, new.address);
END;

CREATE TRIGGER projects_ad AFTER DELETE ON projects BEGIN
    DELETE FROM projects_fts WHERE rowid = old.rowid;
END;

CREATE TRIGGER projects_au AFTER UPDATE ON projects BEGIN
    INSERT INTO projects_fts(projects_fts, rowid, name, client_name, address)
    VALUES('delete', old.rowid, old.name, old.client_name, old.address);
    INSERT INTO projects_fts(rowid, name, client_name, address)
    VALUES (new.rowid, new.name, new.client_name, new.address);
END;

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX idx_tenant_keys ON api_keys(tenant_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
