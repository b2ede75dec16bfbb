package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS groups (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			auto_schedule INTEGER NOT NULL DEFAULT 0,
			hours         TEXT,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			scheduled_start  DATETIME,
			scheduled_end    DATETIME,
			status           TEXT DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled', 'rescheduled')),
			locked           INTEGER NOT NULL DEFAULT 0,
			due_date         DATETIME,
			group_id         TEXT REFERENCES groups(id),
			created_at       DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS dependencies (
			task_id       TEXT NOT NULL REFERENCES tasks(id),
			depends_on_id TEXT NOT NULL REFERENCES tasks(id),
			PRIMARY KEY (task_id, depends_on_id)
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_start);
		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
		CREATE INDEX IF NOT EXISTS idx_tasks_group ON tasks(group_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
