// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"slotter/internal/hours"
	"slotter/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const taskColumns = `id, title, duration_minutes, scheduled_start, scheduled_end,
       status, locked, due_date, group_id, created_at`

// CreateTask adds a new task to the repository.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (
			id, title, duration_minutes, scheduled_start, scheduled_end,
			status, locked, due_date, group_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.DurationMinutes,
		formatTimePtr(t.ScheduledStart),
		formatTimePtr(t.ScheduledEnd),
		string(t.Status),
		t.Locked,
		formatTimePtr(t.DueDate),
		nullString(t.GroupID),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	for _, dep := range t.DependsOn {
		if err := s.AddDependency(ctx, t.ID, dep); err != nil {
			return err
		}
	}

	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	deps, err := s.dependenciesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	t.DependsOn = deps

	return t, nil
}

// ListTasks returns every task, scheduled ones first by start time, then
// the rest by creation time.
func (s *SQLite) ListTasks(ctx context.Context) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY scheduled_start IS NULL, scheduled_start, created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	deps, err := s.ListDependencies(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.DependsOn = deps[t.ID]
	}

	return tasks, nil
}

// UpdateTaskStatus changes a task's status.
func (s *SQLite) UpdateTaskStatus(ctx context.Context, id string, status task.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", task.ErrInvalidStatus, status)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	return nil
}

// SetTaskLocked toggles the lock flag.
func (s *SQLite) SetTaskLocked(ctx context.Context, id string, locked bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET locked = ? WHERE id = ?`, locked, id)
	if err != nil {
		return fmt.Errorf("locking task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	return nil
}

// ApplySlots atomically applies a batch of interval changes in a single
// transaction. It validates that the final board has no overlapping
// obstacle intervals before committing.
func (s *SQLite) ApplySlots(ctx context.Context, updates []task.SlotUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Load every task that occupies an interval, plus the updated ones.
	query := `SELECT ` + taskColumns + ` FROM tasks`
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying tasks: %w", err)
	}

	board := make(map[string]*task.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			_ = rows.Close()
			return fmt.Errorf("scanning task: %w", err)
		}
		board[t.ID] = t
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tasks: %w", err)
	}

	// 2. Build the final state.
	for _, u := range updates {
		t, ok := board[u.TaskID]
		if !ok {
			return fmt.Errorf("%w: %s", task.ErrTaskNotFound, u.TaskID)
		}
		t.SetSlot(u.Slot)
	}

	// 3. Check the no-overlap invariant over obstacle intervals.
	var obstacles []*task.Task
	for _, t := range board {
		if t.Obstacle() {
			obstacles = append(obstacles, t)
		}
	}
	for i := 0; i < len(obstacles); i++ {
		for j := i + 1; j < len(obstacles); j++ {
			a, b := obstacles[i], obstacles[j]
			if a.Slot().Overlaps(b.Slot()) {
				return fmt.Errorf("%w: %q (%s) conflicts with %q (%s)",
					task.ErrSlotOverlap, a.Title, a.Slot(), b.Title, b.Slot())
			}
		}
	}

	// 4. Execute all updates.
	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET scheduled_start = ?, scheduled_end = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		start := u.Slot.Start.UTC().Format(time.RFC3339)
		end := u.Slot.End.UTC().Format(time.RFC3339)
		if _, err := stmt.ExecContext(ctx, start, end, u.TaskID); err != nil {
			return fmt.Errorf("updating task %s: %w", u.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// CreateGroup adds a new group.
func (s *SQLite) CreateGroup(ctx context.Context, g *task.Group) error {
	hoursText, err := marshalHours(g.Hours)
	if err != nil {
		return err
	}

	query := `INSERT INTO groups (id, name, auto_schedule, hours) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, g.ID, g.Name, g.AutoSchedule, hoursText); err != nil {
		return fmt.Errorf("inserting group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLite) GetGroup(ctx context.Context, id string) (*task.Group, error) {
	query := `SELECT id, name, auto_schedule, hours FROM groups WHERE id = ?`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", task.ErrGroupNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying group: %w", err)
	}

	return g, nil
}

// ListGroups returns every group.
func (s *SQLite) ListGroups(ctx context.Context) ([]*task.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, auto_schedule, hours FROM groups ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []*task.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	return groups, nil
}

// SetGroupHours replaces a group's schedule hours.
func (s *SQLite) SetGroupHours(ctx context.Context, id string, h hours.WeekHours) error {
	if err := h.Validate(); err != nil {
		return err
	}
	hoursText, err := marshalHours(h)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE groups SET hours = ? WHERE id = ?`, hoursText, id)
	if err != nil {
		return fmt.Errorf("updating group hours: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", task.ErrGroupNotFound, id)
	}

	return nil
}

// AddDependency records that task depends on another task.
func (s *SQLite) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	query := `INSERT OR IGNORE INTO dependencies (task_id, depends_on_id) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, taskID, dependsOnID); err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

// ListDependencies returns all dependency edges.
func (s *SQLite) ListDependencies(ctx context.Context) (task.DependencyMap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT task_id, depends_on_id FROM dependencies ORDER BY task_id, depends_on_id`)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deps := make(task.DependencyMap)
	for rows.Next() {
		var taskID, dependsOnID string
		if err := rows.Scan(&taskID, &dependsOnID); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps[taskID] = append(deps[taskID], dependsOnID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}

	return deps, nil
}

// dependenciesOf returns the dependency ids of one task.
func (s *SQLite) dependenciesOf(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT depends_on_id FROM dependencies WHERE task_id = ? ORDER BY depends_on_id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deps []string
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}

	return deps, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		status    string
		start     sql.NullString
		end       sql.NullString
		due       sql.NullString
		groupID   sql.NullString
		createdAt string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.DurationMinutes,
		&start,
		&end,
		&status,
		&t.Locked,
		&due,
		&groupID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.GroupID = groupID.String

	if t.ScheduledStart, err = parseTimePtr(start); err != nil {
		return nil, fmt.Errorf("parsing scheduled start: %w", err)
	}
	if t.ScheduledEnd, err = parseTimePtr(end); err != nil {
		return nil, fmt.Errorf("parsing scheduled end: %w", err)
	}
	if t.DueDate, err = parseTimePtr(due); err != nil {
		return nil, fmt.Errorf("parsing due date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &t, nil
}

func scanGroup(row scanner) (*task.Group, error) {
	var (
		g         task.Group
		hoursText sql.NullString
	)

	if err := row.Scan(&g.ID, &g.Name, &g.AutoSchedule, &hoursText); err != nil {
		return nil, err
	}

	if hoursText.Valid && hoursText.String != "" {
		h := make(hours.WeekHours)
		if err := toml.Unmarshal([]byte(hoursText.String), &h); err != nil {
			return nil, fmt.Errorf("parsing group hours: %w", err)
		}
		g.Hours = h
	}

	return &g, nil
}

// marshalHours serializes a week-hours map as TOML, the same shape the
// config file uses. Nil maps are stored as NULL.
func marshalHours(h hours.WeekHours) (any, error) {
	if len(h) == 0 {
		return nil, nil
	}
	data, err := toml.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("marshaling group hours: %w", err)
	}
	return string(data), nil
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
