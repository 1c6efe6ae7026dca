package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

// DB is the sqlx-backed repository. Queries are written with `?`
// placeholders and rebound per driver, so the same storage speaks
// both pgx and sqlite3.
type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, driver, address string) (*DB, error) {
	conn, err := sqlx.Connect(driver, address)
	if err != nil {
		log.Error("connection problem", "driver", driver, "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

const taskColumns = `id, owner_id, text, done, deadline, category, COALESCE(priority, '') AS priority, repeat, created_at, updated_at`

func (db *DB) CreateTask(ctx context.Context, ownerID int64, text string, deadline *time.Time, category *string, priority core.Priority, repeat core.Repeat) (core.Task, error) {
	text = strings.TrimSpace(text)
	if ownerID <= 0 || text == "" {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	q := db.conn.Rebind(`
		INSERT INTO tasks(owner_id, text, deadline, category, priority, repeat)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?)
		RETURNING ` + taskColumns + `;
	`)

	var prio *string
	if !priority.IsNone() {
		p := string(priority)
		prio = &p
	}

	var t core.Task
	err := db.conn.QueryRowxContext(ctx, q, ownerID, text, deadline, category, prio, string(repeat)).
		StructScan(&t)
	if err != nil {
		if isCheckViolation(err) {
			return core.Task{}, core.ErrTaskInvalidArgs
		}
		return core.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (db *DB) GetTask(ctx context.Context, id int64) (core.Task, error) {
	q := db.conn.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (db *DB) ListTasks(ctx context.Context, f core.ListFilter) ([]core.Task, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`)
	args = append(args, f.OwnerID)

	if !f.IncludeDone {
		sb.WriteString(" AND done = FALSE")
	}

	if f.Category != nil {
		sb.WriteString(" AND category = ?")
		args = append(args, *f.Category)
	}

	if f.Priority != nil {
		sb.WriteString(" AND COALESCE(priority, '') = ?")
		args = append(args, string(*f.Priority))
	}

	sb.WriteString(orderByPriorityDeadline)

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, db.conn.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// Listing order: priority band first, then deadline ascending with
// NULL deadlines last inside the band.
const orderByPriorityDeadline = `
	ORDER BY
		CASE priority
			WHEN 'Высокий' THEN 1
			WHEN 'Средний' THEN 2
			WHEN 'Низкий' THEN 3
			ELSE 4
		END,
		(deadline IS NULL),
		deadline ASC,
		id ASC
`

func (db *DB) UpdateTask(ctx context.Context, id int64, p core.TaskPatch) (core.Task, error) {
	if id <= 0 || p.Empty() {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	var (
		sets []string
		args []any
	)

	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return core.Task{}, core.ErrTaskInvalidArgs
		}
		sets = append(sets, "text = ?")
		args = append(args, text)
	}
	if p.ClearDeadline {
		sets = append(sets, "deadline = NULL")
	} else if p.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, *p.Deadline)
	}
	if p.ClearCategory {
		sets = append(sets, "category = NULL")
	} else if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Priority != nil {
		sets = append(sets, "priority = NULLIF(?, '')")
		args = append(args, string(*p.Priority))
	}
	if p.Repeat != nil {
		sets = append(sets, "repeat = ?")
		args = append(args, string(*p.Repeat))
	}

	args = append(args, id)

	q := db.conn.Rebind(`
		UPDATE tasks
		SET ` + strings.Join(sets, ", ") + `, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING ` + taskColumns + `;
	`)

	var out core.Task
	if err := db.conn.GetContext(ctx, &out, q, args...); err != nil {
		if isCheckViolation(err) {
			return core.Task{}, core.ErrTaskInvalidArgs
		}
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	return out, nil
}

func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	q := db.conn.Rebind(`DELETE FROM tasks WHERE id = ?`)

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

// MarkDone is idempotent: re-marking a finished task succeeds.
func (db *DB) MarkDone(ctx context.Context, id int64) error {
	return db.setDone(ctx, id, true)
}

func (db *DB) MarkUndone(ctx context.Context, id int64) error {
	return db.setDone(ctx, id, false)
}

func (db *DB) setDone(ctx context.Context, id int64, done bool) error {
	q := db.conn.Rebind(`UPDATE tasks SET done = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)

	res, err := db.conn.ExecContext(ctx, q, done, id)
	if err != nil {
		return fmt.Errorf("mark task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

func (db *DB) SearchTasks(ctx context.Context, ownerID int64, keyword string) ([]core.Task, error) {
	q := db.conn.Rebind(`
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = ? AND text LIKE ?` + orderByPriorityDeadline)

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, q, ownerID, "%"+keyword+"%"); err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return out, nil
}

func (db *DB) ListCategories(ctx context.Context, ownerID int64) ([]string, error) {
	q := db.conn.Rebind(`
		SELECT DISTINCT category
		FROM tasks
		WHERE owner_id = ? AND category IS NOT NULL AND category != ''
		ORDER BY category ASC
	`)

	var out []string
	if err := db.conn.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (db *DB) UserStats(ctx context.Context, ownerID int64) (core.Stats, error) {
	q := db.conn.Rebind(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN done THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN deadline IS NOT NULL AND deadline < CURRENT_TIMESTAMP AND NOT done THEN 1 ELSE 0 END), 0) AS overdue,
			COALESCE(SUM(CASE WHEN priority = 'Высокий' AND NOT done THEN 1 ELSE 0 END), 0) AS high_priority,
			COALESCE(SUM(CASE WHEN category IS NOT NULL THEN 1 ELSE 0 END), 0) AS with_category
		FROM tasks
		WHERE owner_id = ?
	`)

	var st core.Stats
	if err := db.conn.GetContext(ctx, &st, q, ownerID); err != nil {
		return core.Stats{}, fmt.Errorf("user stats: %w", err)
	}
	return st, nil
}

func (db *DB) DueTasks(ctx context.Context) ([]core.Task, error) {
	const q = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE done = FALSE AND deadline IS NOT NULL
		ORDER BY deadline ASC
	`

	var out []core.Task
	if err := db.conn.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("due tasks: %w", err)
	}
	return out, nil
}

// pg helpers

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
