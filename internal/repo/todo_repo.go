package repo

import (
	"context"
	"time"

	dom "lawn/internal/domain"
	"lawn/internal/lawn"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64) ([]dom.Todo, error)
	Update(ctx context.Context, id int64, content string, important bool, dueDate *time.Time) (dom.Todo, error)
	SetCompleted(ctx context.Context, id int64, completed bool, completedAt *time.Time) (dom.Todo, error)
	SetImportant(ctx context.Context, id int64, important bool) (dom.Todo, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, userID int64, q string) ([]dom.Todo, error)
	Overdue(ctx context.Context, userID int64, today time.Time) ([]dom.Todo, error)
	CompletionCounts(ctx context.Context, userID int64, from, to time.Time) (map[time.Time]int, error)
}

const todoColumns = `id, user_id, content, completed, important, due_date, created_at, completed_at`

// listOrder is the canonical list ordering: incomplete first, dated before
// undated, earliest deadline first, important first, newest first.
const listOrder = `completed ASC, due_date ASC NULLS LAST, important DESC, created_at DESC`

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, content, important, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.UserID, t.Content, t.Important, t.DueDate).Scan(
		&out.ID, &out.UserID, &out.Content, &out.Completed, &out.Important,
		&out.DueDate, &out.CreatedAt, &out.CompletedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Content, &t.Completed, &t.Important,
		&t.DueDate, &t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) List(ctx context.Context, userID int64) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY ` + listOrder
	return r.queryTodos(ctx, query, userID)
}

func (r *PGTodoRepo) Update(ctx context.Context, id int64, content string, important bool, dueDate *time.Time) (dom.Todo, error) {
	query := `
		UPDATE todos SET content = $2, important = $3, due_date = $4
		WHERE id = $1
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, content, important, dueDate).Scan(
		&t.ID, &t.UserID, &t.Content, &t.Completed, &t.Important,
		&t.DueDate, &t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

// SetCompleted writes the flag and the timestamp in one statement so the
// completed/completed_at invariant is never observable half-applied.
func (r *PGTodoRepo) SetCompleted(ctx context.Context, id int64, completed bool, completedAt *time.Time) (dom.Todo, error) {
	query := `
		UPDATE todos SET completed = $2, completed_at = $3
		WHERE id = $1
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, completed, completedAt).Scan(
		&t.ID, &t.UserID, &t.Content, &t.Completed, &t.Important,
		&t.DueDate, &t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) SetImportant(ctx context.Context, id int64, important bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET important = $2
		WHERE id = $1
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, important).Scan(
		&t.ID, &t.UserID, &t.Content, &t.Completed, &t.Important,
		&t.DueDate, &t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

func (r *PGTodoRepo) Search(ctx context.Context, userID int64, q string) ([]dom.Todo, error) {
	pattern := "%" + q + "%"
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE user_id = $1 AND content ILIKE $2 ORDER BY ` + listOrder
	return r.queryTodos(ctx, query, userID, pattern)
}

func (r *PGTodoRepo) Overdue(ctx context.Context, userID int64, today time.Time) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE user_id = $1 AND completed = FALSE AND due_date IS NOT NULL AND due_date < $2
		ORDER BY due_date ASC`
	return r.queryTodos(ctx, query, userID, today)
}

// CompletionCounts groups the user's completions by UTC day over [from, to]
// inclusive. Days without completions are absent from the map.
func (r *PGTodoRepo) CompletionCounts(ctx context.Context, userID int64, from, to time.Time) (map[time.Time]int, error) {
	query := `
		SELECT (completed_at AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		FROM todos
		WHERE user_id = $1 AND completed_at IS NOT NULL
			AND (completed_at AT TIME ZONE 'UTC')::date BETWEEN $2 AND $3
		GROUP BY day`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[time.Time]int)
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[lawn.DayKey(day)] = n
	}
	return counts, rows.Err()
}

func (r *PGTodoRepo) queryTodos(ctx context.Context, query string, args ...any) ([]dom.Todo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Content, &t.Completed, &t.Important,
			&t.DueDate, &t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
