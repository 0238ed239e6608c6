// Package testutil provides in-memory repo implementations so service and
// handler tests run without Postgres or Redis.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "lawn/internal/domain"
	"lawn/internal/lawn"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemTodoRepo is an in-memory repo.TodoRepo. Missing rows surface as
// pgx.ErrNoRows, matching the Postgres implementation. Created timestamps
// are strictly increasing so created_at ordering is deterministic.
type MemTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	base   time.Time
	todos  map[int64]dom.Todo
}

func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{
		base:  time.Now().UTC().Add(-24 * time.Hour),
		todos: make(map[int64]dom.Todo),
	}
}

func (r *MemTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = r.base.Add(time.Duration(r.nextID) * time.Second)
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) GetByID(_ context.Context, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTodoRepo) List(_ context.Context, userID int64) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sortTodos(list)
	return list, nil
}

func (r *MemTodoRepo) Update(_ context.Context, id int64, content string, important bool, dueDate *time.Time) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Content = content
	t.Important = important
	t.DueDate = dueDate
	r.todos[id] = t
	return t, nil
}

func (r *MemTodoRepo) SetCompleted(_ context.Context, id int64, completed bool, completedAt *time.Time) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Completed = completed
	t.CompletedAt = completedAt
	r.todos[id] = t
	return t, nil
}

func (r *MemTodoRepo) SetImportant(_ context.Context, id int64, important bool) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Important = important
	r.todos[id] = t
	return t, nil
}

func (r *MemTodoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

func (r *MemTodoRepo) Search(_ context.Context, userID int64, q string) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	var list []dom.Todo
	for _, t := range r.todos {
		if t.UserID == userID && strings.Contains(strings.ToLower(t.Content), q) {
			list = append(list, t)
		}
	}
	sortTodos(list)
	return list, nil
}

func (r *MemTodoRepo) Overdue(_ context.Context, userID int64, today time.Time) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Todo
	for _, t := range r.todos {
		if t.UserID == userID && !t.Completed && t.DueDate != nil && t.DueDate.Before(today) {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DueDate.Before(*list[j].DueDate) })
	return list, nil
}

func (r *MemTodoRepo) CompletionCounts(_ context.Context, userID int64, from, to time.Time) (map[time.Time]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[time.Time]int)
	for _, t := range r.todos {
		if t.UserID != userID || t.CompletedAt == nil {
			continue
		}
		day := lawn.DayKey(*t.CompletedAt)
		if day.Before(from) || day.After(to) {
			continue
		}
		counts[day]++
	}
	return counts, nil
}

// sortTodos applies the canonical list ordering: incomplete first, dated
// before undated, earliest deadline first, important first, newest first.
func sortTodos(list []dom.Todo) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		if a.Important != b.Important {
			return a.Important
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// MemUserRepo is an in-memory repo.UserRepo. Duplicate usernames surface as
// a Postgres unique violation, matching the real repo.
type MemUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]dom.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{users: make(map[string]dom.User)}
}

func (r *MemUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	r.users[username] = u
	return u, nil
}
