package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "lawn/internal/domain"
	"lawn/internal/lawn"
	"lawn/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"lawn/internal/cache"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("not the owner")
	ErrContentRequired = errors.New("content is required")
	ErrBadDueDate      = errors.New("due_date must be YYYY-MM-DD")
	ErrPastDueDate     = errors.New("due_date is in the past")
)

const dueDateLayout = "2006-01-02"

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

// parseDueDate validates a due date string. "" means no due date. A date in
// the past is rejected here; an already-stored due date is allowed to age
// into the past.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dueDateLayout, s, time.UTC)
	if err != nil {
		return nil, ErrBadDueDate
	}
	if d.Before(lawn.DayKey(time.Now().UTC())) {
		return nil, ErrPastDueDate
	}
	return &d, nil
}

func (s *TodoService) Create(ctx context.Context, userID int64, content, dueDate string, important bool) (dom.Todo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return dom.Todo{}, ErrContentRequired
	}
	due, err := parseDueDate(dueDate)
	if err != nil {
		return dom.Todo{}, err
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:    userID,
		Content:   content,
		Important: important,
		DueDate:   due,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]dom.Todo, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx, userID)
}

// owned loads a todo and enforces ownership: unknown id is ErrNotFound,
// someone else's todo is ErrForbidden, never a silent no-op.
func (s *TodoService) owned(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	if t.UserID != userID {
		return dom.Todo{}, ErrForbidden
	}
	return t, nil
}

func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	return s.owned(ctx, userID, id)
}

// Update overwrites content, important and due date. An empty due date
// clears it. Completion state is left untouched.
func (s *TodoService) Update(ctx context.Context, userID, id int64, content, dueDate string, important bool) (dom.Todo, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return dom.Todo{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return dom.Todo{}, ErrContentRequired
	}
	due, err := parseDueDate(dueDate)
	if err != nil {
		return dom.Todo{}, err
	}
	t, err := s.repo.Update(ctx, id, content, important, due)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// ToggleCompleted flips the completed flag. The timestamp follows the flag:
// set to now on false->true, cleared on true->false.
func (s *TodoService) ToggleCompleted(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	completed := !t.Completed
	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}
	t, err = s.repo.SetCompleted(ctx, id, completed, completedAt)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) ToggleImportant(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	t, err = s.repo.SetImportant(ctx, id, !t.Important)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TodoService) Search(ctx context.Context, userID int64, q string) ([]dom.Todo, error) {
	q = strings.TrimSpace(q)
	if s.cache != nil {
		key := "search:" + strconv.FormatInt(userID, 10) + ":" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, userID, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, userID, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, userID, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.Search(ctx, userID, q)
}

func (s *TodoService) Overdue(ctx context.Context, userID int64) ([]dom.Todo, error) {
	today := lawn.DayKey(time.Now().UTC())
	if s.cache != nil {
		key := "overdue:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetOverdue(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Overdue(ctx, userID, today)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetOverdue(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.Overdue(ctx, userID, today)
}

// LawnData is a render-ready year of completion activity.
type LawnData struct {
	Year   int
	Today  time.Time
	Weeks  []lawn.Week
	Months []lawn.MonthSpan
}

// Lawn builds the activity grid for one calendar year. year <= 0 means the
// current year. The counts query is widened to the grid bounds so the
// overflow days of the first and last weeks carry real counts. Always
// recomputed, never cached.
func (s *TodoService) Lawn(ctx context.Context, userID int64, year int) (LawnData, error) {
	today := lawn.DayKey(time.Now().UTC())
	if year <= 0 {
		year = today.Year()
	}
	gridStart, gridEnd := lawn.GridBounds(year)
	counts, err := s.repo.CompletionCounts(ctx, userID, gridStart, gridEnd)
	if err != nil {
		return LawnData{}, err
	}
	weeks, months := lawn.BuildYearGrid(counts, year)
	return LawnData{Year: year, Today: today, Weeks: weeks, Months: months}, nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
