package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID        int64
	UserID    int64
	Content   string
	Completed bool
	Important bool
	// DueDate is a calendar date (UTC midnight), nil when no deadline is set.
	DueDate *time.Time

	CreatedAt time.Time
	// CompletedAt is set when Completed flips to true and cleared when it
	// flips back. Completed == (CompletedAt != nil) always holds.
	CompletedAt *time.Time
}
