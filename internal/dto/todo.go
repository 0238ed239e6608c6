package dto

import (
	"time"

	dom "lawn/internal/domain"
	"lawn/internal/service"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// CreateTodoRequest is the JSON body for POST /todos. due_date is optional,
// YYYY-MM-DD; content validation lives in the service so the error taxonomy
// stays in one place.
type CreateTodoRequest struct {
	Content   string `json:"content"`
	DueDate   string `json:"due_date"`
	Important bool   `json:"important"`
}

// UpdateTodoRequest is the JSON body for PUT /todos/:id. It overwrites
// content, important and due_date; an absent due_date clears it.
type UpdateTodoRequest struct {
	Content   string `json:"content"`
	DueDate   string `json:"due_date"`
	Important bool   `json:"important"`
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Content     string  `json:"content"`
	Completed   bool    `json:"completed"`
	Important   bool    `json:"important"`
	DueDate     *string `json:"due_date"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}

// LawnDay is one grid cell: date, raw completion count and intensity 0..4.
type LawnDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// LawnResponse is a render-ready year grid. Weeks run oldest first, Sunday
// to Saturday; months are label spans in first-seen order; today lets the
// client mark the current day.
type LawnResponse struct {
	Year   int             `json:"year"`
	Today  string          `json:"today"`
	Weeks  [][]LawnDay     `json:"weeks"`
	Months []LawnMonthSpan `json:"months"`
}

type LawnMonthSpan struct {
	Label string `json:"label"`
	Weeks int    `json:"weeks"`
}

// FromTodo converts a domain todo to its wire shape: dates as YYYY-MM-DD,
// timestamps as "YYYY-MM-DD HH:MM:SS" in UTC.
func FromTodo(t dom.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Content:     t.Content,
		Completed:   t.Completed,
		Important:   t.Important,
		DueDate:     formatDate(t.DueDate),
		CreatedAt:   t.CreatedAt.UTC().Format(dateTimeLayout),
		CompletedAt: formatDateTime(t.CompletedAt),
	}
}

// FromTodos converts a list of domain todos, preserving order.
func FromTodos(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = FromTodo(list[i])
	}
	return out
}

// FromLawn converts the service's lawn data to its wire shape.
func FromLawn(d service.LawnData) LawnResponse {
	weeks := make([][]LawnDay, len(d.Weeks))
	for i, w := range d.Weeks {
		days := make([]LawnDay, len(w))
		for j, day := range w {
			days[j] = LawnDay{
				Date:  day.Date.Format(dateLayout),
				Count: day.Count,
				Level: day.Level,
			}
		}
		weeks[i] = days
	}
	months := make([]LawnMonthSpan, len(d.Months))
	for i, m := range d.Months {
		months[i] = LawnMonthSpan{Label: m.Label, Weeks: m.Weeks}
	}
	return LawnResponse{
		Year:   d.Year,
		Today:  d.Today.Format(dateLayout),
		Weeks:  weeks,
		Months: months,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

func formatDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateTimeLayout)
	return &s
}
