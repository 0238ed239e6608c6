package dto_test

import (
	"testing"
	"time"

	dom "lawn/internal/domain"
	"lawn/internal/dto"
	"lawn/internal/lawn"
	"lawn/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTodoFormats(t *testing.T) {
	due := time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, time.August, 31, 9, 5, 7, 0, time.UTC)
	resp := dto.FromTodo(dom.Todo{
		ID:          42,
		Content:     "ship it",
		Completed:   true,
		Important:   true,
		DueDate:     &due,
		CreatedAt:   time.Date(2026, time.August, 30, 23, 59, 59, 0, time.UTC),
		CompletedAt: &completedAt,
	})

	assert.Equal(t, int64(42), resp.ID)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2026-09-04", *resp.DueDate)
	assert.Equal(t, "2026-08-30 23:59:59", resp.CreatedAt)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, "2026-08-31 09:05:07", *resp.CompletedAt)
}

func TestFromTodoNilTimestamps(t *testing.T) {
	resp := dto.FromTodo(dom.Todo{ID: 1, Content: "open", CreatedAt: time.Now().UTC()})
	assert.Nil(t, resp.DueDate)
	assert.Nil(t, resp.CompletedAt)
	assert.False(t, resp.Completed)
}

func TestFromLawn(t *testing.T) {
	weeks, months := lawn.BuildYearGrid(map[time.Time]int{
		time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC): 5,
	}, 2024)
	resp := dto.FromLawn(service.LawnData{
		Year:   2024,
		Today:  time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
		Weeks:  weeks,
		Months: months,
	})

	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, "2024-07-10", resp.Today)
	require.Len(t, resp.Weeks, len(weeks))
	assert.Equal(t, "2023-12-31", resp.Weeks[0][0].Date)

	var found bool
	for _, w := range resp.Weeks {
		for _, d := range w {
			if d.Date == "2024-07-04" {
				found = true
				assert.Equal(t, 5, d.Count)
				assert.Equal(t, 3, d.Level)
			}
		}
	}
	assert.True(t, found)
	require.Len(t, resp.Months, len(months))
	assert.Equal(t, "Jan", resp.Months[0].Label)
}
