package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawn/internal/auth"
	dom "lawn/internal/domain"
	"lawn/internal/handlers"
	"lawn/internal/service"
	"lawn/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asUser stands in for the session middleware and authenticates every
// request as the given user.
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newRouter(repo *testutil.MemTodoRepo, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewTodoHandler(service.NewTodoService(repo, nil))

	r := gin.New()
	api := r.Group("/api/v1", asUser(userID))
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/search", h.Search)
	api.GET("/todos/overdue", h.Overdue)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.POST("/todos/:id/complete", h.Complete)
	api.POST("/todos/:id/important", h.Important)
	api.POST("/todos/:id/delete", h.Delete)
	api.GET("/lawn", h.Lawn)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTodoEndpoint(t *testing.T) {
	r := newRouter(testutil.NewMemTodoRepo(), 1)

	due := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")
	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{
		"content":   "write report",
		"due_date":  due,
		"important": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Todo    struct {
			ID          int64   `json:"id"`
			Content     string  `json:"content"`
			Completed   bool    `json:"completed"`
			Important   bool    `json:"important"`
			DueDate     *string `json:"due_date"`
			CreatedAt   string  `json:"created_at"`
			CompletedAt *string `json:"completed_at"`
		} `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Todo.ID)
	assert.Equal(t, "write report", resp.Todo.Content)
	assert.False(t, resp.Todo.Completed)
	assert.Nil(t, resp.Todo.CompletedAt)
	require.NotNil(t, resp.Todo.DueDate)
	assert.Equal(t, due, *resp.Todo.DueDate)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, resp.Todo.CreatedAt)
}

func TestCreateTodoValidationErrors(t *testing.T) {
	r := newRouter(testutil.NewMemTodoRepo(), 1)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing content", gin.H{"due_date": "2099-01-01"}},
		{"bad date", gin.H{"content": "x", "due_date": "01/02/2099"}},
		{"past date", gin.H{"content": "x", "due_date": "2001-01-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/todos", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestCompleteToggleEndpoint(t *testing.T) {
	repo := testutil.NewMemTodoRepo()
	r := newRouter(repo, 1)

	created, err := repo.Create(context.Background(), dom.Todo{UserID: 1, Content: "task"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/complete", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"completed":true}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/complete", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"completed":false}`, w.Body.String())
}

func TestImportantToggleEndpoint(t *testing.T) {
	repo := testutil.NewMemTodoRepo()
	r := newRouter(repo, 1)

	created, err := repo.Create(context.Background(), dom.Todo{UserID: 1, Content: "task"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/important", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"important":true}`, w.Body.String())
}

func TestDeleteEndpoint(t *testing.T) {
	repo := testutil.NewMemTodoRepo()
	r := newRouter(repo, 1)

	created, err := repo.Create(context.Background(), dom.Todo{UserID: 1, Content: "task"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/delete", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/todos/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsByNonOwnerReturn403(t *testing.T) {
	repo := testutil.NewMemTodoRepo()
	// Router authenticates as user 1; the todo belongs to user 2.
	r := newRouter(repo, 1)

	created, err := repo.Create(context.Background(), dom.Todo{UserID: 2, Content: "not yours"})
	require.NoError(t, err)

	paths := []struct {
		method string
		path   string
		body   gin.H
	}{
		{http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/complete", created.ID), nil},
		{http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/important", created.ID), nil},
		{http.MethodPost, fmt.Sprintf("/api/v1/todos/%d/delete", created.ID), nil},
		{http.MethodPut, fmt.Sprintf("/api/v1/todos/%d", created.ID), gin.H{"content": "stolen"}},
	}
	for _, p := range paths {
		w := doJSON(t, r, p.method, p.path, p.body)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", p.method, p.path)
		var resp struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	}

	after, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, after, "non-owner requests must not mutate")
}

func TestUnknownIDReturns404(t *testing.T) {
	r := newRouter(testutil.NewMemTodoRepo(), 1)
	w := doJSON(t, r, http.MethodPost, "/api/v1/todos/999/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLawnEndpoint(t *testing.T) {
	repo := testutil.NewMemTodoRepo()
	r := newRouter(repo, 1)

	// Two completions on a fixed day of 2024.
	day := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		created, err := repo.Create(context.Background(), dom.Todo{UserID: 1, Content: "done"})
		require.NoError(t, err)
		_, err = repo.SetCompleted(context.Background(), created.ID, true, &day)
		require.NoError(t, err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/lawn?year=2024", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Year   int    `json:"year"`
		Today  string `json:"today"`
		Weeks  [][]struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
			Level int    `json:"level"`
		} `json:"weeks"`
		Months []struct {
			Label string `json:"label"`
			Weeks int    `json:"weeks"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.Year)
	require.Len(t, resp.Weeks, 53)

	spanTotal := 0
	for _, m := range resp.Months {
		spanTotal += m.Weeks
	}
	assert.Equal(t, 53, spanTotal)

	var found bool
	for _, week := range resp.Weeks {
		require.Len(t, week, 7)
		for _, d := range week {
			if d.Date == "2024-03-10" {
				found = true
				assert.Equal(t, 2, d.Count)
				assert.Equal(t, 1, d.Level)
			}
		}
	}
	assert.True(t, found)
}

func TestLawnEndpointRejectsBadYear(t *testing.T) {
	r := newRouter(testutil.NewMemTodoRepo(), 1)
	w := doJSON(t, r, http.MethodGet, "/api/v1/lawn?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type staticSessions map[string]int64

func (s staticSessions) GetUserID(_ context.Context, id string) (int64, bool) {
	uid, ok := s[id]
	return uid, ok
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", auth.RequireSession(staticSessions{"good": 7}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": auth.UserIDFromContext(c)})
	})

	// No cookie.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown session.
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "bad"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid session.
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "good"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}
