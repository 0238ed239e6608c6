package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"lawn/internal/auth"
	"lawn/internal/dto"
	"lawn/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Content, req.DueDate, req.Important)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "todo": dto.FromTodo(t)})
}

// List godoc
// @Summary      List the user's todos
// @Description  Incomplete first, dated before undated, earliest deadline
// @Description  first, important first, newest first.
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: dto.FromTodos(list)})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// Update godoc
// @Summary      Edit a todo
// @Description  Overwrites content, important and due_date. An absent
// @Description  due_date clears it; completion state is untouched.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "New values"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, req.Content, req.DueDate, req.Important)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// Complete godoc
// @Summary      Toggle a todo's completed flag
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id}/complete [post]
func (h *TodoHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.ToggleCompleted(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "completed": t.Completed})
}

// Important godoc
// @Summary      Toggle a todo's important flag
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id}/important [post]
func (h *TodoHandler) Important(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.ToggleImportant(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "important": t.Important})
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id}/delete [post]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Search godoc
// @Summary      Search the user's todos by content
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  map[string]string
// @Router       /todos/search [get]
func (h *TodoHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), auth.UserIDFromContext(c), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: dto.FromTodos(list)})
}

// Overdue godoc
// @Summary      List incomplete todos past their due date
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  map[string]string
// @Router       /todos/overdue [get]
func (h *TodoHandler) Overdue(c *gin.Context) {
	list, err := h.svc.Overdue(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: dto.FromTodos(list)})
}

// Lawn godoc
// @Summary      Yearly completion-activity grid
// @Tags         lawn
// @Produce      json
// @Security     CookieAuth
// @Param        year  query     int  false  "Calendar year (default: current)"
// @Success      200   {object}  dto.LawnResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /lawn [get]
func (h *TodoHandler) Lawn(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = v
	}
	data, err := h.svc.Lawn(c.Request.Context(), auth.UserIDFromContext(c), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromLawn(data))
}

// writeError maps service errors to HTTP responses. Ownership failures
// carry the success:false shape the clients key on.
func (h *TodoHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
	case errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrBadDueDate),
		errors.Is(err, service.ErrPastDueDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
