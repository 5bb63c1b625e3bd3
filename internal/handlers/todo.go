package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ChristopherBrum/todos-app/internal/domain"
	"github.com/ChristopherBrum/todos-app/internal/dto"
	"github.com/ChristopherBrum/todos-app/internal/service"
	"github.com/ChristopherBrum/todos-app/internal/session"
	"github.com/ChristopherBrum/todos-app/internal/store"
	"github.com/ChristopherBrum/todos-app/internal/views"

	"github.com/gin-gonic/gin"
)

const contextKeyStore = "store"

const (
	msgListNotFound = "The specified list was not found."
	msgTodoNotFound = "The specified todo was not found."
)

// TodoHandler serves the list and todo pages.
type TodoHandler struct {
	log *slog.Logger
}

func NewTodoHandler(log *slog.Logger) *TodoHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TodoHandler{log: log}
}

// LoadStore builds the request's Store from the session and commits it back
// once the handler is done. It must run after session.Manager.Middleware.
// A failed commit is recorded with c.Error so the session is not saved.
func (h *TodoHandler) LoadStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c)
		if sess == nil {
			h.fail(c, errors.New("no session in context"))
			return
		}
		st, err := store.New(sess)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(contextKeyStore, st)
		c.Next()
		if err := st.Commit(); err != nil {
			_ = c.Error(err)
		}
	}
}

func (h *TodoHandler) Root(c *gin.Context) {
	redirect(c, "/lists")
}

// Lists renders all lists, incomplete first.
func (h *TodoHandler) Lists(c *gin.Context) {
	svc := h.service(c)
	render(c, http.StatusOK, views.Lists, dto.Page{Lists: dto.NewListViews(svc.Lists())})
}

func (h *TodoHandler) NewList(c *gin.Context) {
	render(c, http.StatusOK, views.NewList, dto.Page{})
}

func (h *TodoHandler) CreateList(c *gin.Context) {
	var form dto.ListForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, views.NewList, dto.Page{Error: err.Error()})
		return
	}
	if _, err := h.service(c).CreateList(form.ListName); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			render(c, http.StatusUnprocessableEntity, views.NewList, dto.Page{Error: verr.Msg, ListName: form.ListName})
			return
		}
		h.fail(c, err)
		return
	}
	flash(c, session.FlashSuccess, "The list has been created.")
	redirect(c, "/lists")
}

func (h *TodoHandler) ShowList(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, views.List, listPage(l))
}

func (h *TodoHandler) EditList(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	lv := dto.NewListView(l)
	render(c, http.StatusOK, views.EditList, dto.Page{List: &lv, ListName: l.Name})
}

func (h *TodoHandler) RenameList(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	var form dto.ListForm
	if err := c.ShouldBind(&form); err != nil {
		lv := dto.NewListView(l)
		render(c, http.StatusBadRequest, views.EditList, dto.Page{Error: err.Error(), List: &lv})
		return
	}
	if _, err := h.service(c).RenameList(l.ID, form.ListName); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			lv := dto.NewListView(l)
			render(c, http.StatusUnprocessableEntity, views.EditList, dto.Page{Error: verr.Msg, List: &lv, ListName: form.ListName})
			return
		}
		h.fail(c, err)
		return
	}
	flash(c, session.FlashSuccess, "The name has been updated.")
	redirect(c, listPath(l.ID))
}

// DeleteList answers XHR callers with the path to navigate to instead of a redirect.
func (h *TodoHandler) DeleteList(c *gin.Context) {
	if id, ok := parseID(c, "id"); ok {
		h.service(c).DeleteList(id)
	}
	flash(c, session.FlashSuccess, "The list has been deleted.")
	if isXHR(c) {
		c.String(http.StatusOK, "/lists")
		return
	}
	redirect(c, "/lists")
}

func (h *TodoHandler) AddTodo(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	var form dto.TodoForm
	if err := c.ShouldBind(&form); err != nil {
		page := listPage(l)
		page.Error = err.Error()
		render(c, http.StatusBadRequest, views.List, page)
		return
	}
	if _, err := h.service(c).AddTodo(l.ID, form.Todo); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			page := listPage(l)
			page.Error = verr.Msg
			render(c, http.StatusUnprocessableEntity, views.List, page)
			return
		}
		h.fail(c, err)
		return
	}
	flash(c, session.FlashSuccess, "The todo was added.")
	redirect(c, listPath(l.ID))
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	if todoID, ok := parseID(c, "todo_id"); ok {
		if err := h.service(c).DeleteTodo(l.ID, todoID); err != nil {
			h.fail(c, err)
			return
		}
	}
	if isXHR(c) {
		c.Status(http.StatusNoContent)
		return
	}
	flash(c, session.FlashSuccess, "The todo has been deleted.")
	redirect(c, listPath(l.ID))
}

func (h *TodoHandler) SetTodoCompleted(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	// An absent completed field binds to "" and means not completed.
	var form dto.CompletedForm
	if err := c.ShouldBind(&form); err != nil {
		page := listPage(l)
		page.Error = err.Error()
		render(c, http.StatusBadRequest, views.List, page)
		return
	}

	todoID, ok := parseID(c, "todo_id")
	if !ok {
		flash(c, session.FlashError, msgTodoNotFound)
		redirect(c, listPath(l.ID))
		return
	}
	err := h.service(c).SetTodoCompleted(l.ID, todoID, parseCompleted(form.Completed))
	switch {
	case errors.Is(err, service.ErrNotFound):
		flash(c, session.FlashError, msgTodoNotFound)
	case err != nil:
		h.fail(c, err)
		return
	default:
		flash(c, session.FlashSuccess, "The todo has been updated.")
	}
	redirect(c, listPath(l.ID))
}

func (h *TodoHandler) CompleteAll(c *gin.Context) {
	l, ok := h.loadList(c)
	if !ok {
		return
	}
	if err := h.service(c).CompleteAll(l.ID); err != nil {
		h.fail(c, err)
		return
	}
	flash(c, session.FlashSuccess, "All todos have been completed.")
	redirect(c, listPath(l.ID))
}

func (h *TodoHandler) service(c *gin.Context) *service.TodoService {
	return service.NewTodoService(c.MustGet(contextKeyStore).(*store.Store))
}

// loadList resolves the :id param. On a miss it flashes an error and
// redirects to the overview.
func (h *TodoHandler) loadList(c *gin.Context) (*domain.List, bool) {
	id, ok := parseID(c, "id")
	if ok {
		l, err := h.service(c).GetList(id)
		if err == nil {
			return l, true
		}
	}
	flash(c, session.FlashError, msgListNotFound)
	redirect(c, "/lists")
	return nil, false
}

func (h *TodoHandler) fail(c *gin.Context, err error) {
	h.log.ErrorContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, "Something went wrong.")
	c.Abort()
}

func listPage(l *domain.List) dto.Page {
	lv := dto.NewListView(l)
	return dto.Page{List: &lv, Todos: dto.NewTodoViews(domain.SortedTodos(l.Todos))}
}

// render pops pending flash messages into the page unless the handler set its own error.
func render(c *gin.Context, status int, name string, page dto.Page) {
	if sess := session.FromContext(c); sess != nil {
		if msg := sess.PopFlash(session.FlashError); page.Error == "" {
			page.Error = msg
		}
		page.Success = sess.PopFlash(session.FlashSuccess)
	}
	c.HTML(status, name, page)
}

func flash(c *gin.Context, kind, msg string) {
	if sess := session.FromContext(c); sess != nil {
		sess.AddFlash(kind, msg)
	}
}

func redirect(c *gin.Context, path string) {
	status := http.StatusSeeOther
	if c.Request.Method == http.MethodGet {
		status = http.StatusFound
	}
	c.Redirect(status, path)
}

func listPath(id int) string {
	return "/lists/" + strconv.Itoa(id)
}

func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseCompleted maps the form flag to a bool: only "true" is true.
func parseCompleted(s string) bool {
	return s == "true"
}

func isXHR(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
