package app

import (
	"fmt"
	"log/slog"

	"github.com/ChristopherBrum/todos-app/internal/config"
	"github.com/ChristopherBrum/todos-app/internal/handlers"
	"github.com/ChristopherBrum/todos-app/internal/session"
	"github.com/ChristopherBrum/todos-app/internal/views"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with every route bound to sessions.
func NewRouter(cfg config.Config, sessions session.Store, log *slog.Logger) (*gin.Engine, error) {
	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.Use(requestID(), requestLogger(log), gin.Recovery())
	if len(cfg.HTTP.AllowOrigins) > 0 {
		r.Use(corsMiddleware(cfg.HTTP.AllowOrigins))
	}
	r.SetHTMLTemplate(tmpl)

	Setup(r, cfg, sessions, log)
	return r, nil
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, sessions session.Store, log *slog.Logger) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))

	mgr := session.NewManager(sessions, session.CookieOptions{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.TTL.Duration(),
		Secure: cfg.Session.Secure,
	}, log)
	h := handlers.NewTodoHandler(log)

	pages := r.Group("", mgr.Middleware(), h.LoadStore())
	registerTodoRoutes(pages, h)
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func registerTodoRoutes(g *gin.RouterGroup, h *handlers.TodoHandler) {
	g.GET("/", h.Root)
	g.GET("/lists", h.Lists)
	g.GET("/lists/new", h.NewList)
	g.POST("/lists", h.CreateList)
	g.GET("/lists/:id", h.ShowList)
	g.GET("/lists/:id/edit", h.EditList)
	g.POST("/lists/:id", h.RenameList)
	g.POST("/lists/:id/destroy", h.DeleteList)
	g.POST("/lists/:id/todos", h.AddTodo)
	g.POST("/lists/:id/todos/:todo_id", h.SetTodoCompleted)
	g.POST("/lists/:id/todos/:todo_id/destroy", h.DeleteTodo)
	g.POST("/lists/:id/complete_all", h.CompleteAll)
}
