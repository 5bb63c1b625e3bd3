package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const contextKeySession = "session"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Manager binds sessions to requests.
type Manager struct {
	store  Store
	locker *Locker
	cookie CookieOptions
	log    *slog.Logger
}

// NewManager returns a Manager. A nil logger falls back to slog.Default().
func NewManager(store Store, cookie CookieOptions, log *slog.Logger) *Manager {
	if cookie.Name == "" {
		cookie.Name = "session_id"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, locker: NewLocker(), cookie: cookie, log: log}
}

// FromContext returns the session set by Middleware, or nil.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

// Middleware loads the session named by the cookie, or starts a new one,
// holds the per-session lock for the rest of the chain and saves afterwards.
// Responses are held back until the save succeeds; a failed save or an error
// recorded with c.Error turns the response into a 500.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *Session
		if id, err := c.Cookie(m.cookie.Name); err == nil && id != "" {
			unlock := m.locker.Lock(id)
			defer unlock()
			sess, err = m.store.Load(ctx, id)
			if err != nil && !errors.Is(err, ErrNotFound) {
				m.log.ErrorContext(ctx, "load session", "error", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		if sess == nil {
			id, err := NewID()
			if err != nil {
				m.log.ErrorContext(ctx, "new session id", "error", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			unlock := m.locker.Lock(id)
			defer unlock()
			sess = New(id)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(m.cookie.Name, sess.ID, int(m.cookie.MaxAge/time.Second), "/", "", m.cookie.Secure, true)
		c.Set(contextKeySession, sess)

		bw := newBufferedWriter(c.Writer)
		c.Writer = bw
		c.Next()
		c.Writer = bw.ResponseWriter

		// An error recorded on the context means the session values are
		// incomplete, so nothing is saved.
		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		} else {
			err = m.store.Save(ctx, sess)
		}
		if err != nil {
			m.log.ErrorContext(ctx, "save session", "session", sess.ID, "error", err)
			bw.fail()
			return
		}
		bw.flush()
	}
}
