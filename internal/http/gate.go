package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
)

const (
	SessionCookieName = "session_token"
	ctxKeySession     = "session"

	signInPath    = "/sign-in"
	dashboardPath = "/dashboard"
)

// RouteClass tells the gate how to treat a request path.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteBypass
	RouteProtected
	RouteAuthOnly
)

func (rc RouteClass) String() string {
	switch rc {
	case RouteBypass:
		return "bypass"
	case RouteProtected:
		return "protected"
	case RouteAuthOnly:
		return "auth-only"
	default:
		return "public"
	}
}

var (
	bypassPrefixes    = []string{"/api", "/static", "/healthz", "/favicon.ico"}
	protectedPrefixes = []string{"/dashboard", "/tasks"}
	authOnlyPrefixes  = []string{"/sign-in", "/sign-up"}
)

// ClassifyPath maps a request path to its route class. Prefixes match whole
// path segments, so /dashboardx is public.
func ClassifyPath(path string) RouteClass {
	switch {
	case matchesAny(path, bypassPrefixes):
		return RouteBypass
	case matchesAny(path, protectedPrefixes):
		return RouteProtected
	case matchesAny(path, authOnlyPrefixes):
		return RouteAuthOnly
	default:
		return RoutePublic
	}
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// CookieConfig controls the session cookie attributes. Now should match the
// session service clock; it defaults to time.Now.
type CookieConfig struct {
	Secure bool
	Now    func() time.Time
}

func (cfg CookieConfig) now() time.Time {
	if cfg.Now == nil {
		return time.Now()
	}
	return cfg.Now()
}

// Gate redirects page requests based on the caller's session.
type Gate struct {
	sessions service.SessionService
	cookie   CookieConfig
}

func NewGate(sessions service.SessionService, cookie CookieConfig) *Gate {
	return &Gate{sessions: sessions, cookie: cookie}
}

// Middleware returns the gin handler enforcing the gate policy.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch ClassifyPath(c.Request.URL.Path) {
		case RouteProtected:
			session, ok := g.authenticate(c)
			if !ok {
				c.Redirect(http.StatusFound, signInPath)
				c.Abort()
				return
			}
			c.Set(ctxKeySession, session)
		case RouteAuthOnly:
			if _, ok := g.authenticate(c); ok {
				c.Redirect(http.StatusFound, dashboardPath)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// RequireSession guards API routes, answering 401 instead of redirecting.
func (g *Gate) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := g.authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}
		c.Set(ctxKeySession, session)
		c.Next()
	}
}

// authenticate always consults the validator. Store failures are logged and
// treated as unauthenticated.
func (g *Gate) authenticate(c *gin.Context) (*domain.Session, bool) {
	token, _ := c.Cookie(SessionCookieName)
	session, err := g.sessions.Validate(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			loggerFrom(c).WithError(err).Error("session validation failed")
		}
		return nil, false
	}
	if session.Renewed {
		setSessionCookie(c, session, g.cookie)
	}
	return session, true
}

func sessionFrom(c *gin.Context) *domain.Session {
	if v, ok := c.Get(ctxKeySession); ok {
		if session, ok := v.(*domain.Session); ok {
			return session
		}
	}
	return nil
}

func setSessionCookie(c *gin.Context, session *domain.Session, cfg CookieConfig) {
	maxAge := int(session.ExpiresAt.Sub(cfg.now()).Seconds())
	if maxAge <= 0 {
		clearSessionCookie(c, cfg)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, session.Token, maxAge, "/", "", cfg.Secure, true)
}

func clearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", cfg.Secure, true)
}
