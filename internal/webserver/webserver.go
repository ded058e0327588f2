// Package webserver owns the HTTP surface: the session-gated admin API, the
// public read endpoints, XML feeds and static upload serving. Entity
// semantics live in internal/cms; handlers here and in internal/adminapi
// stay thin.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/craftbond/sitecms/internal/app"
)

type WebServer struct {
	root   *echo.Echo
	appctx app.AppContext
	policy AuthPolicy
	secret string
	admin  *echo.Group
	pub    *echo.Group
	feeds  *feedCache
}

var server *WebServer

// Init builds the echo server, middleware stack and route groups. Admin
// routes registered through ApiGET and friends are gated by session or
// bearer-token auth; the credential policy is injected, never assumed.
func Init(appctx app.AppContext, policy AuthPolicy) *WebServer {
	cfg := appctx.Config()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(zapLogger)

	secret := cfg.Web.Secret
	if secret == "" {
		secret = random.String(32)
		zap.L().Warn("web secret not configured, sessions will not survive restart")
	}
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(secret))))

	// inject the db handle for handlers that query directly
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", appctx.DB())
			return next(c)
		}
	})

	e.Static("/uploads", appctx.Assets().Root())

	s := &WebServer{
		root:   e,
		appctx: appctx,
		policy: policy,
		secret: secret,
		feeds:  newFeedCache(appctx),
	}

	s.admin = e.Group("/api/admin")
	s.admin.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		Skipper:    sessionIsAdmin,
	}))

	s.pub = e.Group("")

	e.POST("/admin/login", s.handleLogin)
	e.GET("/admin/logout", s.handleLogout)

	s.registerPublicRoutes()
	s.registerFeedRoutes()

	server = s
	return s
}

// Listen serves until the context is cancelled, then shuts down gracefully.
func (s *WebServer) Listen(ctx context.Context) error {
	cfg := s.appctx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.root.Start(addr)
	}()
	zap.S().Infof("web server listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.root.Shutdown(shutdownCtx)
	}
}

// Echo exposes the underlying router (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) App() app.AppContext {
	return s.appctx
}

// ApiGET registers an admin-gated route.
func ApiGET(path string, h echo.HandlerFunc) {
	server.admin.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.admin.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.admin.PUT(path, h)
}

func ApiPATCH(path string, h echo.HandlerFunc) {
	server.admin.PATCH(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.admin.DELETE(path, h)
}

func zapLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		status := c.Response().Status
		logf := zap.L().Debug
		if status >= http.StatusInternalServerError {
			logf = zap.L().Error
		}
		logf("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
		return nil
	}
}
