package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pathnova/sessiongate"
	"github.com/pathnova/sessiongate/metrics/export/prometheus"
	sgmiddleware "github.com/pathnova/sessiongate/middleware"
	"github.com/pathnova/sessiongate/session"
)

type serverOptions struct {
	GuardWait      time.Duration
	MetricsEnabled bool
}

type app struct {
	store  *sessiongate.Store
	logger *slog.Logger
}

func newServer(store *sessiongate.Store, logger *slog.Logger, opts serverOptions) *echo.Echo {
	a := &app{store: store, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				logger.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	guard := sgmiddleware.Guard(store)
	if opts.GuardWait > 0 {
		guard = sgmiddleware.RequireResolved(store, opts.GuardWait)
	}

	e.GET("/", a.home)
	e.GET("/auth", a.authOptions)
	e.GET("/auth/:provider/start", a.providerStart)
	e.GET("/dashboard", a.dashboard, echo.WrapMiddleware(guard))
	e.POST("/logout", a.logout)
	e.GET("/healthz", a.health)
	if opts.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(prometheus.NewPrometheusExporter(store).Handler()))
	}

	return e
}

func (a *app) home(c echo.Context) error {
	return render(c, http.StatusOK, homePage, pageData{
		Title:    "PathNova",
		SignedIn: a.store.Current().Status() == session.StatusPresent,
	})
}

func (a *app) authOptions(c echo.Context) error {
	return render(c, http.StatusOK, authPage, pageData{Title: "Sign in"})
}

// providerStart sends the browser to the identity service, which runs the
// provider consent flow and sets the session cookie.
func (a *app) providerStart(c echo.Context) error {
	target, err := a.store.ProviderStartURL(c.Param("provider"))
	if err != nil {
		a.logger.WarnContext(c.Request().Context(), "provider handoff rejected",
			"provider", c.Param("provider"),
			"error", err)
		return echo.NewHTTPError(http.StatusNotFound, "unknown sign-in provider")
	}
	return c.Redirect(http.StatusFound, target)
}

func (a *app) dashboard(c echo.Context) error {
	id, ok := sessiongate.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "missing identity")
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return render(c, http.StatusOK, dashboardPage, pageData{
		Title: "Dashboard",
		Name:  id.DisplayName(),
	})
}

func (a *app) logout(c echo.Context) error {
	a.store.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, a.store.GuardConfig().PublicEntryPoint)
}

type healthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

func (a *app) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Session: a.store.Current().Status().String(),
	})
}
