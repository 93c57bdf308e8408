package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beanbocchi/multipart/internal/model"
	"github.com/beanbocchi/multipart/internal/service"
	"github.com/beanbocchi/multipart/pkg/binder"
	"github.com/beanbocchi/multipart/pkg/response"
	"github.com/beanbocchi/multipart/pkg/validator"
)

type Options struct {
	// AllowedOrigin is the single origin allowed by CORS, "*" when empty
	AllowedOrigin string
	// MetricsPath serves Gatherer when set
	MetricsPath string
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
}

// NewEcho creates a new Echo instance
func NewEcho(svc *service.Service, opts Options) (*echo.Echo, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig(opts.Logger)))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{opts.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	// Custom validator & binder
	customVal, err := validator.New()
	if err != nil {
		return nil, err
	}
	e.Validator = customVal
	e.JSONSerializer = binder.SonicSerializer{}
	e.Binder = binder.NewCustomBinder()

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return response.FromMessage(c.Response(), http.StatusOK, "ok")
	})

	if opts.MetricsPath != "" && opts.Gatherer != nil {
		e.GET(opts.MetricsPath, echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// Setup routes
	SetupRoute(e, svc)

	return e, nil
}

func requestLoggerConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch model.KindOf(err) {
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fromError(c echo.Context, err error) error {
	return response.FromError(c.Response(), statusOf(err), err)
}

// errorHandler renders errors raised by echo itself (unknown route, panics)
// in the common envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
	}
	if status >= http.StatusInternalServerError {
		_ = response.FromError(c.Response(), status, model.ErrInternal)
		return
	}
	_ = response.FromError(c.Response(), status,
		model.NewError(model.KindInvalidInput, "http."+strconv.Itoa(status), http.StatusText(status)))
}
