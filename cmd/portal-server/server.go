package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/doctorsportal/portal/internal/config"
	"github.com/doctorsportal/portal/internal/domain/appointment"
	"github.com/doctorsportal/portal/internal/domain/booking"
	"github.com/doctorsportal/portal/internal/domain/directory"
	"github.com/doctorsportal/portal/internal/domain/payment"
	"github.com/doctorsportal/portal/internal/platform/auth"
	"github.com/doctorsportal/portal/internal/platform/db"
	"github.com/doctorsportal/portal/internal/platform/httperr"
	"github.com/doctorsportal/portal/internal/platform/middleware"
	"github.com/doctorsportal/portal/internal/platform/telemetry"
	"github.com/doctorsportal/portal/internal/platform/websocket"
)

const livenessText = "Doctor Portal Server is Running"

// newServer builds the echo instance with every route mounted.
func newServer(cfg *config.Config, logger zerolog.Logger, st *stores, provider payment.Provider,
	metrics *telemetry.Metrics, hub *websocket.Hub) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httperr.Handler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders(!cfg.IsDev()))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	// Auth
	secret := []byte(cfg.AccessTokenSecret)
	token := auth.TokenMiddleware(secret)
	policy := auth.DenyPolicy(cfg.AdminDenyPolicy)
	adminRead := auth.RequireAdmin(st.users, policy)
	promoteGate := auth.RequireAdmin(st.users, auth.DenyForbidden)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, livenessText)
	})
	e.GET("/health/store", db.HealthHandler(st.pinger))
	e.GET("/metrics", metrics.Handler())

	// Domains
	apptSvc := appointment.NewService(st.options, st.booked)
	appointment.NewHandler(apptSvc).RegisterRoutes(e)

	bookingSvc := booking.NewService(st.bookings, hub, metrics, logger)
	booking.NewHandler(bookingSvc).RegisterRoutes(e, token, auth.RequireAdminWith(st.users, policy, booking.EmptyPage))

	paymentSvc := payment.NewService(provider, cfg.PaymentCurrency, st.payments, st.bookings, hub, metrics, logger)
	payment.NewHandler(paymentSvc).RegisterRoutes(e, token, adminRead)

	issuer := auth.NewIssuer(secret, cfg.TokenTTL)
	dirSvc := directory.NewService(st.users, st.doctors, issuer, logger)
	directory.NewHandler(dirSvc).RegisterRoutes(e, token, adminRead, promoteGate)

	// Booking events
	websocket.NewHandler(hub, cfg.CORSOrigins).RegisterRoutes(e)

	return e
}

// newLogger writes JSON, or console output in development.
func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: logOutput, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return zerolog.New(logOutput).With().Timestamp().Logger()
}
