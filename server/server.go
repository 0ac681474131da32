package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	checkout "github.com/Jaysins/ohship-tenant-sub001"
	"github.com/Jaysins/ohship-tenant-sub001/config"
	"github.com/Jaysins/ohship-tenant-sub001/handlers"
)

const sweepInterval = time.Minute

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ohship_http_requests_total",
		Help: "Browser requests served, by route and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ohship_http_request_duration_seconds",
		Help:    "Latency of browser requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

type Server struct {
	echo     *echo.Echo
	Checkout handlers.CheckoutHandler
	Lookup   handlers.LookupHandler

	engine      checkout.Checkout
	address     string
	cookieName  string
	idleTimeout time.Duration
	logger      *zap.Logger
}

func NewServer(
	appConfig *config.Config,
	engine checkout.Checkout,
	Checkout handlers.CheckoutHandler,
	Lookup handlers.LookupHandler,
	logger *zap.Logger,
) *Server {
	s := &Server{
		echo:        echo.New(),
		Checkout:    Checkout,
		Lookup:      Lookup,
		engine:      engine,
		address:     appConfig.Server.Address,
		cookieName:  appConfig.Session.CookieName,
		idleTimeout: appConfig.Session.IdleTimeout,
		logger:      logger,
	}
	s.echo.HideBanner = true
	s.registerMiddlewares()
	s.registerRoutes()
	return s
}

// Address is the configured listen address.
func (s *Server) Address() string {
	if s.address == "" {
		return config.ServerStartPort
	}
	return s.address
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on address until the server is shut down.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Run serves on address, evicts idle wizards in the background and shuts
// down gracefully on SIGINT or SIGTERM.
func (s *Server) Run(address string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := s.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	go s.sweep(ctx)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) sweep(ctx context.Context) {
	if s.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.engine.Sweep(s.idleTimeout); n > 0 {
				s.logger.Info("evicted idle checkout sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.observe)
}

// observe records request metrics and logs failures by route template.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		status := c.Response().Status
		httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())

		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
		}
		return nil
	}
}

func (s *Server) registerRoutes() {

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	quote := s.echo.Group("/quote", handlers.SessionMiddleware(s.cookieName))
	quote.POST("", s.Checkout.SubmitRoute)
	quote.GET("/select", s.Checkout.GetQuotes)
	quote.POST("/select", s.Checkout.SelectQuote)
	quote.GET("/details", s.Checkout.GetDetails)
	quote.PATCH("/details", s.Checkout.UpdateDraft)
	quote.POST("/details/address", s.Checkout.UseSavedAddress)
	quote.POST("/review", s.Checkout.RefreshQuotes)
	quote.POST("/review/select", s.Checkout.ChangeQuote)
	quote.POST("/shipment", s.Checkout.SubmitShipment)
	quote.GET("/payment/:id", s.Checkout.GetPayment)
	quote.POST("/payment/:id", s.Checkout.Pay)
	quote.GET("/payment/:id/bank-transfer", s.Checkout.GetBankTransfer)
	quote.POST("/payment/:id/back", s.Checkout.BackToDetails)
	quote.GET("/success", s.Checkout.Complete)
	quote.POST("/restart", s.Checkout.Restart)

	s.echo.GET("/locations/countries", s.Lookup.Countries)
	s.echo.GET("/locations/states", s.Lookup.States)
	s.echo.GET("/locations/cities", s.Lookup.Cities)
	s.echo.GET("/shipments/:code/track", s.Lookup.Track)
}
