package server

import (
	"course-checkout/internal/handler"
	appmiddleware "course-checkout/internal/middleware"
	"course-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(checkoutService service.CheckoutService, jwtSecret string, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	s := &Server{
		echo:            e,
		checkoutHandler: checkoutHandler,
	}

	s.setupRoutes(jwtSecret)
	return s
}

func (s *Server) setupRoutes(jwtSecret string) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- checkout --------
	co := api.Group("/checkout")
	co.Use(appmiddleware.AuthMiddleware(jwtSecret))

	co.POST("", s.checkoutHandler.Start)
	co.POST("/resume", s.checkoutHandler.Resume)
	co.GET("/:id", s.checkoutHandler.Get)
	co.POST("/:id/provider", s.checkoutHandler.SelectProvider)
	co.POST("/:id/order", s.checkoutHandler.CreateOrder)
	co.POST("/:id/session", s.checkoutHandler.CreateSession)
	co.POST("/:id/provider-ui", s.checkoutHandler.TriggerProviderUI)
	co.POST("/:id/confirm", s.checkoutHandler.Confirm)
	co.POST("/:id/retry", s.checkoutHandler.Retry)
	co.POST("/:id/cancel", s.checkoutHandler.Cancel)
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Err(v.Error).
				Msg("request")
			return nil
		},
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
