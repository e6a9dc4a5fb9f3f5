package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	logger        *utils.Logger
}

// NewAPIServer creates the fiber app. bodyLimitMB bounds request bodies and
// must leave room for the largest accepted attachment.
func NewAPIServer(listenAddress string, bodyLimitMB int, logger *utils.Logger) *APIServer {
	s := &APIServer{
		listenAddress: listenAddress,
		logger:        logger.With("component", "api"),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "caseload",
		BodyLimit:             (bodyLimitMB + 1) * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          3 * time.Minute,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	return s
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// handleError answers errors that escaped a handler (unknown routes, body
// limits, panics turned into errors) with the standard envelope
func (s *APIServer) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return response.InternalServerError(c, "Internal server error")
	}
	return response.Error(c, code, err.Error(), "REQUEST_ERROR")
}

func (s *APIServer) Run() error {
	s.logger.Info("starting API server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *APIServer) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}
