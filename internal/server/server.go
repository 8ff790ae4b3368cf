package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docchat/internal/bot"
	"docchat/internal/config"
)

// Server is the HTTP transport adapter. It maps the messaging endpoint onto
// the orchestrator and nothing else; all conversational logic lives behind
// bot.Handler.
type Server struct {
	app  *fiber.App
	port string
	log  *zap.Logger
}

type messageRequest struct {
	UserID     string             `json:"user_id"`
	Text       string             `json:"text"`
	Attachment *attachmentPayload `json:"attachment,omitempty"`
}

type attachmentPayload struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
	URL    string `json:"url"`
}

type messageResponse struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
}

// New builds the fiber app and its routes.
func New(cfg config.ServerConfig, maxBodyBytes int64, handler *bot.Handler, log *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             int(maxBodyBytes),
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)))
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Post("/api/messages", func(c *fiber.Ctx) error {
		var req messageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
		}
		if req.UserID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
		}

		var att *bot.Attachment
		if req.Attachment != nil {
			att = &bot.Attachment{
				Name:   req.Attachment.Name,
				Format: req.Attachment.Format,
				Size:   req.Attachment.Size,
				URL:    req.Attachment.URL,
			}
		}

		reply := handler.Reply(c.UserContext(), req.UserID, req.Text, att)
		return c.JSON(messageResponse{ID: uuid.NewString(), Reply: reply})
	})

	return &Server{app: app, port: cfg.Port, log: log}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run blocks serving HTTP on the configured port.
func (s *Server) Run() error {
	s.log.Info("server listening", zap.String("port", s.port))
	return s.app.Listen(":" + s.port)
}
