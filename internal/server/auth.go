package server

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const wsTicketTTL = 30 * time.Second

func wsTicketKey(ticket string) string {
	return fmt.Sprintf("ws_ticket:%s", ticket)
}

// setUser stores the authenticated user on the request and its user context.
func setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// currentUserID returns the id set by AuthRequired or OptionalAuth.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}

// authenticate resolves the caller from a single-use websocket ticket, a
// bearer token, or a token query parameter, in that order.
func (s *Server) authenticate(c *fiber.Ctx) (uint, error) {
	if ticket := c.Query("ticket"); ticket != "" {
		if s.redis == nil {
			return 0, models.NewUnauthorizedError("Invalid or expired WebSocket ticket")
		}
		val, err := s.redis.GetDel(c.UserContext(), wsTicketKey(ticket)).Result()
		if err != nil {
			return 0, models.NewUnauthorizedError("Invalid or expired WebSocket ticket")
		}
		userID, err := strconv.ParseUint(val, 10, 32)
		if err != nil || userID == 0 {
			return 0, models.NewUnauthorizedError("Invalid or expired WebSocket ticket")
		}
		return uint(userID), nil
	}

	token := middleware.BearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		return 0, models.NewUnauthorizedError("Authorization required")
	}

	userID, err := middleware.ParseToken(s.config.JWTSecret, token)
	if err != nil {
		return 0, &models.AppError{Code: models.CodeUnauthorized, Message: "Invalid or expired token", Err: err}
	}
	return userID, nil
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := s.authenticate(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		setUser(c, userID)
		return c.Next()
	}
}

// OptionalAuth attaches the caller when valid credentials are present and
// lets the request through anonymously otherwise.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := s.authenticate(c); err == nil {
			setUser(c, userID)
		}
		return c.Next()
	}
}

// IssueWSTicket handles POST /api/ws/ticket. The ticket authenticates one
// websocket upgrade within wsTicketTTL, so the bearer token never travels in
// a URL.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	if s.redis == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error: "WebSocket tickets are unavailable",
		})
	}

	ticket := uuid.NewString()
	if err := s.redis.Set(c.UserContext(), wsTicketKey(ticket), strconv.FormatUint(uint64(userID), 10), wsTicketTTL).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("set").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}
