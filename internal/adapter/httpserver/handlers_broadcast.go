package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
	apperrors "github.com/rifkyrahmat2006/scorerelay/internal/platform/errors"
)

type scoreboardRequest struct {
	Scoreboard json.RawMessage `json:"scoreboard"`
	UpdatedAt  string          `json:"updated_at"`
}

type submissionRequest struct {
	Submission json.RawMessage `json:"submission"`
}

type broadcastResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ClientsReached int    `json:"clientsReached"`
}

func (s *Server) registerBroadcastRoutes() {
	g := s.echo.Group("/broadcast",
		newRateLimiter(s.config.BroadcastRateLimit, s.config.BroadcastRateBurst),
		newBearerAuth(s.config.APISecret),
	)
	g.POST("/scoreboard", s.handleBroadcastScoreboard)
	g.POST("/submission", s.handleBroadcastSubmission)
}

func (s *Server) handleBroadcastScoreboard(c echo.Context) error {
	var req scoreboardRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	reached, err := s.relay.BroadcastScoreboard(c.Request().Context(), req.Scoreboard, req.UpdatedAt)
	if errors.Is(err, domain.ErrMissingPayload) {
		return apperrors.ValidationError("Missing scoreboard data")
	}
	if err != nil {
		return apperrors.InternalError("failed to broadcast scoreboard update", err)
	}

	response := broadcastResponse{
		Success:        true,
		Message:        "Scoreboard update broadcasted",
		ClientsReached: reached,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleBroadcastSubmission(c echo.Context) error {
	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	reached, err := s.relay.BroadcastSubmission(c.Request().Context(), req.Submission)
	if errors.Is(err, domain.ErrMissingPayload) {
		return apperrors.ValidationError("Missing submission data")
	}
	if err != nil {
		return apperrors.InternalError("failed to broadcast submission", err)
	}

	response := broadcastResponse{
		Success:        true,
		Message:        "Submission broadcasted",
		ClientsReached: reached,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
