package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tastematch/backend/internal/domain"
	"github.com/tastematch/backend/internal/infrastructure/logging"
	"github.com/tastematch/backend/internal/usecase"
)

const (
	serviceName    = "tastematch-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	profiles *usecase.ProfileService
	matches  *usecase.MatchService
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(profiles *usecase.ProfileService, matches *usecase.MatchService, logger *zap.Logger) *Handler {
	return &Handler{
		profiles: profiles,
		matches:  matches,
		logger:   logging.OrNop(logger),
	}
}

// SaveProfileRequest is the body of POST /api/v1/profiles
type SaveProfileRequest struct {
	UserID string `json:"user_id"`
	Items  any    `json:"items" binding:"required"`
}

// ScoreRequest is the body of POST /api/v1/match
type ScoreRequest struct {
	ProfileA any `json:"profile_a" binding:"required"`
	ProfileB any `json:"profile_b" binding:"required"`
}

type matchesQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// MatchesResponse lists the best matches for one user
type MatchesResponse struct {
	UserID  string                  `json:"user_id"`
	Count   int                     `json:"count"`
	Matches []domain.CandidateMatch `json:"matches"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// SaveProfile builds a taste profile from listening items and stores it
func (h *Handler) SaveProfile(c *gin.Context) {
	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	stored, err := h.profiles.BuildAndSave(c.Request.Context(), req.UserID, req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

// GetProfile returns a stored taste profile
func (h *Handler) GetProfile(c *gin.Context) {
	stored, err := h.profiles.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stored)
}

// DeleteProfile removes a stored taste profile
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.profiles.Delete(c.Request.Context(), c.Param("userId")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FindMatches returns the best matches for a stored user
func (h *Handler) FindMatches(c *gin.Context) {
	var query matchesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	userID := strings.TrimSpace(c.Param("userId"))
	matches, err := h.matches.FindMatches(c.Request.Context(), userID, query.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MatchesResponse{
		UserID:  userID,
		Count:   len(matches),
		Matches: matches,
	})
}

// CompareUsers scores two stored users against each other
func (h *Handler) CompareUsers(c *gin.Context) {
	result, err := h.matches.Compare(c.Request.Context(), c.Param("userId"), c.Param("otherId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ScoreProfiles scores two profiles supplied in the request body
func (h *Handler) ScoreProfiles(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.matches.ScoreProfiles(req.ProfileA, req.ProfileB)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      "invalid request: " + err.Error(),
		"request_id": requestID(c),
	})
}

// respondError maps service errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrProfileNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		h.logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{
		"error":      message,
		"request_id": requestID(c),
	})
}
