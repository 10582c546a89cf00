package handler

import (
	"errors"
	"net/http"
	"time"

	"gameshelf/backend/internal/rental"

	"github.com/gin-gonic/gin"
)

// Error codes used in the error envelope.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "GAME_ALREADY_RENTED"
	CodeInvalidOperation = "INVALID_OPERATION"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorBody is the payload inside the error envelope.
type ErrorBody struct {
	Code        string      `json:"code"`
	Message     string      `json:"message"`
	UserMessage string      `json:"userMessage"`
	Timestamp   string      `json:"timestamp"`
	Details     interface{} `json:"details,omitempty"`
}

// ErrorResponse is the envelope for all error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Meta carries response metadata alongside the data payload.
type Meta struct {
	Timestamp  string          `json:"timestamp"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// DataResponse is the envelope for all success responses.
type DataResponse struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

func respondData(c *gin.Context, status int, data interface{}, pagination *PaginationMeta) {
	c.JSON(status, DataResponse{
		Data: data,
		Meta: Meta{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Pagination: pagination,
		},
	})
}

func respondError(c *gin.Context, status int, code, message, userMessage string, details interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:        code,
			Message:     message,
			UserMessage: userMessage,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Details:     details,
		},
	})
}

// respondGuardError maps lifecycle-guard errors onto the error taxonomy.
func respondGuardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rental.ErrGameNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error(), "Game not found", nil)
	case errors.Is(err, rental.ErrRentalNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error(), "Rental not found", nil)
	case errors.Is(err, rental.ErrGameAlreadyRented):
		respondError(c, http.StatusConflict, CodeConflict, err.Error(), "Game is not available for rent", nil)
	case errors.Is(err, rental.ErrAlreadyReturned):
		respondError(c, http.StatusBadRequest, CodeInvalidOperation, err.Error(), "This rental has already been returned", nil)
	case errors.Is(err, rental.ErrDueDateNotLater):
		respondError(c, http.StatusBadRequest, CodeInvalidOperation, err.Error(), "The new due date must be after the current one", nil)
	case errors.Is(err, rental.ErrGameHasActive):
		respondError(c, http.StatusBadRequest, CodeInvalidOperation, err.Error(), "Cannot delete game with active rentals", nil)
	case errors.Is(err, rental.ErrContactRequired):
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Provide an email address or a phone number", nil)
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Something went wrong", nil)
	}
}
