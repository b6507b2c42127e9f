package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// statusFor maps an error type to its HTTP status
func statusFor(errType string) int {
	switch errType {
	case service.ErrTypeNotFound:
		return http.StatusNotFound
	case service.ErrTypeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// APIError is a failed response as seen by Client. It unwraps to the
// matching engine or service sentinel so callers can use errors.Is on
// remote failures.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.Type {
	case service.ErrTypeInvalidBoard:
		return engine.ErrInvalidBoard
	case service.ErrTypeInvalidDirection:
		return engine.ErrInvalidDirection
	case service.ErrTypeInvalidSize:
		return engine.ErrInvalidSize
	case service.ErrTypeInvalidWinTile:
		return engine.ErrInvalidWinTile
	case service.ErrTypeInvalidScore:
		return engine.ErrInvalidScore
	case service.ErrTypeNotFound:
		return service.ErrScoreboardDisabled
	}
	return nil
}

// IsAPIError reports whether err came from a server response.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
