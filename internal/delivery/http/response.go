package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stocksim/internal/domain"
)

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrUnknownSymbol),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientHoldings):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Apology renders the error page with a message and status code. Internal
// errors get a generic message so details never leak to the browser.
func (h *WebHandler) Apology(c echo.Context, err error) error {
	code := statusForError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "something went wrong"
	}
	return h.apology(c, code, message)
}

func (h *WebHandler) apology(c echo.Context, code int, message string) error {
	data := h.pageData(c, "Sorry")
	data["Message"] = message
	data["Code"] = code
	return h.render(c, code, "apology", data)
}

// HTTPErrorHandler renders echo-level errors (unknown routes, panics caught
// by Recover, bad methods) through the same apology page
func (h *WebHandler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "something went wrong"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if renderErr := h.apology(c, code, message); renderErr != nil {
		c.Logger().Error(renderErr)
	}
}

// NoCache forbids response caching, so a back-navigation after logout never
// shows another user's portfolio from cache
func NoCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Response().Header().Set("Pragma", "no-cache")
		c.Response().Header().Set("Expires", "0")
		return next(c)
	}
}
