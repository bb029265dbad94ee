// Package handlers exposes the ledger and its satellites over HTTP. Every
// response is a JSON envelope {"success": bool, "message": string, ...}.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/valeriaulyamaeva/fintrack/internal/ai"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/internal/reports"
)

var (
	errForbidden = errors.New("access to another user's data is not allowed")
	errBadDate   = errors.New("dates must be YYYY-MM-DD or RFC 3339")
)

func ok(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// failErr maps err to a status code. Storage and dependency failures are
// logged and hidden behind a generic message.
func failErr(c *gin.Context, err error) {
	switch {
	case ledger.IsValidation(err), errors.Is(err, errBadDate), errors.Is(err, reports.ErrUnknownFormat):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case ledger.IsNotFound(err), errors.Is(err, database.ErrNoRows):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicate):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ai.ErrNoGraph), errors.Is(err, ai.ErrEmptyResponse):
		fail(c, http.StatusBadGateway, err.Error())
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}

// owner resolves the user a request acts for. An explicit userID has to
// match the authenticated caller.
func owner(c *gin.Context, userID string) (string, error) {
	caller := auth.UserID(c)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = caller
	}
	if userID == "" {
		return "", ledger.ErrMissingID
	}
	if caller != "" && userID != caller {
		return "", errForbidden
	}
	return userID, nil
}

func checkOwner(c *gin.Context, userID string) error {
	if caller := auth.UserID(c); caller != "" && caller != userID {
		return errForbidden
	}
	return nil
}

// idParam reads "id" from the query string, falling back to the path.
func idParam(c *gin.Context) string {
	if id := c.Query("id"); id != "" {
		return id
	}
	return c.Param("id")
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}

// amountText accepts an amount sent either as a JSON string or as a bare
// number, and keeps the digits exactly as sent.
type amountText string

func (a *amountText) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*a = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*a = amountText(str)
	default:
		*a = amountText(s)
	}
	return nil
}

func (a *amountText) ptr() *string {
	if a == nil {
		return nil
	}
	s := string(*a)
	return &s
}
