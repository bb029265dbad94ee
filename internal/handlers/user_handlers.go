package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/ledger"
	"github.com/valeriaulyamaeva/fintrack/models"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// RegisterHandler creates the user with its empty account and logs it in.
func RegisterHandler(svc *ledger.Service, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name, req.Email = strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" || req.Password == "" {
			fail(c, http.StatusBadRequest, "name, email and password are required")
			return
		}
		if err := validateEmail(req.Email); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
		account, err := svc.OpenUser(c.Request.Context(), user)
		if err != nil {
			failErr(c, err)
			return
		}
		token, err := tokens.Issue(user.ID)
		if err != nil {
			failErr(c, err)
			return
		}

		slog.Info("user registered", "user_id", user.ID)
		ok(c, http.StatusCreated, "user registered", gin.H{"user": user, "account": account, "token": token})
	}
}

func LoginHandler(db *database.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		user, err := db.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if errors.Is(err, database.ErrNoRows) {
				err = auth.ErrInvalidCredentials
			}
			failErr(c, err)
			return
		}
		if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
			failErr(c, err)
			return
		}
		token, err := tokens.Issue(user.ID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "logged in", gin.H{"user": user, "token": token})
	}
}

// MeHandler returns the authenticated user.
func MeHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := db.GetUserByID(c.Request.Context(), auth.UserID(c))
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "user found", gin.H{"user": user})
	}
}
