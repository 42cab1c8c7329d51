package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel comparisons for repository errors
	"net/http" // HTTP status codes and primitives
	"net/mail" // RFC 5322 address validation for signup emails
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/codeshare/internal/config"     // app configuration
	"github.com/iliyamo/codeshare/internal/repository" // DB repositories
	"github.com/iliyamo/codeshare/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for signup and login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// validateSignup checks field constraints and returns a map of
// field name to problem description; an empty map means valid.
// The limits match what the frontend enforces: names 3–20 characters,
// passwords 5–32.
func validateSignup(req signupReq) map[string]string {
	details := map[string]string{}
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 {
		details["name"] = "name must have at least 3 characters"
	} else if len(name) > 20 {
		details["name"] = "name must not exceed 20 characters"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		details["email"] = "invalid email address"
	}
	if len(req.Password) < 5 {
		details["password"] = "password must be at least 5 characters"
	} else if len(req.Password) > 32 {
		details["password"] = "password must not exceed 32 characters"
	}
	return details
}

// Signup creates a user and returns an access token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if details := validateSignup(req); len(details) > 0 {
		return failWithDetails(c, http.StatusBadRequest, "validation failed", details)
	}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, name, email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already exists")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, "", h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue access failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"error":   false,
		"message": "signup successful",
		"user":    userPart{ID: uid, Name: name, Email: email},
		"access":  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Login verifies credentials and returns a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, "", h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue access failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": "login successful",
		"user":    userPart{ID: u.ID, Name: u.Name, Email: u.Email},
		"access":  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me is a simple protected endpoint returning the caller's identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
