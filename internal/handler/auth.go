package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aroy/employee-dashboard/internal/auth"
	"github.com/aroy/employee-dashboard/internal/config"
	"github.com/aroy/employee-dashboard/internal/middleware"
	"github.com/aroy/employee-dashboard/internal/model"
	"github.com/aroy/employee-dashboard/internal/repository"
)

// UserFinder is the slice of the user repository the auth handler needs.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthHandler implements login, logout and the sample protected route.
type AuthHandler struct {
	Cfg   config.AuthConfig
	Users UserFinder
}

func NewAuthHandler(cfg config.AuthConfig, users UserFinder) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Message   string     `json:"message"`
	Token     string     `json:"token"`
	Role      model.Role `json:"role"`
	CSRFToken string     `json:"csrfToken"`
}

// Login verifies credentials and issues the session and anti-forgery
// tokens. Status mapping is part of the public contract: 404 unknown
// email, 401 wrong password, 500 database or hash failure.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
	}

	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error comparing passwords"})
	}

	session, err := auth.NewSessionToken(h.Cfg.JWTSecret, u.Email, u.Role, h.Cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	csrf, err := auth.NewCSRFToken(h.Cfg.CSRFSecret, h.Cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue csrf token failed"})
	}

	if h.Cfg.CookieMode {
		maxAge := int(h.Cfg.TokenTTL / time.Second)
		// Session token stays out of reach of client script; role and
		// CSRF token must be readable so the client can gate navigation
		// and copy the CSRF value into the request header.
		setCookie(c, "token", session.Value, maxAge, true)
		setCookie(c, "role", strconv.Itoa(int(u.Role)), maxAge, false)
		setCookie(c, "csrf_token", csrf.Value, maxAge, false)
	}

	return c.JSON(http.StatusOK, loginResp{
		Message:   "Login successful",
		Token:     session.Value,
		Role:      u.Role,
		CSRFToken: csrf.Value,
	})
}

// Logout clears credential cookies. There is no session store to
// consult, so this always succeeds and is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	if h.Cfg.CookieMode {
		setCookie(c, "token", "", -1, true)
		setCookie(c, "role", "", -1, false)
		setCookie(c, "csrf_token", "", -1, false)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Protected is the sample guarded route. SessionAuth and CSRFGuard run
// before it, so by the time it executes the claims are in the context.
func (h *AuthHandler) Protected(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Protected data",
		"user": echo.Map{
			"email": c.Get(middleware.CtxEmail),
			"role":  c.Get(middleware.CtxRole),
		},
	})
}

func setCookie(c echo.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}
