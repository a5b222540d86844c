package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/6Yass9/souli-studio-server/internal/auth"
	"github.com/6Yass9/souli-studio-server/internal/config"
	"github.com/6Yass9/souli-studio-server/internal/model"
	"github.com/6Yass9/souli-studio-server/internal/repository"
)

// AuthHandler serves the login endpoint. Staff and admins log in with an
// email and password; clients with a six-digit access code. Both paths end
// in a signed session token that the rest of the application accepts as a
// bearer credential.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

// loginReq is a tagged union: "type" selects which of the remaining fields
// apply. Unknown tags are rejected as a bad request.
type loginReq struct {
	Type     string `json:"type"` // "staff" | "client"
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// userPart is the identity record returned alongside the token. Credential
// columns are deliberately not included.
type userPart struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

type loginResp struct {
	Token string   `json:"token"`
	User  userPart `json:"user"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Role: u.Role, Status: u.Status, Email: u.Email, Phone: u.Phone}
}

// Login handles POST /api/login for both credential modes. Every lookup or
// verification failure collapses into a generic 401 so a caller cannot
// probe which identities exist.
func (h *AuthHandler) Login(c echo.Context) error {
	// Config is checked before any credential logic; a misconfigured
	// deployment answers 500 without touching the store or revealing which
	// value is missing.
	if err := h.Cfg.AuthReady(); err != nil {
		log.Printf("auth: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch req.Type {
	case "staff":
		return h.loginStaff(c, ctx, req)
	case "client":
		return h.loginClient(c, ctx, req)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
}

func (h *AuthHandler) loginStaff(c echo.Context, ctx context.Context, req loginReq) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing credentials"})
	}

	u, err := h.Users.GetStaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		log.Printf("auth: staff lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	if u.PasswordHash == nil {
		return h.notMigrated(c, u, "Invalid credentials")
	}

	ok, err := auth.VerifySecret(req.Password, *u.PasswordHash)
	if err != nil {
		log.Printf("auth: verify failed for user %s: %v", u.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	email = ""
	if u.Email != nil {
		email = *u.Email
	}
	token, err := auth.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Role, email)
	if err != nil {
		log.Printf("auth: token mint failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: token, User: toUserPart(u)})
}

func (h *AuthHandler) loginClient(c echo.Context, ctx context.Context, req loginReq) error {
	code := strings.TrimSpace(req.Code)
	if !auth.ValidCode(code) {
		// Shape check happens before any store access.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid code format"})
	}

	u, err := h.Users.GetClientByCodeSHA(ctx, auth.FingerprintCode(code, h.Cfg.LoginCodeSalt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid code"})
		}
		log.Printf("auth: client lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	if u.LoginCodeHash == nil {
		return h.notMigrated(c, u, "Invalid code")
	}

	ok, err := auth.VerifySecret(code, *u.LoginCodeHash)
	if err != nil {
		log.Printf("auth: verify failed for user %s: %v", u.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid code"})
	}

	token, err := auth.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Role, "")
	if err != nil {
		log.Printf("auth: token mint failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: token, User: toUserPart(u)})
}

// notMigrated handles the account-found-but-hash-missing case. The
// condition is always logged distinctly; whether the response body reveals
// it is a deployment decision (during a migration window the distinct
// message is an operator aid, afterwards it is an enumeration oracle).
func (h *AuthHandler) notMigrated(c echo.Context, u model.User, generic string) error {
	log.Printf("auth: user %s (%s) not migrated", u.ID, u.Role)
	msg := generic
	if h.Cfg.ExposeMigrationState {
		msg = "Account not migrated"
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

// Me returns the authenticated identity from the session token. Routed
// behind the JWT middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  c.Get("user_id"),
		"app_role": c.Get("app_role"),
		"email":    c.Get("email"),
	})
}
