package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/djungler/filmkatalog/internal/config"
	"github.com/djungler/filmkatalog/internal/repository"
	"github.com/djungler/filmkatalog/internal/utils"
)

// AuthHandler serves POST /api/login. Credentials arrive form-encoded, the
// answer is a bearer token plus its expiry and the user's roles.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserStore
	Log   *zap.SugaredLogger
}

func NewAuthHandler(cfg config.Config, users *repository.UserStore, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Log: log}
}

type loginResp struct {
	Token   string   `json:"token"`
	Expires string   `json:"expires"`
	Roles   []string `json:"roles"`
}

// Login verifies username/password against the user directory and issues an
// access token. Unknown users and wrong passwords are indistinguishable to
// the client: both answer a bare 401.
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	h.Log.Debugw("AuthHandler.Login", "username", username)

	user, ok := h.Users.FindByUsername(username)
	if !ok || !utils.VerifyPassword(user.PasswordHash, password) {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.Username, user.Roles, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Errorw("AuthHandler.Login: issue token failed", "err", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, loginResp{
		Token:   token.Token,
		Expires: token.Exp.Format(time.RFC3339),
		Roles:   user.Roles,
	})
}
