package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/internal/domain/entity"
	"github.com/studyforest/study-forest-api/internal/interface/middleware"
	"github.com/studyforest/study-forest-api/pkg/helpers"
	"github.com/studyforest/study-forest-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type userResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{UserID: u.ID, Email: u.Email, Nickname: u.Nickname, CreatedAt: u.CreatedAt}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "registered")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, toUserResponse(sess.User), "logged in")
}

// Logout clears the cookie; it succeeds even without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "current user")
}
