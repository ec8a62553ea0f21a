package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	"github.com/BruksfildServices01/ajo-backend/internal/dto"
	"github.com/BruksfildServices01/ajo-backend/internal/middleware"
	ucUser "github.com/BruksfildServices01/ajo-backend/internal/usecase/user"
)

type AuthHandler struct {
	login  *ucUser.Login
	logout *ucUser.Logout
	get    *ucUser.GetUser
}

func NewAuthHandler(
	login *ucUser.Login,
	logout *ucUser.Logout,
	get *ucUser.GetUser,
) *AuthHandler {
	return &AuthHandler{
		login:  login,
		logout: logout,
		get:    get,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	out, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       dto.User(out.User),
		"token":      out.Token,
		"token_type": "Bearer",
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		respondError(c, access.ErrUnauthenticated)
		return
	}

	if err := h.logout.Execute(c.Request.Context(), actor.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		respondError(c, access.ErrUnauthenticated)
		return
	}

	u, err := h.get.Execute(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.User(u)})
}
