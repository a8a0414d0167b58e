package handler

import (
	"net/http"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/cqrs"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/middleware"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	"github.com/gin-gonic/gin"
)

// AuthQuerier defines the authentication operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (*models.AccountView, string, error)
	GetCurrentUser(userName string) (*models.AccountView, error)
}

// AuthHandler handles login and the current-user endpoint.
type AuthHandler struct {
	queries AuthQuerier
}

type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User    *models.AccountView `json:"user"`
	Token   string              `json:"token"`
	Message string              `json:"message"`
}

func NewAuthHandler(queries AuthQuerier) *AuthHandler {
	return &AuthHandler{queries: queries}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, token, err := h.queries.Login(cqrs.LoginCommand{
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		User:    view,
		Token:   token,
		Message: "Login successful",
	})
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userName, ok := middleware.GetUsername(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	view, err := h.queries.GetCurrentUser(userName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
