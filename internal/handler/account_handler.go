package handler

import (
	"net/http"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/cqrs"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/middleware"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	"github.com/gin-gonic/gin"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	Register(cqrs.RegisterAccountCommand) (*models.AccountView, error)
	Update(cqrs.UpdateAccountCommand) (*models.AccountView, error)
	Delete(cqrs.DeleteAccountCommand) error
	UpdateRoles(cqrs.UpdateRolesCommand) (*models.AccountView, error)
	UpdateStatus(cqrs.UpdateStatusCommand) (*models.AccountView, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	ListAccounts() ([]models.AccountView, error)
	GetAccount(cqrs.GetAccountQuery) (*models.AccountView, error)
}

// AccountHandler routes account lifecycle requests to the command or query
// service as appropriate.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type RegisterRequest struct {
	FullName         string `json:"fullName" validate:"required,max=100"`
	UserName         string `json:"userName" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	MobileNumber     string `json:"mobileNumber" validate:"required"`
	Password         string `json:"password" validate:"required,min=8"`
	ConfirmPassword  string `json:"confirmPassword" validate:"required"`
	Address          string `json:"address" validate:"required"`
	SecurityQuestion string `json:"securityQuestion" validate:"required"`
}

// UpdateAccountRequest mirrors RegisterRequest with an optional password.
// A blank password keeps the stored hash.
type UpdateAccountRequest struct {
	FullName         string `json:"fullName" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	MobileNumber     string `json:"mobileNumber" validate:"required"`
	Password         string `json:"password" validate:"omitempty,min=8"`
	ConfirmPassword  string `json:"confirmPassword"`
	Address          string `json:"address" validate:"required"`
	SecurityQuestion string `json:"securityQuestion" validate:"required"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=USER ADMIN MODERATOR"`
}

type UpdateStatusRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	views, err := h.queries.ListAccounts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetAccount serves a single sanitized view through the Redis-first read
// path, warming the cache on a miss.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	view, err := h.queries.GetAccount(cqrs.GetAccountQuery{UserName: c.Param("username")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.Register(cqrs.RegisterAccountCommand{
		FullName:         req.FullName,
		UserName:         req.UserName,
		Email:            req.Email,
		MobileNumber:     req.MobileNumber,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		Address:          req.Address,
		SecurityQuestion: req.SecurityQuestion,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userName := c.Param("username")
	if !h.canManage(c, userName) {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own account")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.Update(cqrs.UpdateAccountCommand{
		UserName:         userName,
		FullName:         req.FullName,
		Email:            req.Email,
		MobileNumber:     req.MobileNumber,
		Address:          req.Address,
		SecurityQuestion: req.SecurityQuestion,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userName := c.Param("username")
	if !h.canManage(c, userName) {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own account")
		return
	}

	if err := h.commands.Delete(cqrs.DeleteAccountCommand{UserName: userName}); err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, "Account %s deleted successfully", userName)
}

func (h *AccountHandler) UpdateRoles(c *gin.Context) {
	userName := c.Param("username")

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	roles := make([]models.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, models.Role(r))
	}

	view, err := h.commands.UpdateRoles(cqrs.UpdateRolesCommand{
		UserName: userName,
		Roles:    roles,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	userName := c.Param("username")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateStatus(cqrs.UpdateStatusCommand{
		UserName: userName,
		Enabled:  *req.Enabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// canManage allows an account to manage itself and admins to manage anyone.
func (h *AccountHandler) canManage(c *gin.Context, userName string) bool {
	requesting, ok := middleware.GetUsername(c)
	if !ok {
		return false
	}
	if requesting == userName {
		return true
	}
	return middleware.HasAuthority(c, models.RoleAdmin.Authority())
}
