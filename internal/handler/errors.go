package handler

import (
	"errors"
	"net/http"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/apperrors"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the HTTP surface. Anything outside
// the known taxonomy becomes a generic 500 that leaks nothing.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, apperrors.ErrAuthentication):
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid username or password")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
