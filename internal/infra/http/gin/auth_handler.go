package ginserver

import (
	"fmt"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	authsvc "stayhub/internal/app/services/auth"
)

type AuthHandler struct {
	Service *authsvc.Service
	ErrorResponder
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Login(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResult{Token: result.Token, User: dto.MapUser(result.User)})
}

func (h AuthHandler) Logout(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		h.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	token := c.GetString(tokenContextKey)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	resolved, err := h.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUser(resolved.User))
}

var _ AuthHTTP = AuthHandler{}
