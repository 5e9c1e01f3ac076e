package ginserver

import (
	"fmt"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	vocabularyapp "stayhub/internal/app/handlers/vocabulary"
	authsvc "stayhub/internal/app/services/auth"
)

type AdminHandler struct {
	Commands commands.Bus
	Auth     *authsvc.Service
	ErrorResponder
}

type vocabularyRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type hostRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type seedRequest struct {
	Days int    `json:"days"`
	From string `json:"from"`
}

func (h AdminHandler) CreateVocabulary(c *gin.Context) {
	var req vocabularyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cmd := vocabularyapp.CreateEntryCommand{Kind: req.Kind, Name: req.Name, Icon: req.Icon}
	result, err := commands.Dispatch[vocabularyapp.CreateEntryCommand, *dto.VocabularyEntry](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) CreateHost(c *gin.Context) {
	if h.Auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req hostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	u, err := h.Auth.CreateHost(c.Request.Context(), authsvc.CreateUserParams{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapUser(u))
}

// SeedRoom extends a room's availability horizon. The body is optional.
func (h AdminHandler) SeedRoom(c *gin.Context) {
	req, err := bindSeedRequest(c)
	if err != nil {
		h.Respond(c, err)
		return
	}
	cmd := availabilityapp.ReseedRoomCommand{RoomID: c.Param("id"), Days: req.Days, From: req.From}
	result, err := commands.Dispatch[availabilityapp.ReseedRoomCommand, *dto.SeedReport](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) SeedRoomType(c *gin.Context) {
	req, err := bindSeedRequest(c)
	if err != nil {
		h.Respond(c, err)
		return
	}
	cmd := availabilityapp.ReseedRoomTypeCommand{RoomTypeID: c.Param("id"), Days: req.Days, From: req.From}
	result, err := commands.Dispatch[availabilityapp.ReseedRoomTypeCommand, *dto.SeedReport](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func bindSeedRequest(c *gin.Context) (seedRequest, error) {
	var req seedRequest
	if c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return req, nil
}

var _ AdminHTTP = AdminHandler{}
