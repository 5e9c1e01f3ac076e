package ginserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	propertiesapp "stayhub/internal/app/handlers/properties"
	"stayhub/internal/app/queries"
	"stayhub/internal/domain/properties"
)

const maxMediaSizeBytes = 10 * 1024 * 1024

// HostHandler serves the property management endpoints. Ownership is
// checked by the command handlers; a foreign property reads as missing.
type HostHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	ErrorResponder
}

type locationRequest struct {
	Line1   string  `json:"line1"`
	City    string  `json:"city"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type roomRequest struct {
	Name         string `json:"name"`
	MaxOccupancy int    `json:"max_occupancy"`
	Status       string `json:"status"`
}

type roomTypeRequest struct {
	RoomTypeID       string        `json:"room_type_id"`
	Name             string        `json:"name"`
	BasePriceCents   int64         `json:"base_price_cents"`
	Occupancy        int           `json:"occupancy"`
	ExtraBedCapacity int           `json:"extra_bed_capacity"`
	Status           string        `json:"status"`
	Rooms            []roomRequest `json:"rooms"`
}

type propertyRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Location    locationRequest   `json:"location"`
	FeatureIDs  []string          `json:"feature_ids"`
	RoomTypes   []roomTypeRequest `json:"room_types"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type nightStatusRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

func (h HostHandler) List(c *gin.Context) {
	result, err := queries.Ask[propertiesapp.ListHostPropertiesQuery, dto.HostPropertyList](c.Request.Context(), h.Queries, propertiesapp.ListHostPropertiesQuery{})
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) Create(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cmd := propertiesapp.CreatePropertyCommand{
		HostID:  string(p.UserID),
		Payload: req.toPayload(),
		IdemKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	}
	result, err := commands.Dispatch[propertiesapp.CreatePropertyCommand, *dto.PropertyDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.Header("Location", "/api/v1/properties/"+result.ID)
	c.JSON(http.StatusCreated, result)
}

func (h HostHandler) Delete(c *gin.Context) {
	cmd := propertiesapp.DeletePropertyCommand{PropertyID: c.Param("id")}
	result, err := commands.Dispatch[propertiesapp.DeletePropertyCommand, *dto.HostProperty](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) AddRoomType(c *gin.Context) {
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cmd := propertiesapp.AddRoomTypeCommand{PropertyID: c.Param("id"), Payload: req.toPayload()}
	result, err := commands.Dispatch[propertiesapp.AddRoomTypeCommand, *dto.RoomType](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostHandler) AddRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cmd := propertiesapp.AddRoomCommand{RoomTypeID: c.Param("id"), Payload: req.toPayload()}
	result, err := commands.Dispatch[propertiesapp.AddRoomCommand, *dto.Room](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostHandler) SetRoomStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cmd := propertiesapp.SetRoomStatusCommand{RoomID: c.Param("id"), Status: strings.ToLower(strings.TrimSpace(req.Status))}
	result, err := commands.Dispatch[propertiesapp.SetRoomStatusCommand, *dto.Room](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) SetNightStatus(c *gin.Context) {
	var req nightStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	cmd := availabilityapp.SetNightStatusCommand{
		RoomID: c.Param("id"),
		From:   req.From,
		To:     req.To,
		Status: strings.ToLower(strings.TrimSpace(req.Status)),
	}
	result, err := commands.Dispatch[availabilityapp.SetNightStatusCommand, *dto.NightStatusUpdate](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostHandler) AddMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Respond(c, fmt.Errorf("%w: file is required", errBadRequest))
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxMediaSizeBytes {
		h.Respond(c, fmt.Errorf("%w: file must be between 1 byte and %d MB", errBadRequest, maxMediaSizeBytes/1024/1024))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.Respond(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxMediaSizeBytes+1))
	if err != nil {
		h.Respond(c, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) == 0 || len(data) > maxMediaSizeBytes {
		h.Respond(c, fmt.Errorf("%w: file must be between 1 byte and %d MB", errBadRequest, maxMediaSizeBytes/1024/1024))
		return
	}
	contentType := http.DetectContentType(data)
	ext := extensionForContentType(contentType)
	if ext == "" {
		h.Respond(c, fmt.Errorf("%w: unsupported content type %s", errBadRequest, contentType))
		return
	}

	cmd := propertiesapp.AddMediaCommand{
		PropertyID:  c.Param("id"),
		FileName:    "media" + ext,
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
	}
	result, err := commands.Dispatch[propertiesapp.AddMediaCommand, *dto.Media](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func (r propertyRequest) toPayload() propertiesapp.PropertyPayload {
	out := propertiesapp.PropertyPayload{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Location: properties.Location{
			Line1:   r.Location.Line1,
			City:    r.Location.City,
			Region:  r.Location.Region,
			Country: r.Location.Country,
			Lat:     r.Location.Lat,
			Lon:     r.Location.Lon,
		},
		FeatureIDs: r.FeatureIDs,
	}
	for _, t := range r.RoomTypes {
		out.RoomTypes = append(out.RoomTypes, t.toPayload())
	}
	return out
}

func (r roomTypeRequest) toPayload() propertiesapp.RoomTypePayload {
	out := propertiesapp.RoomTypePayload{
		RoomTypeID:       r.RoomTypeID,
		Name:             r.Name,
		BasePriceCents:   r.BasePriceCents,
		Occupancy:        r.Occupancy,
		ExtraBedCapacity: r.ExtraBedCapacity,
		Status:           r.Status,
	}
	for _, room := range r.Rooms {
		out.Rooms = append(out.Rooms, room.toPayload())
	}
	return out
}

func (r roomRequest) toPayload() propertiesapp.RoomPayload {
	return propertiesapp.RoomPayload{Name: r.Name, MaxOccupancy: r.MaxOccupancy, Status: r.Status}
}

var _ HostHTTP = HostHandler{}
