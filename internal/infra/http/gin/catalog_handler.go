package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	propertiesapp "stayhub/internal/app/handlers/properties"
	vocabularyapp "stayhub/internal/app/handlers/vocabulary"
	"stayhub/internal/app/queries"
)

// CatalogHandler serves the anonymous read endpoints.
type CatalogHandler struct {
	Queries queries.Bus
	ErrorResponder
}

func (h CatalogHandler) Property(c *gin.Context) {
	query := propertiesapp.GetPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[propertiesapp.GetPropertyQuery, dto.PropertyDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CatalogHandler) Vocabulary(c *gin.Context) {
	query := vocabularyapp.ListEntriesQuery{Kind: c.Param("kind")}
	result, err := queries.Ask[vocabularyapp.ListEntriesQuery, []dto.VocabularyEntry](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

func (h CatalogHandler) RoomCalendar(c *gin.Context) {
	query := availabilityapp.RoomCalendarQuery{
		RoomID: c.Param("id"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	result, err := queries.Ask[availabilityapp.RoomCalendarQuery, dto.RoomCalendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CatalogHTTP = CatalogHandler{}
