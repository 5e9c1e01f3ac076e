package ginserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	searchapp "stayhub/internal/app/handlers/search"
	"stayhub/internal/app/queries"
)

// SearchHandler serves the public stay search. Responses use the
// {success, params, data, message} envelope on success and failure alike.
type SearchHandler struct {
	Queries queries.Bus
	ErrorResponder
}

func (h SearchHandler) Search(c *gin.Context) {
	query, err := parseSearchQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	result, err := queries.Ask[searchapp.SearchStaysQuery, dto.StaySearch](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.fail(c, err)
		return
	}
	body := gin.H{
		"success": true,
		"params":  result.Params,
		"data":    result.Results,
	}
	if result.Message != "" {
		body["message"] = result.Message
	}
	c.JSON(http.StatusOK, body)
}

func (h SearchHandler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	c.JSON(status, gin.H{"success": false, "message": h.message(c, status, err)})
}

func parseSearchQuery(c *gin.Context) (searchapp.SearchStaysQuery, error) {
	q := searchapp.SearchStaysQuery{
		CheckIn:  strings.TrimSpace(c.Query("checkIn")),
		CheckOut: strings.TrimSpace(c.Query("checkOut")),
	}
	var err error
	if q.Adults, err = intParam(c, "adults"); err != nil {
		return q, err
	}
	if q.Children, err = intParam(c, "children"); err != nil {
		return q, err
	}
	if q.Infants, err = intParam(c, "infants"); err != nil {
		return q, err
	}
	if q.Rooms, err = intParam(c, "rooms"); err != nil {
		return q, err
	}
	if raw := strings.TrimSpace(c.Query("infantsUseBed")); raw != "" {
		q.InfantsUseBed, err = strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("%w: infantsUseBed must be true or false", errBadRequest)
		}
	}
	return q, nil
}

// intParam reads an optional integer query parameter; absent means zero.
func intParam(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

var _ SearchHTTP = SearchHandler{}
