package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/open-egypt/pricing-api/internal/service"
)

type SearchHandler struct {
	service *service.SearchService
}

func NewSearchHandler(service *service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /v1/prices. Explicit brand/model/variant filters win
// over the free-text q parameter.
func (h *SearchHandler) Search(c *gin.Context) {
	params := service.SearchParams{
		Q:       c.Query("q"),
		Brand:   c.Query("brand"),
		Model:   c.Query("model"),
		Variant: c.Query("variant"),
		Year:    queryInt(c, "year"),
		Limit:   queryInt(c, "limit"),
		Offset:  queryInt(c, "offset"),
	}

	result, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// queryInt parses an integer query parameter, treating absent or malformed
// values as zero so the service layer applies its defaults.
func queryInt(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
