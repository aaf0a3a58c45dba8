package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/open-egypt/pricing-api/internal/service"
)

type AutocompleteHandler struct {
	service *service.AutocompleteService
}

func NewAutocompleteHandler(service *service.AutocompleteService) *AutocompleteHandler {
	return &AutocompleteHandler{service: service}
}

// Suggest handles GET /v1/autocomplete.
func (h *AutocompleteHandler) Suggest(c *gin.Context) {
	suggestions, err := h.service.Suggest(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
