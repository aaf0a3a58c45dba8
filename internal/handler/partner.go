package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/service"
)

const (
	ActionGetMetadata   = "get_metadata"
	ActionCreateListing = "create_listing"
	ActionUpdatePrice   = "update_price"
)

type PartnerHandler struct {
	service *service.PartnerService
}

func NewPartnerHandler(service *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: service}
}

type partnerRequest struct {
	Action string `json:"action" binding:"required"`

	// get_metadata
	Type     string `json:"type"`
	FilterID string `json:"filter_id"`

	// create_listing / update_price
	VariantID   string  `json:"variant_id"`
	YearModel   int     `json:"year_model"`
	PriceAmount float64 `json:"price_amount"`
	Currency    string  `json:"currency"`
	EntryID     string  `json:"entry_id"`
}

// Action handles POST /v1/partner, dispatching on the action field.
func (h *PartnerHandler) Action(c *gin.Context) {
	partner, ok := h.authenticate(c)
	if !ok {
		return
	}

	var req partnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation(err.Error()))
		return
	}

	switch req.Action {
	case ActionGetMetadata:
		h.getMetadata(c, req)
	case ActionCreateListing:
		h.createListing(c, partner, req)
	case ActionUpdatePrice:
		h.updatePrice(c, partner, req)
	default:
		respondError(c, apperrors.Validation("unknown action: "+req.Action))
	}
}

// Listings handles GET /v1/partner.
func (h *PartnerHandler) Listings(c *gin.Context) {
	partner, ok := h.authenticate(c)
	if !ok {
		return
	}

	entries, err := h.service.Listings(c.Request.Context(), partner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *PartnerHandler) authenticate(c *gin.Context) (*models.Partner, bool) {
	credential := c.GetHeader("X-Partner-Key")
	partner, err := h.service.Authenticate(c.Request.Context(), credential)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return partner, true
}

func (h *PartnerHandler) getMetadata(c *gin.Context, req partnerRequest) {
	var filterID uuid.UUID
	if req.FilterID != "" {
		id, err := uuid.Parse(req.FilterID)
		if err != nil {
			respondError(c, apperrors.Validation("invalid filter_id"))
			return
		}
		filterID = id
	}

	items, err := h.service.GetMetadata(c.Request.Context(), req.Type, filterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *PartnerHandler) createListing(c *gin.Context, partner *models.Partner, req partnerRequest) {
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		respondError(c, apperrors.Validation("invalid variant_id"))
		return
	}

	entry, err := h.service.CreateListing(c.Request.Context(), partner, service.CreateListingInput{
		VariantID:   variantID,
		YearModel:   req.YearModel,
		PriceAmount: req.PriceAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (h *PartnerHandler) updatePrice(c *gin.Context, partner *models.Partner, req partnerRequest) {
	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		respondError(c, apperrors.Validation("invalid entry_id"))
		return
	}

	if err := h.service.UpdatePrice(c.Request.Context(), partner, entryID, req.PriceAmount); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "price updated"})
}
