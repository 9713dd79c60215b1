package handlers

import (
	"errors"

	"siamvisa-backoffice/internal/core/services"
	"siamvisa-backoffice/internal/pkg/response"
	"siamvisa-backoffice/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// VisaHandler handles visa endpoints
type VisaHandler struct {
	visaService *services.VisaService
}

// NewVisaHandler creates a new visa handler
func NewVisaHandler(visaService *services.VisaService) *VisaHandler {
	return &VisaHandler{visaService: visaService}
}

// CreateVisaRequest represents visa creation request body
type CreateVisaRequest struct {
	ClientID              uint    `json:"client_id" validate:"required"`
	ExistingVisa          *string `json:"existing_visa"`
	WishedVisa            string  `json:"wished_visa" validate:"required"`
	LatestEntryDate       *string `json:"latest_entry_date"`
	ExistingVisaExpiry    *string `json:"existing_visa_expiry"`
	IntendedDepartureDate *string `json:"intended_departure_date"`
}

// Create creates a visa record
// @Summary Create visa
// @Description Create a visa application for an existing client
// @Tags Visas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateVisaRequest true "Visa data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /visas [post]
func (h *VisaHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateVisaRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	entry, err := parseDate(req.LatestEntryDate)
	if err != nil {
		return response.BadRequest(c, "latest_entry_date must be YYYY-MM-DD")
	}
	expiry, err := parseDate(req.ExistingVisaExpiry)
	if err != nil {
		return response.BadRequest(c, "existing_visa_expiry must be YYYY-MM-DD")
	}
	departure, err := parseDate(req.IntendedDepartureDate)
	if err != nil {
		return response.BadRequest(c, "intended_departure_date must be YYYY-MM-DD")
	}

	visa, err := h.visaService.CreateVisa(c.Context(), &services.CreateVisaInput{
		ClientID:              req.ClientID,
		ExistingVisa:          req.ExistingVisa,
		WishedVisa:            req.WishedVisa,
		LatestEntryDate:       entry,
		ExistingVisaExpiry:    expiry,
		IntendedDepartureDate: departure,
	}, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisaClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, services.ErrInvalidVisaType):
			return response.BadRequest(c, "Invalid visa type")
		default:
			return response.InternalServerError(c, "Failed to create visa")
		}
	}

	return response.Created(c, "Visa created successfully", visa)
}

// List returns a paginated visa list
// @Summary List visas
// @Description Search, filter and paginate visa applications
// @Tags Visas
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page (max 100)"
// @Param search query string false "Free text matched against the visa vocabularies"
// @Param sortBy query string false "Sort column"
// @Param sortOrder query string false "ASC or DESC"
// @Param client_id query int false "Filter by client"
// @Param existing_visa query string false "Filter by existing visa"
// @Param wished_visa query string false "Filter by wished visa"
// @Param is_active query bool false "Filter by status"
// @Param created_by query int false "Filter by owning user"
// @Success 200 {object} response.Response
// @Router /visas [get]
func (h *VisaHandler) List(c *fiber.Ctx) error {
	lq := parseListQuery(c)

	result, err := h.visaService.SearchVisas(c.Context(), &services.SearchVisasInput{
		Page:         lq.Page,
		Limit:        lq.Limit,
		Search:       lq.Search,
		SortBy:       lq.SortBy,
		SortOrder:    lq.SortOrder,
		ClientID:     parseUintQuery(c, "client_id"),
		ExistingVisa: c.Query("existing_visa"),
		WishedVisa:   c.Query("wished_visa"),
		IsActive:     parseBoolQuery(c, "is_active"),
		CreatedBy:    parseUintQuery(c, "created_by"),
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list visas")
	}

	return response.Success(c, "Visas loaded", result)
}

// Stats returns the visa dashboard summary
// @Summary Visa statistics
// @Description Totals, type breakdowns, recent records and upcoming expiries
// @Tags Visas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /visas/stats [get]
func (h *VisaHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.visaService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load statistics")
	}
	return response.Success(c, "Statistics loaded", stats)
}

// Get returns one visa
// @Summary Get visa
// @Description Get a visa by ID
// @Tags Visas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visa ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /visas/{id} [get]
func (h *VisaHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid visa ID")
	}

	visa, err := h.visaService.GetVisa(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrVisaNotFound) {
			return response.NotFound(c, "Visa not found")
		}
		return response.InternalServerError(c, "Failed to load visa")
	}

	return response.Success(c, "Visa loaded", visa)
}

// UpdateVisaRequest represents visa update request body
type UpdateVisaRequest struct {
	ExistingVisa          *string `json:"existing_visa"`
	WishedVisa            *string `json:"wished_visa"`
	LatestEntryDate       *string `json:"latest_entry_date"`
	ExistingVisaExpiry    *string `json:"existing_visa_expiry"`
	IntendedDepartureDate *string `json:"intended_departure_date"`
}

// Update updates a visa
// @Summary Update visa
// @Description Partially update a visa; omitted fields are untouched
// @Tags Visas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visa ID"
// @Param body body UpdateVisaRequest true "Visa fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /visas/{id} [put]
func (h *VisaHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid visa ID")
	}

	var req UpdateVisaRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := parseDate(req.LatestEntryDate)
	if err != nil {
		return response.BadRequest(c, "latest_entry_date must be YYYY-MM-DD")
	}
	expiry, err := parseDate(req.ExistingVisaExpiry)
	if err != nil {
		return response.BadRequest(c, "existing_visa_expiry must be YYYY-MM-DD")
	}
	departure, err := parseDate(req.IntendedDepartureDate)
	if err != nil {
		return response.BadRequest(c, "intended_departure_date must be YYYY-MM-DD")
	}

	visa, err := h.visaService.UpdateVisa(c.Context(), id, &services.UpdateVisaInput{
		ExistingVisa:          req.ExistingVisa,
		WishedVisa:            req.WishedVisa,
		LatestEntryDate:       entry,
		ExistingVisaExpiry:    expiry,
		IntendedDepartureDate: departure,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisaNotFound):
			return response.NotFound(c, "Visa not found")
		case errors.Is(err, services.ErrInvalidVisaType):
			return response.BadRequest(c, "Invalid visa type")
		default:
			return response.InternalServerError(c, "Failed to update visa")
		}
	}

	return response.Success(c, "Visa updated successfully", visa)
}

// ToggleStatus flips a visa's active flag
// @Summary Toggle visa status
// @Description Activate or deactivate a visa
// @Tags Visas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visa ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /visas/{id}/toggle-status [patch]
func (h *VisaHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid visa ID")
	}

	visa, err := h.visaService.ToggleVisaStatus(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrVisaNotFound) {
			return response.NotFound(c, "Visa not found")
		}
		return response.InternalServerError(c, "Failed to toggle visa status")
	}

	return response.Success(c, "Visa status updated", visa)
}

// Delete removes a visa
// @Summary Delete visa
// @Description Delete a visa record
// @Tags Visas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Visa ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /visas/{id} [delete]
func (h *VisaHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid visa ID")
	}

	if err := h.visaService.DeleteVisa(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrVisaNotFound) {
			return response.NotFound(c, "Visa not found")
		}
		return response.InternalServerError(c, "Failed to delete visa")
	}

	return response.Success(c, "Visa deleted successfully", nil)
}
