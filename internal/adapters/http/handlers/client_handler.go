package handlers

import (
	"errors"
	"strings"

	"siamvisa-backoffice/internal/core/services"
	"siamvisa-backoffice/internal/pkg/response"
	"siamvisa-backoffice/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService   *services.ClientService
	visaService     *services.VisaService
	propertyService *services.PropertyService
}

// NewClientHandler creates a new client handler
func NewClientHandler(
	clientService *services.ClientService,
	visaService *services.VisaService,
	propertyService *services.PropertyService,
) *ClientHandler {
	return &ClientHandler{
		clientService:   clientService,
		visaService:     visaService,
		propertyService: propertyService,
	}
}

// CreateClientRequest represents client creation request body
type CreateClientRequest struct {
	Name                        string  `json:"name" validate:"required,max=100"`
	FamilyName                  string  `json:"family_name" validate:"required,max=100"`
	Email                       string  `json:"email" validate:"required,email"`
	PassportNumber              *string `json:"passport_number" validate:"omitempty,max=20"`
	Nationality                 string  `json:"nationality" validate:"required,max=60"`
	DateOfBirth                 *string `json:"date_of_birth"`
	PhoneNumber                 string  `json:"phone_number" validate:"required,max=20"`
	CurrentAddress              string  `json:"current_address" validate:"required"`
	AddressInThailand           *string `json:"address_in_thailand"`
	Whatsapp                    *string `json:"whatsapp" validate:"omitempty,max=20"`
	Line                        *string `json:"line" validate:"omitempty,max=50"`
	MaritalStatus               *string `json:"marital_status"`
	FatherName                  *string `json:"father_name" validate:"omitempty,max=100"`
	MotherName                  *string `json:"mother_name" validate:"omitempty,max=100"`
	MarriedToThaiAndRegistered  *bool   `json:"married_to_thai_and_registered"`
	HasYellowOrPinkCard         *bool   `json:"has_yellow_or_pink_card"`
	HasBoughtPropertyInThailand *bool   `json:"has_bought_property_in_thailand"`
}

// Create creates a client
// @Summary Create client
// @Description Create a client owned by the calling user
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateClientRequest true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
	}

	client, err := h.clientService.CreateClient(c.Context(), &services.CreateClientInput{
		Name:                        strings.TrimSpace(req.Name),
		FamilyName:                  strings.TrimSpace(req.FamilyName),
		Email:                       strings.TrimSpace(req.Email),
		PassportNumber:              req.PassportNumber,
		Nationality:                 strings.TrimSpace(req.Nationality),
		DateOfBirth:                 dob,
		PhoneNumber:                 strings.TrimSpace(req.PhoneNumber),
		CurrentAddress:              req.CurrentAddress,
		AddressInThailand:           req.AddressInThailand,
		Whatsapp:                    req.Whatsapp,
		Line:                        req.Line,
		MaritalStatus:               req.MaritalStatus,
		FatherName:                  req.FatherName,
		MotherName:                  req.MotherName,
		MarriedToThaiAndRegistered:  req.MarriedToThaiAndRegistered,
		HasYellowOrPinkCard:         req.HasYellowOrPinkCard,
		HasBoughtPropertyInThailand: req.HasBoughtPropertyInThailand,
	}, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientEmailExists):
			return response.Conflict(c, "Client email already exists")
		case errors.Is(err, services.ErrClientPassportExists):
			return response.Conflict(c, "Passport number already exists")
		case errors.Is(err, services.ErrInvalidMaritalStatus):
			return response.BadRequest(c, "Invalid marital status")
		default:
			return response.InternalServerError(c, "Failed to create client")
		}
	}

	return response.Created(c, "Client created successfully", client)
}

// List returns a paginated client list
// @Summary List clients
// @Description Search, filter and paginate clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page (max 100)"
// @Param search query string false "Free text over name, email, passport, phone"
// @Param sortBy query string false "Sort column"
// @Param sortOrder query string false "ASC or DESC"
// @Param nationality query string false "Filter by nationality"
// @Param is_active query bool false "Filter by status"
// @Param created_by query int false "Filter by owning user"
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	lq := parseListQuery(c)

	result, err := h.clientService.SearchClients(c.Context(), &services.SearchClientsInput{
		Page:        lq.Page,
		Limit:       lq.Limit,
		Search:      lq.Search,
		SortBy:      lq.SortBy,
		SortOrder:   lq.SortOrder,
		Nationality: c.Query("nationality"),
		IsActive:    parseBoolQuery(c, "is_active"),
		CreatedBy:   parseUintQuery(c, "created_by"),
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list clients")
	}

	return response.Success(c, "Clients loaded", result)
}

// Get returns one client
// @Summary Get client
// @Description Get a client by ID
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	client, err := h.clientService.GetClient(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to load client")
	}

	return response.Success(c, "Client loaded", client)
}

// UpdateClientRequest represents client update request body
type UpdateClientRequest struct {
	Name                        *string `json:"name" validate:"omitempty,max=100"`
	FamilyName                  *string `json:"family_name" validate:"omitempty,max=100"`
	Email                       *string `json:"email" validate:"omitempty,email"`
	PassportNumber              *string `json:"passport_number" validate:"omitempty,max=20"`
	Nationality                 *string `json:"nationality" validate:"omitempty,max=60"`
	DateOfBirth                 *string `json:"date_of_birth"`
	PhoneNumber                 *string `json:"phone_number" validate:"omitempty,max=20"`
	CurrentAddress              *string `json:"current_address"`
	AddressInThailand           *string `json:"address_in_thailand"`
	Whatsapp                    *string `json:"whatsapp" validate:"omitempty,max=20"`
	Line                        *string `json:"line" validate:"omitempty,max=50"`
	MaritalStatus               *string `json:"marital_status"`
	FatherName                  *string `json:"father_name" validate:"omitempty,max=100"`
	MotherName                  *string `json:"mother_name" validate:"omitempty,max=100"`
	MarriedToThaiAndRegistered  *bool   `json:"married_to_thai_and_registered"`
	HasYellowOrPinkCard         *bool   `json:"has_yellow_or_pink_card"`
	HasBoughtPropertyInThailand *bool   `json:"has_bought_property_in_thailand"`
}

// Update updates a client
// @Summary Update client
// @Description Partially update a client; omitted fields are untouched
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param body body UpdateClientRequest true "Client fields"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	var req UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
	}

	client, err := h.clientService.UpdateClient(c.Context(), id, &services.UpdateClientInput{
		Name:                        req.Name,
		FamilyName:                  req.FamilyName,
		Email:                       req.Email,
		PassportNumber:              req.PassportNumber,
		Nationality:                 req.Nationality,
		DateOfBirth:                 dob,
		PhoneNumber:                 req.PhoneNumber,
		CurrentAddress:              req.CurrentAddress,
		AddressInThailand:           req.AddressInThailand,
		Whatsapp:                    req.Whatsapp,
		Line:                        req.Line,
		MaritalStatus:               req.MaritalStatus,
		FatherName:                  req.FatherName,
		MotherName:                  req.MotherName,
		MarriedToThaiAndRegistered:  req.MarriedToThaiAndRegistered,
		HasYellowOrPinkCard:         req.HasYellowOrPinkCard,
		HasBoughtPropertyInThailand: req.HasBoughtPropertyInThailand,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, services.ErrClientEmailExists):
			return response.Conflict(c, "Client email already exists")
		case errors.Is(err, services.ErrClientPassportExists):
			return response.Conflict(c, "Passport number already exists")
		case errors.Is(err, services.ErrInvalidMaritalStatus):
			return response.BadRequest(c, "Invalid marital status")
		default:
			return response.InternalServerError(c, "Failed to update client")
		}
	}

	return response.Success(c, "Client updated successfully", client)
}

// ToggleStatus flips a client's active flag
// @Summary Toggle client status
// @Description Activate or deactivate a client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/toggle-status [patch]
func (h *ClientHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	client, err := h.clientService.ToggleClientStatus(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to toggle client status")
	}

	return response.Success(c, "Client status updated", client)
}

// Delete removes a client with its visas and properties
// @Summary Delete client
// @Description Delete a client; visas, properties and their documents go too
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	if err := h.clientService.DeleteClient(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to delete client")
	}

	return response.Success(c, "Client deleted successfully", nil)
}

// Stats returns the client dashboard summary
// @Summary Client statistics
// @Description Totals, recent clients and top nationalities
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /clients/stats [get]
func (h *ClientHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.clientService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load statistics")
	}
	return response.Success(c, "Statistics loaded", stats)
}

// ListVisas returns all visas of a client
// @Summary List client visas
// @Description All visa records of one client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/visas [get]
func (h *ClientHandler) ListVisas(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	visas, err := h.visaService.ListVisasByClient(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrVisaClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to load visas")
	}

	return response.Success(c, "Visas loaded", visas)
}

// ListProperties returns all properties of a client
// @Summary List client properties
// @Description All property records of one client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/properties [get]
func (h *ClientHandler) ListProperties(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	properties, err := h.propertyService.ListPropertiesByClient(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to load properties")
	}

	return response.Success(c, "Properties loaded", properties)
}
