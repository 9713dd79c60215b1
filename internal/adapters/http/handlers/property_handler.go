package handlers

import (
	"errors"

	"siamvisa-backoffice/internal/core/services"
	"siamvisa-backoffice/internal/pkg/response"
	"siamvisa-backoffice/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	propertyService *services.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// PropertyRequest represents property create/update request body. Amounts
// accept JSON numbers or strings; dates are YYYY-MM-DD.
type PropertyRequest struct {
	ClientID                    uint             `json:"client_id"`
	PropertyName                *string          `json:"property_name" validate:"omitempty,max=100"`
	AgentName                   *string          `json:"agent_name" validate:"omitempty,max=100"`
	BrokerCompany               *string          `json:"broker_company" validate:"omitempty,max=100"`
	TransactionType             *string          `json:"transaction_type"`
	PropertyType                *string          `json:"property_type"`
	ReservationDate             *string          `json:"reservation_date"`
	IntendedClosingDate         *string          `json:"intended_closing_date"`
	IntendedClosingDateSpecific *string          `json:"intended_closing_date_specific"`
	HandoverDate                *string          `json:"handover_date"`
	SellingPrice                *decimal.Decimal `json:"selling_price"`
	Deposit                     *decimal.Decimal `json:"deposit"`
	IntermediaryPayment         *decimal.Decimal `json:"intermediary_payment"`
	ClosingPayment              *decimal.Decimal `json:"closing_payment"`
	AcceptableMethodOfPayment   *string          `json:"acceptable_method_of_payment"`
	PlaceOfPayment              *string          `json:"place_of_payment"`
	PropertyCondition           *string          `json:"property_condition"`
	HouseWarranty               *string          `json:"house_warranty" validate:"omitempty,oneof=yes no"`
	WarrantyCondition           *string          `json:"warranty_condition"`
	WarrantyTerm                *string          `json:"warranty_term" validate:"omitempty,max=100"`
	FurnitureIncluded           *string          `json:"furniture_included"`
	TransferFee                 *string          `json:"transfer_fee"`
	WithholdingTax              *string          `json:"withholding_tax"`
	BusinessTax                 *string          `json:"business_tax"`
	LeaseRegistrationFee        *string          `json:"lease_registration_fee"`
	MortgageFee                 *string          `json:"mortgage_fee"`
	UsufructRegistrationFee     *string          `json:"usufruct_registration_fee"`
	ServitudeRegistrationFee    *string          `json:"servitude_registration_fee"`
	DeclaredLandOfficePrice     *string          `json:"declared_land_office_price"`
	LandTitle                   *string          `json:"land_title"`
	HouseTitle                  *string          `json:"house_title"`
	RepairDetails               *string          `json:"repair_details"`
}

func (req *PropertyRequest) toInput() (*services.PropertyInput, error) {
	reservation, err := parseDate(req.ReservationDate)
	if err != nil {
		return nil, errors.New("reservation_date must be YYYY-MM-DD")
	}
	closingSpecific, err := parseDate(req.IntendedClosingDateSpecific)
	if err != nil {
		return nil, errors.New("intended_closing_date_specific must be YYYY-MM-DD")
	}

	return &services.PropertyInput{
		PropertyName:                req.PropertyName,
		AgentName:                   req.AgentName,
		BrokerCompany:               req.BrokerCompany,
		TransactionType:             req.TransactionType,
		PropertyType:                req.PropertyType,
		ReservationDate:             reservation,
		IntendedClosingDate:         req.IntendedClosingDate,
		IntendedClosingDateSpecific: closingSpecific,
		HandoverDate:                req.HandoverDate,
		SellingPrice:                req.SellingPrice,
		Deposit:                     req.Deposit,
		IntermediaryPayment:         req.IntermediaryPayment,
		ClosingPayment:              req.ClosingPayment,
		AcceptableMethodOfPayment:   req.AcceptableMethodOfPayment,
		PlaceOfPayment:              req.PlaceOfPayment,
		PropertyCondition:           req.PropertyCondition,
		HouseWarranty:               req.HouseWarranty,
		WarrantyCondition:           req.WarrantyCondition,
		WarrantyTerm:                req.WarrantyTerm,
		FurnitureIncluded:           req.FurnitureIncluded,
		TransferFee:                 req.TransferFee,
		WithholdingTax:              req.WithholdingTax,
		BusinessTax:                 req.BusinessTax,
		LeaseRegistrationFee:        req.LeaseRegistrationFee,
		MortgageFee:                 req.MortgageFee,
		UsufructRegistrationFee:     req.UsufructRegistrationFee,
		ServitudeRegistrationFee:    req.ServitudeRegistrationFee,
		DeclaredLandOfficePrice:     req.DeclaredLandOfficePrice,
		LandTitle:                   req.LandTitle,
		HouseTitle:                  req.HouseTitle,
		RepairDetails:               req.RepairDetails,
	}, nil
}

// Create creates a property record
// @Summary Create property
// @Description Create a property transaction for an existing client
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PropertyRequest true "Property data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}
	if req.ClientID == 0 {
		return response.BadRequest(c, "client_id is required")
	}
	if req.PropertyName == nil || *req.PropertyName == "" {
		return response.BadRequest(c, "property_name is required")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	property, err := h.propertyService.CreateProperty(c.Context(), req.ClientID, *req.PropertyName, input, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, services.ErrInvalidPropertyValue):
			return response.BadRequest(c, "Invalid property field value")
		default:
			return response.InternalServerError(c, "Failed to create property")
		}
	}

	return response.Created(c, "Property created successfully", property)
}

// List returns a paginated property list
// @Summary List properties
// @Description Search, filter and paginate property transactions
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page (max 100)"
// @Param search query string false "Free text over name, agent, broker"
// @Param sortBy query string false "Sort column"
// @Param sortOrder query string false "ASC or DESC"
// @Param client_id query int false "Filter by client"
// @Param transaction_type query string false "Filter by transaction type"
// @Param property_type query string false "Filter by property type"
// @Param is_active query bool false "Filter by status"
// @Param created_by query int false "Filter by owning user"
// @Success 200 {object} response.Response
// @Router /properties [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	lq := parseListQuery(c)

	result, err := h.propertyService.SearchProperties(c.Context(), &services.SearchPropertiesInput{
		Page:            lq.Page,
		Limit:           lq.Limit,
		Search:          lq.Search,
		SortBy:          lq.SortBy,
		SortOrder:       lq.SortOrder,
		ClientID:        parseUintQuery(c, "client_id"),
		TransactionType: c.Query("transaction_type"),
		PropertyType:    c.Query("property_type"),
		IsActive:        parseBoolQuery(c, "is_active"),
		CreatedBy:       parseUintQuery(c, "created_by"),
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list properties")
	}

	return response.Success(c, "Properties loaded", result)
}

// Stats returns the property dashboard summary
// @Summary Property statistics
// @Description Totals, type and condition breakdowns, recent records and upcoming reservations
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /properties/stats [get]
func (h *PropertyHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.propertyService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load statistics")
	}
	return response.Success(c, "Statistics loaded", stats)
}

// Get returns one property
// @Summary Get property
// @Description Get a property by ID
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid property ID")
	}

	property, err := h.propertyService.GetProperty(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to load property")
	}

	return response.Success(c, "Property loaded", property)
}

// Update updates a property
// @Summary Update property
// @Description Partially update a property; omitted fields are untouched
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param body body PropertyRequest true "Property fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id} [put]
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid property ID")
	}

	var req PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	property, err := h.propertyService.UpdateProperty(c.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidPropertyValue):
			return response.BadRequest(c, "Invalid property field value")
		default:
			return response.InternalServerError(c, "Failed to update property")
		}
	}

	return response.Success(c, "Property updated successfully", property)
}

// ToggleStatus flips a property's active flag
// @Summary Toggle property status
// @Description Activate or deactivate a property
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id}/toggle-status [patch]
func (h *PropertyHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid property ID")
	}

	property, err := h.propertyService.TogglePropertyStatus(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to toggle property status")
	}

	return response.Success(c, "Property status updated", property)
}

// Delete removes a property
// @Summary Delete property
// @Description Delete a property and its uploaded documents
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid property ID")
	}

	if err := h.propertyService.DeleteProperty(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			return response.NotFound(c, "Property not found")
		}
		return response.InternalServerError(c, "Failed to delete property")
	}

	return response.Success(c, "Property deleted successfully", nil)
}

// UploadDocument stores a title document
// @Summary Upload property document
// @Description Upload one of the title documents (land_title_document, house_title_document, house_registration_book, land_lease_agreement)
// @Tags Properties
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param field path string true "Document field name"
// @Param document formData file true "Document file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id}/documents/{field} [put]
func (h *PropertyHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid property ID")
	}
	field := c.Params("field")

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return response.BadRequest(c, "Document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Cannot read uploaded file")
	}
	defer file.Close()

	property, err := h.propertyService.UploadDocument(
		c.Context(), id, field,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidDocumentField):
			return response.BadRequest(c, "Unknown document field")
		default:
			return response.InternalServerError(c, "Failed to upload document")
		}
	}

	return response.Success(c, "Document uploaded successfully", property)
}

// DeleteDocument clears a title document
// @Summary Delete property document
// @Description Remove one of the title documents from the record and storage
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param field path string true "Document field name"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /properties/{id}/documents/{field} [delete]
func (h *PropertyHandler) DeleteDocument(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid property ID")
	}
	field := c.Params("field")

	property, err := h.propertyService.DeleteDocument(c.Context(), id, field)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			return response.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidDocumentField):
			return response.BadRequest(c, "Unknown document field")
		default:
			return response.InternalServerError(c, "Failed to delete document")
		}
	}

	return response.Success(c, "Document deleted successfully", property)
}
