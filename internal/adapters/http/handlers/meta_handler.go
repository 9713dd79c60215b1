package handlers

import (
	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MetaHandler serves the enum vocabularies the frontend renders as dropdowns.
type MetaHandler struct{}

// NewMetaHandler creates a new meta handler
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Vocabularies returns every enum vocabulary
// @Summary Enum vocabularies
// @Description All dropdown vocabularies (visa types, property enums, marital status)
// @Tags Meta
// @Produce json
// @Success 200 {object} response.Response
// @Router /meta/vocabularies [get]
func (h *MetaHandler) Vocabularies(c *fiber.Ctx) error {
	return response.Success(c, "Vocabularies loaded", fiber.Map{
		"marital_status":             models.MaritalStatusValues,
		"existing_visa":              models.ExistingVisaValues,
		"wished_visa":                models.WishedVisaValues,
		"transaction_type":           models.TransactionTypeValues,
		"property_type":              models.PropertyTypeValues,
		"intended_closing_date":      models.IntendedClosingDateValues,
		"handover_date":              models.HandoverDateValues,
		"payment_method":             models.PaymentMethodValues,
		"place_of_payment":           models.PlaceOfPaymentValues,
		"property_condition":         models.PropertyConditionValues,
		"furniture_included":         models.FurnitureIncludedValues,
		"cost_sharing":               models.CostSharingValues,
		"land_title":                 models.LandTitleValues,
		"house_title":                models.HouseTitleValues,
		"declared_land_office_price": models.DeclaredLandOfficePriceValues,
		"document_fields":            models.DocumentFields,
	})
}
