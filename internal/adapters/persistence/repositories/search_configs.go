package repositories

import (
	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/search"
)

// Per-entity search configurations. These are the single source of truth for
// which columns free-text search touches, which columns may be sorted on and
// which enum vocabularies back enum-aware search.

var userSearchConfig = search.Config{
	TextFields: []string{"name", "email"},
	SortFields: []string{
		"id", "name", "email", "role", "is_active", "created_at", "updated_at",
	},
	DefaultSort: "created_at",
}

var clientSearchConfig = search.Config{
	TextFields: []string{
		"name", "family_name", "email", "passport_number",
		"nationality", "father_name", "mother_name",
	},
	SortFields: []string{
		"id", "name", "family_name", "email", "nationality", "age",
		"is_active", "created_at", "updated_at",
	},
	DefaultSort: "created_at",
}

// Visa search is enum-only: a term matching neither vocabulary yields a
// deterministic empty page.
var visaSearchConfig = search.Config{
	EnumFields: []search.EnumField{
		{Column: "existing_visa", Values: models.ExistingVisaValues},
		{Column: "wished_visa", Values: models.WishedVisaValues},
	},
	SortFields: []string{
		"id", "client_id", "existing_visa", "wished_visa",
		"latest_entry_date", "existing_visa_expiry", "intended_departure_date",
		"created_by", "is_active", "created_at", "updated_at",
	},
	DefaultSort: "created_at",
}

var propertySearchConfig = search.Config{
	TextFields: []string{
		"property_name", "agent_name", "broker_company",
		"repair_details", "transaction_type",
	},
	EnumFields: []search.EnumField{
		{Column: "property_type", Values: models.PropertyTypeValues},
	},
	SortFields: []string{
		"id", "property_name", "agent_name", "broker_company",
		"transaction_type", "property_type", "reservation_date",
		"selling_price", "deposit", "created_at", "updated_at",
	},
	DefaultSort: "created_at",
}
