package models

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MaritalStatusValues are the accepted client marital statuses
var MaritalStatusValues = []string{
	"single",
	"married",
	"common_law",
	"divorced",
	"widowed",
}

// ExistingVisaValues is the vocabulary for the visa a client currently holds.
var ExistingVisaValues = []string{
	"entry_stamp_30_day",
	"entry_stamp_60_day",
	"tourist_visa_60_day",
	"non_immigrant_o_visa_3_month",
	"married_to_thai_visa",
	"thai_child_visa",
	"student_visa_language_school",
	"student_visa_school_or_university",
	"retirement_visa",
	"guardian_visa",
	"dependent_visa",
	"non_immigrant_b_visa_3_month",
	"business_visa_employment_1_year",
	"retirement_visa_1_year",
	"non_immigrant_oa_visa",
	"elite_visa",
	"dtv",
	"ltr_wealthy_pensioner",
	"ltr_wealthy_citizen",
	"ltr_highly_skilled_professional",
	"ltr_work_from_thailand_professional",
}

// WishedVisaValues is the vocabulary for the visa a client wants to obtain.
var WishedVisaValues = []string{
	"renew_the_existing_one",
	"non_immigrant_o_visa_3_month",
	"married_to_thai_visa",
	"thai_child_visa",
	"student_visa_language_school",
	"student_visa_school_or_university",
	"retirement_visa",
	"guardian_visa",
	"dependent_visa",
	"non_immigrant_b_visa_3_month",
	"business_visa_employment_1_year",
	"retirement_visa_1_year",
	"non_immigrant_oa_visa",
	"elite_visa",
	"dtv",
	"ltr_wealthy_pensioner",
	"ltr_wealthy_citizen",
	"ltr_highly_skilled_professional",
	"ltr_work_from_thailand_professional",
}

// TransactionTypeValues is the property transaction vocabulary. The column
// itself is free text; this list backs the UI and filter validation only.
var TransactionTypeValues = []string{
	"buy",
	"sell",
	"rent",
	"sublease",
	"mortgage",
	"construction",
	"joint_venture",
	"consultant_from_owner",
	"consultant_from_buyer",
}

// PropertyTypeValues is the property type vocabulary
var PropertyTypeValues = []string{
	"house_and_land_freehold",
	"house_and_land_leasehold",
	"condominium_freehold",
	"condominium_leasehold",
	"empty_land",
}

// IntendedClosingDateValues is the closing-date mode vocabulary
var IntendedClosingDateValues = []string{
	"on_or_before",
	"any_date",
	"at_closing",
	"after_closing",
	"specific_date",
}

// HandoverDateValues is the handover mode vocabulary
var HandoverDateValues = []string{
	"on_or_before",
	"at_closing",
	"after_closing",
}

// PaymentMethodValues is the accepted payment method vocabulary
var PaymentMethodValues = []string{
	"cashiers_check_recommended",
	"cash_transfer",
	"personal_check",
	"cash",
	"other",
}

// PlaceOfPaymentValues is the place-of-payment vocabulary
var PlaceOfPaymentValues = []string{"thailand", "other"}

// PropertyConditionValues is the property condition vocabulary
var PropertyConditionValues = []string{
	"new",
	"good_working",
	"as_seen",
	"sometimes_items_to_be_repaired",
}

// FurnitureIncludedValues is the furniture arrangement vocabulary
var FurnitureIncludedValues = []string{
	"not_furniture_included",
	"specific_furniture_included",
	"all_furniture_included",
	"selected_furniture_included",
	"all_furniture_except_personal_items",
}

// CostSharingValues is the fee/cost sharing vocabulary shared by all the
// transfer/tax/registration fee fields.
var CostSharingValues = []string{
	"buyer_only",
	"seller_only",
	"lessee_only",
	"lessor_only",
	"mortgagor_only",
	"mortgagee_only",
	"usufructuary_only",
	"owner_only",
	"dominant_owner_only",
	"servient_owner_only",
	"share_50_50",
}

// LandTitleValues is the land title document type vocabulary
var LandTitleValues = []string{
	"land_title_deed",
	"certificate_of_utilization",
}

// HouseTitleValues is the house title document type vocabulary
var HouseTitleValues = []string{
	"building_permit",
	"official_house_sale_and_purchase_agreement",
}

// DeclaredLandOfficePriceValues is the declared price vocabulary
var DeclaredLandOfficePriceValues = []string{
	"actual_price",
	"lowest_possible_price",
	"mediocre_price",
}

// IsEnumValue reports whether v is a member of the vocabulary.
func IsEnumValue(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
