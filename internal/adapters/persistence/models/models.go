package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents the users table (staff and admin accounts).
//
// RefreshToken doubles as the email-verification and password-reset token:
// it is set on register / forgot-password and cleared once consumed.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	PhoneNumber  *string   `gorm:"size:15" json:"phone_number"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"`
	RefreshToken *string   `gorm:"size:500" json:"-"`
	Profile      *string   `gorm:"size:500" json:"profile"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO (never carries password or tokens)
type UserResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	IsActive    bool      `json:"is_active"`
	Role        string    `json:"role"`
	Profile     *string   `json:"profile,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		Role:        u.Role,
		Profile:     u.Profile,
		CreatedAt:   u.CreatedAt,
	}
}

// CreatorResponse is the trimmed owner view attached to owned records
type CreatorResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client represents the clients table.
type Client struct {
	ID                          uint       `gorm:"primaryKey" json:"id"`
	Name                        string     `gorm:"size:100;not null" json:"name"`
	FamilyName                  string     `gorm:"size:100;not null" json:"family_name"`
	Email                       string     `gorm:"uniqueIndex;size:150;not null" json:"email"`
	PassportNumber              *string    `gorm:"uniqueIndex;size:20" json:"passport_number"`
	Nationality                 string     `gorm:"size:50;not null" json:"nationality"`
	DateOfBirth                 *time.Time `gorm:"type:date" json:"date_of_birth"`
	Age                         *int       `json:"age"`
	PhoneNumber                 string     `gorm:"size:15;not null" json:"phone_number"`
	CurrentAddress              string     `gorm:"type:text;not null" json:"current_address"`
	AddressInThailand           *string    `gorm:"type:text" json:"address_in_thailand"`
	Whatsapp                    *string    `gorm:"size:15" json:"whatsapp"`
	Line                        *string    `gorm:"size:50" json:"line"`
	MaritalStatus               *string    `gorm:"size:20" json:"marital_status"`
	FatherName                  *string    `gorm:"size:100" json:"father_name"`
	MotherName                  *string    `gorm:"size:100" json:"mother_name"`
	MarriedToThaiAndRegistered  *bool      `json:"married_to_thai_and_registered"`
	HasYellowOrPinkCard         *bool      `json:"has_yellow_or_pink_card"`
	HasBoughtPropertyInThailand *bool      `json:"has_bought_property_in_thailand"`
	IsActive                    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy                   uint       `gorm:"not null;index" json:"created_by"`
	Creator                     *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	CreatedAt                   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

// BeforeSave keeps age a pure function of date_of_birth. It runs on create
// and on every update, so a stale client-supplied age can never win.
func (c *Client) BeforeSave(_ *gorm.DB) error {
	c.Age = AgeFromDateOfBirth(c.DateOfBirth, time.Now())
	return nil
}

// AgeFromDateOfBirth returns the age in full years at the reference time,
// or nil when the date of birth is unknown.
func AgeFromDateOfBirth(dob *time.Time, now time.Time) *int {
	if dob == nil {
		return nil
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return &age
}

// Visa represents the visas table. A visa belongs to exactly one client.
type Visa struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	ClientID              uint       `gorm:"not null;index" json:"client_id"`
	Client                *Client    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	ExistingVisa          *string    `gorm:"size:50" json:"existing_visa"`
	WishedVisa            string     `gorm:"size:50;not null" json:"wished_visa"`
	LatestEntryDate       *time.Time `gorm:"type:date" json:"latest_entry_date"`
	ExistingVisaExpiry    *time.Time `gorm:"type:date" json:"existing_visa_expiry"`
	IntendedDepartureDate *time.Time `gorm:"type:date" json:"intended_departure_date"`
	IsActive              bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy             uint       `gorm:"not null;index" json:"created_by"`
	Creator               *User      `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Visa) TableName() string {
	return "visas"
}

// Property represents the properties table. A property transaction belongs
// to exactly one client; the four *Document fields hold object-storage URLs.
type Property struct {
	ID                          uint             `gorm:"primaryKey" json:"id"`
	ClientID                    uint             `gorm:"not null;index" json:"client_id"`
	Client                      *Client          `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	PropertyName                string           `gorm:"size:100;not null" json:"property_name"`
	AgentName                   *string          `gorm:"size:100" json:"agent_name"`
	BrokerCompany               *string          `gorm:"size:100" json:"broker_company"`
	TransactionType             *string          `gorm:"type:text" json:"transaction_type"`
	PropertyType                *string          `gorm:"size:50" json:"property_type"`
	ReservationDate             *time.Time       `gorm:"type:date" json:"reservation_date"`
	IntendedClosingDate         *string          `gorm:"size:30" json:"intended_closing_date"`
	IntendedClosingDateSpecific *time.Time       `gorm:"type:date" json:"intended_closing_date_specific"`
	HandoverDate                *string          `gorm:"size:30" json:"handover_date"`
	SellingPrice                *decimal.Decimal `gorm:"type:decimal(15,2)" json:"selling_price"`
	Deposit                     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"deposit"`
	IntermediaryPayment         *decimal.Decimal `gorm:"type:decimal(15,2)" json:"intermediary_payment"`
	ClosingPayment              *decimal.Decimal `gorm:"type:decimal(15,2)" json:"closing_payment"`
	AcceptableMethodOfPayment   *string          `gorm:"type:text" json:"acceptable_method_of_payment"`
	PlaceOfPayment              *string          `gorm:"size:20" json:"place_of_payment"`
	PropertyCondition           *string          `gorm:"size:40" json:"property_condition"`
	HouseWarranty               *string          `gorm:"size:5" json:"house_warranty"`
	WarrantyCondition           *string          `gorm:"type:text" json:"warranty_condition"`
	WarrantyTerm                *string          `gorm:"size:100" json:"warranty_term"`
	FurnitureIncluded           *string          `gorm:"size:50" json:"furniture_included"`
	TransferFee                 *string          `gorm:"size:30" json:"transfer_fee"`
	WithholdingTax              *string          `gorm:"size:30" json:"withholding_tax"`
	BusinessTax                 *string          `gorm:"size:30" json:"business_tax"`
	LeaseRegistrationFee        *string          `gorm:"size:30" json:"lease_registration_fee"`
	MortgageFee                 *string          `gorm:"size:30" json:"mortgage_fee"`
	UsufructRegistrationFee     *string          `gorm:"size:30" json:"usufruct_registration_fee"`
	ServitudeRegistrationFee    *string          `gorm:"size:30" json:"servitude_registration_fee"`
	DeclaredLandOfficePrice     *string          `gorm:"size:30" json:"declared_land_office_price"`
	LandTitle                   *string          `gorm:"size:50" json:"land_title"`
	LandTitleDocument           *string          `gorm:"size:500" json:"land_title_document"`
	HouseTitle                  *string          `gorm:"size:60" json:"house_title"`
	HouseTitleDocument          *string          `gorm:"size:500" json:"house_title_document"`
	HouseRegistrationBook       *string          `gorm:"size:500" json:"house_registration_book"`
	LandLeaseAgreement          *string          `gorm:"size:500" json:"land_lease_agreement"`
	RepairDetails               *string          `gorm:"type:text" json:"repair_details"`
	IsActive                    bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedBy                   uint             `gorm:"not null;index" json:"created_by"`
	Creator                     *User            `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	CreatedAt                   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// DocumentFields maps the multipart form field names of the uploadable
// property documents to setters on the model.
var DocumentFields = []string{
	"land_title_document",
	"house_title_document",
	"house_registration_book",
	"land_lease_agreement",
}

// DocumentURL returns the stored URL for one of DocumentFields.
func (p *Property) DocumentURL(field string) *string {
	switch field {
	case "land_title_document":
		return p.LandTitleDocument
	case "house_title_document":
		return p.HouseTitleDocument
	case "house_registration_book":
		return p.HouseRegistrationBook
	case "land_lease_agreement":
		return p.LandLeaseAgreement
	}
	return nil
}

// SetDocumentURL stores the URL for one of DocumentFields.
func (p *Property) SetDocumentURL(field string, url *string) {
	switch field {
	case "land_title_document":
		p.LandTitleDocument = url
	case "house_title_document":
		p.HouseTitleDocument = url
	case "house_registration_book":
		p.HouseRegistrationBook = url
	case "land_lease_agreement":
		p.LandLeaseAgreement = url
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Visa{},
		&Property{},
	)
}
