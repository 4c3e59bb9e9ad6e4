package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type TicketType struct {
	ID            string          `json:"id"`
	PartnerID     string          `json:"partner_id"`
	Name          string          `json:"name"`
	NameAr        string          `json:"name_ar"`
	Description   string          `json:"description"`
	DescriptionAr string          `json:"description_ar"`
	Price         decimal.Decimal `json:"price"`
	ValidityHours int             `json:"validity_hours"`
	MaxQuantity   int             `json:"max_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TicketTypeForm struct {
	Name          string          `json:"name"`
	NameAr        string          `json:"name_ar"`
	Description   string          `json:"description"`
	DescriptionAr string          `json:"description_ar"`
	Price         decimal.Decimal `json:"price"`
	ValidityHours int             `json:"validity_hours"`
	MaxQuantity   int             `json:"max_quantity"`
	IsActive      bool            `json:"is_active"`
}

// DefaultTicketTypeForm mirrors the blank form: valid for a day, one per purchase.
func DefaultTicketTypeForm() TicketTypeForm {
	return TicketTypeForm{ValidityHours: 24, MaxQuantity: 1, IsActive: true}
}

func (f *TicketTypeForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.NameAr = strings.TrimSpace(f.NameAr)
	f.Description = strings.TrimSpace(f.Description)
	f.DescriptionAr = strings.TrimSpace(f.DescriptionAr)
}

func (f TicketTypeForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Name is required")),
		validation.Field(&f.Price, validation.By(decimalAtLeast(decimal.Zero, "Price must not be negative"))),
		validation.Field(&f.ValidityHours,
			validation.Required.Error("Validity must be between 1 and 8760 hours"),
			validation.Min(1).Error("Validity must be between 1 and 8760 hours"),
			validation.Max(8760).Error("Validity must be between 1 and 8760 hours"),
		),
		validation.Field(&f.MaxQuantity,
			validation.Required.Error("Max quantity must be at least 1"),
			validation.Min(1).Error("Max quantity must be at least 1"),
		),
	)
}
