package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type ActivityStatus string

const (
	ActivityPendingApproval ActivityStatus = "pending_approval"
	ActivityActive          ActivityStatus = "active"
	ActivityInactive        ActivityStatus = "inactive"
	ActivityRejected        ActivityStatus = "rejected"
)

type Activity struct {
	ID                 string          `json:"id"`
	PartnerID          string          `json:"partner_id"`
	Title              string          `json:"title"`
	TitleAr            string          `json:"title_ar"`
	Description        string          `json:"description"`
	DescriptionAr      string          `json:"description_ar"`
	Location           string          `json:"location"`
	LocationAr         string          `json:"location_ar"`
	Price              decimal.Decimal `json:"price"`
	CategoryID         string          `json:"category_id"`
	ImageURL           string          `json:"image_url"`
	GalleryImages      []string        `json:"gallery_images"`
	Status             ActivityStatus  `json:"status"`
	CashPaymentEnabled bool            `json:"cash_payment_enabled"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ActivityForm is the partner submitted listing. Every text field comes in an English/Arabic pair.
type ActivityForm struct {
	Title              string          `json:"title"`
	TitleAr            string          `json:"title_ar"`
	Description        string          `json:"description"`
	DescriptionAr      string          `json:"description_ar"`
	Location           string          `json:"location"`
	LocationAr         string          `json:"location_ar"`
	Price              decimal.Decimal `json:"price"`
	CategoryID         string          `json:"category_id"`
	ImageURL           string          `json:"image_url"`
	GalleryImages      []string        `json:"gallery_images"`
	CashPaymentEnabled bool            `json:"cash_payment_enabled"`
}

func (f *ActivityForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.TitleAr = strings.TrimSpace(f.TitleAr)
	f.Description = strings.TrimSpace(f.Description)
	f.DescriptionAr = strings.TrimSpace(f.DescriptionAr)
	f.Location = strings.TrimSpace(f.Location)
	f.LocationAr = strings.TrimSpace(f.LocationAr)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
}

func (f ActivityForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("Activity title is required")),
		validation.Field(&f.TitleAr, validation.Required.Error("Arabic title is required")),
		validation.Field(&f.Description, validation.Required.Error("Description is required")),
		validation.Field(&f.DescriptionAr, validation.Required.Error("Arabic description is required")),
		validation.Field(&f.Price, validation.By(decimalAbove(decimal.Zero, "Valid price is required"))),
		validation.Field(&f.Location, validation.Required.Error("Location is required")),
		validation.Field(&f.LocationAr, validation.Required.Error("Arabic location is required")),
		validation.Field(&f.CategoryID, validation.Required.Error("Category is required")),
	)
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameAr   string `json:"name_ar"`
	IsActive bool   `json:"is_active"`
}
