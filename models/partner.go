package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Partner struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	NameAr            string    `json:"name_ar"`
	Phone             string    `json:"phone"`
	BusinessName      string    `json:"business_name"`
	BusinessNameAr    string    `json:"business_name_ar"`
	BusinessAddress   string    `json:"business_address"`
	BusinessAddressAr string    `json:"business_address_ar"`
	CommissionRate    float64   `json:"commission_rate"`
	IsActive          bool      `json:"is_active"`
	IsVerified        bool      `json:"is_verified"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PartnerSession is the identity carried through a request on behalf of a logged in partner.
type PartnerSession struct {
	PartnerID      string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	BusinessName   string    `json:"business_name"`
	CommissionRate float64   `json:"commission_rate"`
	LoginTime      time.Time `json:"login_time"`
}

func NewPartnerSession(p *Partner, loginTime time.Time) PartnerSession {
	return PartnerSession{
		PartnerID:      p.ID,
		Email:          p.Email,
		Name:           p.Name,
		BusinessName:   p.BusinessName,
		CommissionRate: p.CommissionRate,
		LoginTime:      loginTime,
	}
}

// DisplayName is used as the default auditor name on the scanner.
func (s PartnerSession) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Unknown"
}

// ProfileForm is the editable subset of a partner record.
type ProfileForm struct {
	Name              string  `json:"name"`
	NameAr            string  `json:"name_ar"`
	Phone             string  `json:"phone"`
	BusinessName      string  `json:"business_name"`
	BusinessNameAr    string  `json:"business_name_ar"`
	BusinessAddress   string  `json:"business_address"`
	BusinessAddressAr string  `json:"business_address_ar"`
	CommissionRate    float64 `json:"commission_rate"`
}

func (f *ProfileForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.NameAr = strings.TrimSpace(f.NameAr)
	f.Phone = strings.TrimSpace(f.Phone)
	f.BusinessName = strings.TrimSpace(f.BusinessName)
	f.BusinessNameAr = strings.TrimSpace(f.BusinessNameAr)
	f.BusinessAddress = strings.TrimSpace(f.BusinessAddress)
	f.BusinessAddressAr = strings.TrimSpace(f.BusinessAddressAr)
}

func (f ProfileForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Name is required")),
		validation.Field(&f.NameAr, validation.Required.Error("Arabic name is required")),
		validation.Field(&f.BusinessName, validation.Required.Error("Business name is required")),
		validation.Field(&f.BusinessNameAr, validation.Required.Error("Arabic business name is required")),
		validation.Field(&f.Phone, validation.Required.Error("Phone number is required")),
		validation.Field(&f.CommissionRate,
			validation.Min(0.0).Error("Commission rate must be between 0 and 100"),
			validation.Max(100.0).Error("Commission rate must be between 0 and 100"),
		),
	)
}

type PasswordForm struct {
	Password string `json:"password"`
}

func (f PasswordForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Password,
			validation.Required.Error("Password is required"),
			validation.RuneLength(8, 72).Error("Password must be between 8 and 72 characters"),
		),
	)
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required.Error("Email is required")),
		validation.Field(&f.Password, validation.Required.Error("Password is required")),
	)
}
