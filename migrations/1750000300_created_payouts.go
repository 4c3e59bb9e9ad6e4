package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		paymentPartner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}

		payments := core.NewBaseCollection("partner_payments")
		payments.Fields.Add(
			paymentPartner,
			&core.NumberField{Name: "amount", Required: true, Min: types.Pointer(0.0)},
			&core.SelectField{
				Name:      "payment_type",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"commission", "bonus", "refund"},
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending", "paid", "failed"},
			},
			&core.TextField{Name: "reference_number", Max: 128},
			&core.TextField{Name: "notes", Max: 1000},
			&core.DateField{Name: "paid_at"},
		)
		withTimestamps(payments)
		payments.AddIndex("idx_partner_payments_partner", false, "partner, created", "")
		if err := app.Save(payments); err != nil {
			return err
		}

		notificationPartner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}

		notifications := core.NewBaseCollection("partner_notifications")
		notifications.Fields.Add(
			notificationPartner,
			&core.TextField{Name: "title", Required: true, Max: 255},
			&core.TextField{Name: "title_ar", Max: 255},
			&core.TextField{Name: "message", Max: 2000},
			&core.TextField{Name: "message_ar", Max: 2000},
			&core.SelectField{
				Name:      "type",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"info", "success", "warning", "error"},
			},
			&core.TextField{Name: "related_type", Max: 64},
			&core.TextField{Name: "related_id", Max: 64},
			&core.BoolField{Name: "is_read"},
		)
		withTimestamps(notifications)
		notifications.AddIndex("idx_partner_notifications_partner", false, "partner, is_read, created", "")
		return app.Save(notifications)
	}, func(app core.App) error {
		return dropCollections(app, "partner_notifications", "partner_payments")
	})
}
