package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		categories := core.NewBaseCollection("categories")
		categories.Fields.Add(
			&core.TextField{Name: "name", Required: true, Max: 255},
			&core.TextField{Name: "name_ar", Max: 255},
			&core.BoolField{Name: "is_active"},
		)
		withTimestamps(categories)
		categories.ListRule = types.Pointer("is_active = true")
		categories.ViewRule = types.Pointer("is_active = true")
		if err := app.Save(categories); err != nil {
			return err
		}

		partner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}
		category, err := relation(app, "category", "categories", false)
		if err != nil {
			return err
		}

		activities := core.NewBaseCollection("partner_activities")
		activities.Fields.Add(
			partner,
			category,
			&core.TextField{Name: "title", Required: true, Max: 255},
			&core.TextField{Name: "title_ar", Max: 255},
			&core.TextField{Name: "description", Max: 5000},
			&core.TextField{Name: "description_ar", Max: 5000},
			&core.TextField{Name: "location", Max: 500},
			&core.TextField{Name: "location_ar", Max: 500},
			&core.NumberField{Name: "price", Min: types.Pointer(0.0)},
			&core.BoolField{Name: "cash_payment_enabled"},
			&core.TextField{Name: "image_url", Max: 2048},
			&core.JSONField{Name: "gallery_images", MaxSize: 1 << 16},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending_approval", "active", "inactive", "rejected"},
			},
			&core.BoolField{Name: "is_active"},
		)
		withTimestamps(activities)
		activities.AddIndex("idx_partner_activities_partner", false, "partner, created", "")
		if err := app.Save(activities); err != nil {
			return err
		}

		typeOwner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}

		ticketTypes := core.NewBaseCollection("ticket_types")
		ticketTypes.Fields.Add(
			typeOwner,
			&core.TextField{Name: "name", Required: true, Max: 255},
			&core.TextField{Name: "name_ar", Max: 255},
			&core.TextField{Name: "description", Max: 2000},
			&core.TextField{Name: "description_ar", Max: 2000},
			&core.NumberField{Name: "price", Min: types.Pointer(0.0)},
			&core.NumberField{Name: "validity_hours", OnlyInt: true, Min: types.Pointer(1.0), Max: types.Pointer(8760.0)},
			&core.NumberField{Name: "max_quantity", OnlyInt: true, Min: types.Pointer(1.0)},
			&core.BoolField{Name: "is_active"},
		)
		withTimestamps(ticketTypes)
		ticketTypes.AddIndex("idx_ticket_types_partner", false, "partner", "")
		return app.Save(ticketTypes)
	}, func(app core.App) error {
		return dropCollections(app, "ticket_types", "partner_activities", "categories")
	})
}
