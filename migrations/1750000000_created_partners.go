package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		partners := core.NewAuthCollection("partners")
		partners.Fields.Add(
			&core.TextField{Name: "name", Required: true, Max: 255},
			&core.TextField{Name: "name_ar", Max: 255},
			&core.TextField{Name: "phone", Max: 32},
			&core.TextField{Name: "business_name", Required: true, Max: 255},
			&core.TextField{Name: "business_name_ar", Max: 255},
			&core.TextField{Name: "business_address", Max: 500},
			&core.TextField{Name: "business_address_ar", Max: 500},
			&core.NumberField{Name: "commission_rate", Min: types.Pointer(0.0), Max: types.Pointer(100.0)},
			&core.BoolField{Name: "is_active"},
		)
		withTimestamps(partners)

		// partners sign in through the portal login only
		partners.PasswordAuth.Enabled = true
		partners.PasswordAuth.IdentityFields = []string{"email"}

		return app.Save(partners)
	}, func(app core.App) error {
		return dropCollections(app, "partners")
	})
}

func withTimestamps(c *core.Collection) {
	c.Fields.Add(
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
}

func relation(app core.App, name, target string, required bool) (*core.RelationField, error) {
	c, err := app.FindCollectionByNameOrId(target)
	if err != nil {
		return nil, err
	}
	return &core.RelationField{
		Name:         name,
		CollectionId: c.Id,
		MaxSelect:    1,
		Required:     required,
	}, nil
}

// dropCollections deletes the named collections in order, skipping missing ones.
func dropCollections(app core.App, names ...string) error {
	for _, name := range names {
		c, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			continue
		}
		if err := app.Delete(c); err != nil {
			return err
		}
	}
	return nil
}
