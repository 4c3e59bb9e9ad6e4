package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		bookingPartner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}
		bookingActivity, err := relation(app, "activity", "partner_activities", false)
		if err != nil {
			return err
		}

		bookings := core.NewBaseCollection("bookings")
		bookings.Fields.Add(
			bookingPartner,
			bookingActivity,
			&core.TextField{Name: "short_booking_id", Max: 32},
			&core.TextField{Name: "customer_name", Max: 255},
			&core.EmailField{Name: "customer_email"},
			&core.TextField{Name: "customer_phone", Max: 32},
			&core.TextField{Name: "payment_method", Max: 64},
			&core.NumberField{Name: "total_amount", Min: types.Pointer(0.0)},
		)
		withTimestamps(bookings)
		bookings.AddIndex("idx_bookings_partner_created", false, "partner, created", "")
		if err := app.Save(bookings); err != nil {
			return err
		}

		ticketPartner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}
		ticketBooking, err := relation(app, "booking", "bookings", false)
		if err != nil {
			return err
		}
		ticketActivity, err := relation(app, "activity", "partner_activities", false)
		if err != nil {
			return err
		}
		ticketType, err := relation(app, "ticket_type", "ticket_types", false)
		if err != nil {
			return err
		}

		tickets := core.NewBaseCollection("tickets")
		tickets.Fields.Add(
			ticketPartner,
			ticketBooking,
			ticketActivity,
			ticketType,
			&core.TextField{Name: "code", Required: true, Max: 64},
			&core.TextField{Name: "ticket_name", Max: 255},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"valid", "used", "cancelled", "expired"},
			},
			&core.NumberField{Name: "unit_price", Min: types.Pointer(0.0)},
			&core.NumberField{Name: "service_fee", Min: types.Pointer(0.0)},
			&core.NumberField{Name: "total_price", Min: types.Pointer(0.0)},
			&core.NumberField{Name: "commission_amount", Min: types.Pointer(0.0)},
			&core.DateField{Name: "valid_until"},
			&core.DateField{Name: "activated_at"},
			&core.TextField{Name: "activated_by", Max: 1000},
			&core.TextField{Name: "redeemed_by", Max: 255},
			&core.TextField{Name: "redeem_note", Max: 1000},
			// decimal text so cash totals never pass through float
			&core.TextField{Name: "collected_amount", Max: 32, Pattern: `^\d+(\.\d{1,2})?$`},
		)
		withTimestamps(tickets)
		tickets.AddIndex("idx_tickets_code", true, "code", "")
		tickets.AddIndex("idx_tickets_partner_created", false, "partner, created", "")
		if err := app.Save(tickets); err != nil {
			return err
		}

		scanPartner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}
		scanTicket, err := relation(app, "ticket", "tickets", true)
		if err != nil {
			return err
		}

		scans := core.NewBaseCollection("scanning_logs")
		scans.Fields.Add(
			scanPartner,
			scanTicket,
			&core.TextField{Name: "scanned_by", Max: 255},
			&core.TextField{Name: "note", Max: 1000},
			&core.TextField{Name: "scan_result", Max: 32},
			&core.TextField{Name: "scan_location", Max: 64},
			&core.TextField{Name: "device_info", Max: 512},
			&core.TextField{Name: "ip_hash", Max: 128},
		)
		withTimestamps(scans)
		if err := app.Save(scans); err != nil {
			return err
		}

		clickPartner, err := relation(app, "partner", "partners", true)
		if err != nil {
			return err
		}
		clickActivity, err := relation(app, "activity", "partner_activities", false)
		if err != nil {
			return err
		}

		clicks := core.NewBaseCollection("activity_click_logs")
		clicks.Fields.Add(
			clickPartner,
			clickActivity,
			&core.DateField{Name: "clicked_at", Required: true},
		)
		withTimestamps(clicks)
		clicks.AddIndex("idx_activity_click_logs_partner", false, "partner, clicked_at", "")
		return app.Save(clicks)
	}, func(app core.App) error {
		return dropCollections(app, "activity_click_logs", "scanning_logs", "tickets", "bookings")
	})
}
