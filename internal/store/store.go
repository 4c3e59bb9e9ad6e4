// Package store maps PocketBase collections onto portal models.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"partner-portal/internal/status"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"
)

const (
	CollectionPartners      = "partners"
	CollectionCategories    = "categories"
	CollectionActivities    = "partner_activities"
	CollectionTicketTypes   = "ticket_types"
	CollectionBookings      = "bookings"
	CollectionTickets       = "tickets"
	CollectionScanLogs      = "scanning_logs"
	CollectionClickLogs     = "activity_click_logs"
	CollectionPayments      = "partner_payments"
	CollectionNotifications = "partner_notifications"
)

// Range bounds a time filter; zero ends are open.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) expression(field string) dbx.Expression {
	var exps []dbx.Expression
	if !r.From.IsZero() {
		exps = append(exps, dbx.NewExp(field+" >= {:from}", dbx.Params{"from": formatDate(r.From)}))
	}
	if !r.To.IsZero() {
		exps = append(exps, dbx.NewExp(field+" <= {:to}", dbx.Params{"to": formatDate(r.To)}))
	}
	return dbx.And(exps...)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(types.DefaultDateLayout)
}

func findOne(ctx context.Context, app core.App, collection string, exp dbx.Expression) (*core.Record, error) {
	record := &core.Record{}
	err := app.RecordQuery(collection).
		AndWhere(exp).
		Limit(1).
		WithContext(ctx).
		One(record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrRecordNotFound
		}
		return nil, fmt.Errorf("app.RecordQuery(%s): %w", collection, err)
	}
	return record, nil
}

func findAll(ctx context.Context, app core.App, collection string, exp dbx.Expression, orderBy ...string) ([]*core.Record, error) {
	records := []*core.Record{}
	err := app.RecordQuery(collection).
		AndWhere(exp).
		OrderBy(orderBy...).
		WithContext(ctx).
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("app.RecordQuery(%s): %w", collection, err)
	}
	return records, nil
}

// owned matches a record by id within a partner's rows.
func owned(id, partnerID string) dbx.Expression {
	return dbx.HashExp{"id": id, "partner": partnerID}
}

func newRecord(app core.App, collection string) (*core.Record, error) {
	c, err := app.FindCachedCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("app.FindCachedCollectionByNameOrId(%s): %w", collection, err)
	}
	return core.NewRecord(c), nil
}

func getDecimal(record *core.Record, field string) decimal.Decimal {
	return decimal.NewFromFloat(record.GetFloat(field))
}

func setDecimal(record *core.Record, field string, d decimal.Decimal) {
	record.Set(field, d.InexactFloat64())
}

func getTime(record *core.Record, field string) time.Time {
	dt := record.GetDateTime(field)
	if dt.IsZero() {
		return time.Time{}
	}
	return dt.Time()
}

func getTimePtr(record *core.Record, field string) *time.Time {
	t := getTime(record, field)
	if t.IsZero() {
		return nil
	}
	return &t
}
