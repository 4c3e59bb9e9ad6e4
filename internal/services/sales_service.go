package services

import (
	"context"
	"regexp"
	"time"

	"partner-portal/internal/aggregate"
	"partner-portal/internal/store"
	"partner-portal/models"
)

const (
	DefaultSummaryDays = 30
	MaxSummaryDays     = 365
	DefaultTopN        = 5

	unknownActivity = "Unknown"
)

type SalesService struct {
	tickets    TicketStore
	bookings   BookingStore
	clicks     ClickStore
	activities ActivityStore
	cash       *regexp.Regexp
	loc        *time.Location
	now        func() time.Time
}

func NewSalesService(tickets TicketStore, bookings BookingStore, clicks ClickStore, activities ActivityStore, cash *regexp.Regexp, loc *time.Location) *SalesService {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesService{
		tickets:    tickets,
		bookings:   bookings,
		clicks:     clicks,
		activities: activities,
		cash:       cash,
		loc:        loc,
		now:        time.Now,
	}
}

// Location is the time zone report dates are bucketed and printed in.
func (s *SalesService) Location() *time.Location {
	return s.loc
}

type SalesQuery struct {
	Range store.Range
	Query string
}

type SalesView struct {
	Rows    []aggregate.SalesRow   `json:"rows"`
	Metrics aggregate.SalesMetrics `json:"metrics"`
}

// Sales lists tickets of bookings made within the range, newest first.
func (s *SalesService) Sales(ctx context.Context, session models.PartnerSession, q SalesQuery) (*SalesView, error) {
	tickets, bookings, err := s.load(ctx, session.PartnerID, q.Range)
	if err != nil {
		return nil, err
	}

	rows := aggregate.BuildSalesRows(tickets, bookings, q.Query, s.cash, s.now())
	return &SalesView{Rows: rows, Metrics: aggregate.Metrics(rows)}, nil
}

type AnalyticsQuery struct {
	Range  store.Range
	Period aggregate.Period
	Top    int
}

type AnalyticsView struct {
	Report   aggregate.Report         `json:"report"`
	Insights aggregate.SalesAnalytics `json:"insights"`
}

func (s *SalesService) Analytics(ctx context.Context, session models.PartnerSession, q AnalyticsQuery) (*AnalyticsView, error) {
	if q.Top <= 0 {
		q.Top = DefaultTopN
	}

	tickets, bookings, err := s.load(ctx, session.PartnerID, q.Range)
	if err != nil {
		return nil, err
	}
	clicks, err := s.clicks.ListByPartner(ctx, session.PartnerID, q.Range)
	if err != nil {
		return nil, err
	}
	titles, err := s.activityTitles(ctx, session.PartnerID)
	if err != nil {
		return nil, err
	}

	rows := aggregate.BuildSalesRows(tickets, bookings, "", s.cash, s.now())
	return &AnalyticsView{
		Report:   aggregate.Build(saleRecords(tickets, bookings, titles), q.Period, s.loc, q.Top),
		Insights: aggregate.Analytics(rows, bookings, clicks, titles, s.loc, q.Top),
	}, nil
}

// Summary covers tickets and clicks of the last days days.
func (s *SalesService) Summary(ctx context.Context, session models.PartnerSession, days int) (*aggregate.Summary, error) {
	days = ClampDays(days)
	now := s.now()
	r := store.Range{From: now.AddDate(0, 0, -days)}

	tickets, err := s.tickets.ListByPartner(ctx, session.PartnerID, r)
	if err != nil {
		return nil, err
	}
	clicks, err := s.clicks.ListByPartner(ctx, session.PartnerID, r)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.ListByPartner(ctx, session.PartnerID)
	if err != nil {
		return nil, err
	}

	summary := aggregate.Summarize(tickets, clicks, activities, now, days, s.loc)
	return &summary, nil
}

func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultSummaryDays
	case days > MaxSummaryDays:
		return MaxSummaryDays
	}
	return days
}

func (s *SalesService) load(ctx context.Context, partnerID string, r store.Range) ([]models.Ticket, map[string]models.Booking, error) {
	bookings, err := s.bookings.ListByPartner(ctx, partnerID, r)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]models.Booking, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	tickets, err := s.tickets.ListByBookings(ctx, partnerID, ids)
	if err != nil {
		return nil, nil, err
	}
	return tickets, byID, nil
}

func (s *SalesService) activityTitles(ctx context.Context, partnerID string) (map[string]string, error) {
	activities, err := s.activities.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(activities))
	for _, a := range activities {
		titles[a.ID] = a.Title
	}
	return titles, nil
}

// saleRecords dates each ticket by its booking so report buckets match the sales list,
// and labels it with its activity title so the top list ranks activities.
func saleRecords(tickets []models.Ticket, bookings map[string]models.Booking, titles map[string]string) []aggregate.Record {
	records := make([]aggregate.Record, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		at := t.CreatedAt
		if b, ok := bookings[t.BookingID]; ok && !b.CreatedAt.IsZero() {
			at = b.CreatedAt
		}
		label, ok := titles[t.ActivityID]
		if !ok || label == "" {
			label = unknownActivity
		}
		records = append(records, aggregate.Record{
			At:         at,
			Label:      label,
			Revenue:    t.Price(),
			Commission: t.CommissionAmount,
		})
	}
	return records
}
