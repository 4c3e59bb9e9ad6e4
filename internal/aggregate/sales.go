package aggregate

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"partner-portal/models"

	"github.com/shopspring/decimal"
)

// newTicketWindow marks rows bought recently enough to be highlighted.
const newTicketWindow = 48 * time.Hour

// SalesRow is a ticket joined with its booking, as listed on the partner home page.
type SalesRow struct {
	ID              string              `json:"id"`
	FullTicketID    string              `json:"full_ticket_id"`
	TicketName      string              `json:"ticket_name"`
	DateOfPurchase  time.Time           `json:"date_of_purchase"`
	Price           decimal.Decimal     `json:"price"`
	CollectedAmount decimal.Decimal     `json:"collected_amount"`
	PaymentMethod   string              `json:"payment_method"`
	IsCash          bool                `json:"is_cash"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	Status          models.TicketStatus `json:"status"`
	IsNew           bool                `json:"is_new"`
	LastAction      *models.AuditAction `json:"last_action"`
	BookingID       string              `json:"booking_id"`
}

// Amount is what the row contributes to used revenue: collected cash or the ticket price.
func (r SalesRow) Amount() decimal.Decimal {
	if r.IsCash {
		return r.CollectedAmount
	}
	return r.Price
}

type SalesMetrics struct {
	TotalTickets   int             `json:"total_tickets"`
	UsedCount      int             `json:"used_count"`
	UsedAmount     decimal.Decimal `json:"used_amount"`
	ActiveCount    int             `json:"active_count"`
	CancelledCount int             `json:"cancelled_count"`
}

type CountPoint struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type SalesAnalytics struct {
	SalesSeries      []Bucket        `json:"sales_series"`
	TotalUsedTickets int             `json:"total_used_tickets"`
	TotalBookings    int             `json:"total_bookings"`
	TopTickets       []Ranked        `json:"top_tickets"`
	RevenueUsed      decimal.Decimal `json:"revenue_used"`
	ClickSeries      []CountPoint    `json:"click_series"`
	TopClicks        []Ranked        `json:"top_clicks"`
	TotalClicks      int             `json:"total_clicks"`
}

const missing = "—"

// BuildSalesRows joins tickets with their bookings, applies the free text query
// and returns the rows newest first.
func BuildSalesRows(tickets []models.Ticket, bookings map[string]models.Booking, query string, cash *regexp.Regexp, now time.Time) []SalesRow {
	q := strings.ToLower(strings.TrimSpace(query))
	rows := make([]SalesRow, 0, len(tickets))

	for i := range tickets {
		t := &tickets[i]
		b, hasBooking := bookings[t.BookingID]

		created := t.CreatedAt
		if hasBooking && !b.CreatedAt.IsZero() {
			created = b.CreatedAt
		}

		row := SalesRow{
			ID:             t.ID,
			FullTicketID:   t.Code,
			TicketName:     t.Name,
			DateOfPurchase: created,
			Price:          t.Price(),
			PaymentMethod:  missing,
			CustomerName:   missing,
			CustomerEmail:  missing,
			CustomerPhone:  missing,
			Status:         t.Status,
			IsNew:          now.Sub(created) < newTicketWindow,
			LastAction:     t.LastAction(),
			BookingID:      t.BookingID,
		}
		if row.Status == "" {
			row.Status = models.TicketValid
		}
		if t.CollectedAmount != nil {
			row.CollectedAmount = *t.CollectedAmount
		}
		if hasBooking {
			row.PaymentMethod = orMissing(b.PaymentMethod)
			row.IsCash = b.IsCash(cash)
			row.CustomerName = orMissing(b.CustomerName)
			row.CustomerEmail = orMissing(b.CustomerEmail)
			row.CustomerPhone = orMissing(b.CustomerPhone)
			if row.FullTicketID == "" {
				row.FullTicketID = b.ShortBookingID + "-" + t.ID
			}
		}

		if q != "" && !matches(row, q) {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].DateOfPurchase.After(rows[b].DateOfPurchase)
	})
	return rows
}

func matches(r SalesRow, q string) bool {
	return strings.Contains(strings.ToLower(r.FullTicketID), q) ||
		strings.Contains(strings.ToLower(r.TicketName), q) ||
		strings.Contains(strings.ToLower(r.CustomerName), q)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func Metrics(rows []SalesRow) SalesMetrics {
	m := SalesMetrics{TotalTickets: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case models.TicketUsed:
			m.UsedCount++
			m.UsedAmount = m.UsedAmount.Add(r.Amount())
		case models.TicketValid:
			m.ActiveCount++
		case models.TicketCancelled:
			m.CancelledCount++
		}
	}
	return m
}

// Analytics computes the used-only sales series and click statistics.
// activityTitles resolves click activity ids to display titles.
func Analytics(rows []SalesRow, bookings map[string]models.Booking, clicks []models.ClickLog, activityTitles map[string]string, loc *time.Location, topN int) SalesAnalytics {
	var used []Record
	bookingSet := make(map[string]struct{})
	a := SalesAnalytics{}

	for _, r := range rows {
		b, ok := bookings[r.BookingID]
		if !ok {
			continue
		}
		bookingSet[b.ID] = struct{}{}
		if r.Status != models.TicketUsed {
			continue
		}
		label := r.TicketName
		if label == "" {
			label = missing
		}
		used = append(used, Record{At: b.CreatedAt, Label: label, Revenue: r.Price})
		a.TotalUsedTickets++
		a.RevenueUsed = a.RevenueUsed.Add(r.Amount())
	}

	a.SalesSeries = Group(used, Daily, loc)
	a.TopTickets = TopByCount(used, topN)
	a.TotalBookings = len(bookingSet)

	clickRecords := make([]Record, 0, len(clicks))
	for _, c := range clicks {
		title := activityTitles[c.ActivityID]
		if title == "" {
			title = c.ActivityID
		}
		clickRecords = append(clickRecords, Record{At: c.ClickedAt, Label: title})
	}
	a.ClickSeries = countSeries(Group(clickRecords, Daily, loc))
	a.TopClicks = TopByCount(clickRecords, topN)
	a.TotalClicks = len(clicks)

	return a
}

func countSeries(buckets []Bucket) []CountPoint {
	points := make([]CountPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, CountPoint{Key: b.Key, Count: b.Count})
	}
	return points
}
