// Package report renders partner views as CSV downloads.
//
// Files start with a UTF-8 byte order mark so spreadsheet tools pick up
// Arabic names correctly, and use \n line endings.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"partner-portal/internal/aggregate"
	"partner-portal/models"
)

const bom = "\ufeff"

const purchaseLayout = "2006-01-02 15:04"

var (
	SalesHeader     = []string{"Ticket ID", "Ticket Name", "Date of Purchase", "Ticket Price", "Payment Method", "Customer Name", "Ticket Status"}
	AnalyticsHeader = []string{"Date", "Tickets Sold", "Revenue (JOD)", "Commission (JOD)"}
	SummaryHeader   = []string{"Metric", "Value", "Period"}
	PaymentsHeader  = []string{"Date", "Amount", "Type", "Status", "Reference", "Notes"}
)

func write(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("cw.WriteAll(): %w", err)
	}
	return nil
}

func WriteSales(w io.Writer, rows []aggregate.SalesRow, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.FullTicketID,
			r.TicketName,
			r.DateOfPurchase.In(loc).Format(purchaseLayout),
			r.Price.StringFixed(2),
			r.PaymentMethod,
			r.CustomerName,
			r.Status.Label(),
		})
	}
	return write(w, SalesHeader, out)
}

func WriteAnalytics(w io.Writer, buckets []aggregate.Bucket) error {
	out := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, []string{
			b.Key,
			strconv.Itoa(b.Count),
			b.Revenue.StringFixed(2),
			b.Commission.StringFixed(2),
		})
	}
	return write(w, AnalyticsHeader, out)
}

func WriteSummary(w io.Writer, s aggregate.Summary) error {
	window := fmt.Sprintf("%d days", s.Days)
	out := [][]string{
		{"Total Tickets", strconv.Itoa(s.TotalTickets), window},
		{"Total Revenue", s.TotalRevenue.StringFixed(2) + " JOD", window},
		{"Total Clicks", strconv.Itoa(s.TotalClicks), window},
		{"Active Tickets", strconv.Itoa(s.ActiveTickets), "Current"},
		{"Used Tickets", strconv.Itoa(s.UsedTickets), "Current"},
		{"Expired Tickets", strconv.Itoa(s.ExpiredTickets), "Current"},
		{"Monthly Revenue", s.MonthlyRevenue.StringFixed(2) + " JOD", "Last 30 days"},
		{"Monthly Tickets", strconv.Itoa(s.MonthlyTickets), "Last 30 days"},
		{"Monthly Clicks", strconv.Itoa(s.MonthlyClicks), "Last 30 days"},
	}
	return write(w, SummaryHeader, out)
}

func WritePayments(w io.Writer, payments []models.Payment, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	out := make([][]string, 0, len(payments))
	for _, p := range payments {
		out = append(out, []string{
			p.CreatedAt.In(loc).Format(time.DateOnly),
			p.Amount.StringFixed(2),
			string(p.PaymentType),
			string(p.Status),
			p.Reference,
			p.Notes,
		})
	}
	return write(w, PaymentsHeader, out)
}

// Filename builds the download name, e.g. Sales_2024-01-01_to_2024-01-31.csv.
func Filename(kind string, from, to time.Time) string {
	return fmt.Sprintf("%s_%s_to_%s.csv", kind, from.Format(time.DateOnly), to.Format(time.DateOnly))
}
