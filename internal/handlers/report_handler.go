package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"partner-portal/internal/aggregate"
	"partner-portal/internal/report"
	"partner-portal/internal/services"
	"partner-portal/internal/store"
	"partner-portal/models"
	"partner-portal/monitoring"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type SalesReporter interface {
	Sales(ctx context.Context, session models.PartnerSession, q services.SalesQuery) (*services.SalesView, error)
	Analytics(ctx context.Context, session models.PartnerSession, q services.AnalyticsQuery) (*services.AnalyticsView, error)
	Summary(ctx context.Context, session models.PartnerSession, days int) (*aggregate.Summary, error)
	Location() *time.Location
}

type PaymentLister interface {
	List(ctx context.Context, session models.PartnerSession) ([]models.Payment, error)
}

type ReportHandler struct {
	sales    SalesReporter
	payments PaymentLister
	now      func() time.Time
}

func NewReportHandler(sales SalesReporter, payments PaymentLister) *ReportHandler {
	return &ReportHandler{sales: sales, payments: payments, now: time.Now}
}

func (h *ReportHandler) Sales(e *core.RequestEvent) error {
	session, q, err := h.salesQuery(e)
	if err != nil {
		return err
	}

	view, err := h.sales.Sales(e.Request.Context(), session, q)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, view)
}

func (h *ReportHandler) SalesExport(e *core.RequestEvent) error {
	session, q, err := h.salesQuery(e)
	if err != nil {
		return err
	}

	view, err := h.sales.Sales(e.Request.Context(), session, q)
	if err != nil {
		return apiError(e, err)
	}

	from, to := h.filenameRange(q.Range)
	attachCSV(e, report.Filename("Sales", from, to))
	if err := report.WriteSales(e.Response, view.Rows, h.sales.Location()); err != nil {
		return fmt.Errorf("report.WriteSales(): %w", err)
	}
	monitoring.TrackExport("sales")
	return nil
}

func (h *ReportHandler) Analytics(e *core.RequestEvent) error {
	session, q, err := h.analyticsQuery(e)
	if err != nil {
		return err
	}

	view, err := h.sales.Analytics(e.Request.Context(), session, q)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, view)
}

func (h *ReportHandler) AnalyticsExport(e *core.RequestEvent) error {
	session, q, err := h.analyticsQuery(e)
	if err != nil {
		return err
	}

	view, err := h.sales.Analytics(e.Request.Context(), session, q)
	if err != nil {
		return apiError(e, err)
	}

	from, to := h.filenameRange(q.Range)
	attachCSV(e, report.Filename("Analytics", from, to))
	if err := report.WriteAnalytics(e.Response, view.Report.Buckets); err != nil {
		return fmt.Errorf("report.WriteAnalytics(): %w", err)
	}
	monitoring.TrackExport("analytics")
	return nil
}

func (h *ReportHandler) Summary(e *core.RequestEvent) error {
	session, days, err := h.summaryQuery(e)
	if err != nil {
		return err
	}

	summary, err := h.sales.Summary(e.Request.Context(), session, days)
	if err != nil {
		return apiError(e, err)
	}
	return e.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) SummaryExport(e *core.RequestEvent) error {
	session, days, err := h.summaryQuery(e)
	if err != nil {
		return err
	}

	summary, err := h.sales.Summary(e.Request.Context(), session, days)
	if err != nil {
		return apiError(e, err)
	}

	now := h.now().In(h.sales.Location())
	attachCSV(e, report.Filename("Summary", now.AddDate(0, 0, -summary.Days), now))
	if err := report.WriteSummary(e.Response, *summary); err != nil {
		return fmt.Errorf("report.WriteSummary(): %w", err)
	}
	monitoring.TrackExport("summary")
	return nil
}

func (h *ReportHandler) PaymentsExport(e *core.RequestEvent) error {
	session, err := currentSession(e)
	if err != nil {
		return err
	}

	payments, err := h.payments.List(e.Request.Context(), session)
	if err != nil {
		return apiError(e, err)
	}

	now := h.now().In(h.sales.Location())
	from := now
	if len(payments) > 0 {
		from = payments[len(payments)-1].CreatedAt.In(h.sales.Location())
	}
	attachCSV(e, report.Filename("Payments", from, now))
	if err := report.WritePayments(e.Response, payments, h.sales.Location()); err != nil {
		return fmt.Errorf("report.WritePayments(): %w", err)
	}
	monitoring.TrackExport("payments")
	return nil
}

func (h *ReportHandler) salesQuery(e *core.RequestEvent) (models.PartnerSession, services.SalesQuery, error) {
	session, err := currentSession(e)
	if err != nil {
		return session, services.SalesQuery{}, err
	}

	r, err := parseRange(e, h.sales.Location())
	if err != nil {
		return session, services.SalesQuery{}, err
	}

	return session, services.SalesQuery{Range: r, Query: e.Request.URL.Query().Get("q")}, nil
}

func (h *ReportHandler) analyticsQuery(e *core.RequestEvent) (models.PartnerSession, services.AnalyticsQuery, error) {
	session, err := currentSession(e)
	if err != nil {
		return session, services.AnalyticsQuery{}, err
	}

	r, err := parseRange(e, h.sales.Location())
	if err != nil {
		return session, services.AnalyticsQuery{}, err
	}

	params := e.Request.URL.Query()
	q := services.AnalyticsQuery{
		Range:  r,
		Period: aggregate.ParsePeriod(params.Get("period")),
		Top:    services.DefaultTopN,
	}
	if raw := params.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 1 {
			return session, q, apis.NewBadRequestError("top must be a positive number", nil)
		}
		q.Top = top
	}
	return session, q, nil
}

func (h *ReportHandler) summaryQuery(e *core.RequestEvent) (models.PartnerSession, int, error) {
	session, err := currentSession(e)
	if err != nil {
		return session, 0, err
	}

	days := services.DefaultSummaryDays
	if raw := e.Request.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			return session, 0, apis.NewBadRequestError("days must be a number", nil)
		}
	}
	return session, services.ClampDays(days), nil
}

// filenameRange fills open ends of r with today's date for the download name.
func (h *ReportHandler) filenameRange(r store.Range) (time.Time, time.Time) {
	loc := h.sales.Location()
	from, to := r.From.In(loc), r.To.In(loc)
	today := h.now().In(loc)
	if r.To.IsZero() {
		to = today
	}
	if r.From.IsZero() {
		from = to
	}
	return from, to
}

// parseRange reads from/to as calendar dates in loc. to is inclusive.
func parseRange(e *core.RequestEvent, loc *time.Location) (store.Range, error) {
	params := e.Request.URL.Query()
	var r store.Range

	if raw := params.Get("from"); raw != "" {
		from, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			return r, apis.NewBadRequestError("from must be a date like 2006-01-02", nil)
		}
		r.From = from
	}
	if raw := params.Get("to"); raw != "" {
		to, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			return r, apis.NewBadRequestError("to must be a date like 2006-01-02", nil)
		}
		r.To = to.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, apis.NewBadRequestError("from must not be after to", nil)
	}
	return r, nil
}

func attachCSV(e *core.RequestEvent, filename string) {
	header := e.Response.Header()
	header.Set("Content-Type", "text/csv; charset=utf-8")
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	e.Response.WriteHeader(http.StatusOK)
}
