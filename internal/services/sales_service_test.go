package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"partner-portal/internal/aggregate"
	"partner-portal/internal/store"
	"partner-portal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type salesFixture struct {
	service    *SalesService
	tickets    *mockTicketStore
	bookings   *mockBookingStore
	clicks     *mockClickStore
	activities *mockActivityStore
}

func setupTestSalesService() salesFixture {
	f := salesFixture{
		tickets:    &mockTicketStore{},
		bookings:   &mockBookingStore{},
		clicks:     &mockClickStore{},
		activities: &mockActivityStore{},
	}
	f.service = NewSalesService(f.tickets, f.bookings, f.clicks, f.activities, regexp.MustCompile("(?i)cash"), time.UTC)
	f.service.now = func() time.Time { return testNow }
	return f
}

func salesBookings() []models.Booking {
	return []models.Booking{
		{ID: "b1", PartnerID: "p1", PaymentMethod: "cash", CustomerName: "Lina", CreatedAt: testNow.Add(-50 * time.Hour)},
		{ID: "b2", PartnerID: "p1", PaymentMethod: "card", CustomerName: "Omar", CreatedAt: testNow.Add(-2 * time.Hour)},
	}
}

func salesTickets() []models.Ticket {
	collected := decimal.NewFromInt(8)
	return []models.Ticket{
		{ID: "t1", Code: "A-1", PartnerID: "p1", BookingID: "b1", Name: "Adult", TotalPrice: decimal.NewFromInt(10),
			CommissionAmount: decimal.NewFromInt(1), Status: models.TicketUsed, CollectedAmount: &collected},
		{ID: "t2", Code: "A-2", PartnerID: "p1", BookingID: "b2", Name: "Child", TotalPrice: decimal.NewFromInt(5),
			CommissionAmount: decimal.RequireFromString("0.5"), Status: models.TicketValid},
	}
}

func TestSalesService_Sales(t *testing.T) {
	f := setupTestSalesService()
	r := store.Range{From: testNow.AddDate(0, 0, -7), To: testNow}

	f.bookings.On("ListByPartner", mock.Anything, "p1", r).Return(salesBookings(), nil)
	f.tickets.On("ListByBookings", mock.Anything, "p1", []string{"b1", "b2"}).Return(salesTickets(), nil)

	view, err := f.service.Sales(context.Background(), testSession, SalesQuery{Range: r})

	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "t2", view.Rows[0].ID, "newest booking first")
	assert.True(t, view.Rows[0].IsNew)
	assert.False(t, view.Rows[1].IsNew)
	assert.True(t, view.Rows[1].IsCash)
	assert.Equal(t, 2, view.Metrics.TotalTickets)
	assert.Equal(t, 1, view.Metrics.UsedCount)
	assert.Equal(t, "8", view.Metrics.UsedAmount.String())
	assert.Equal(t, 1, view.Metrics.ActiveCount)
}

func TestSalesService_Sales_Query(t *testing.T) {
	f := setupTestSalesService()
	f.bookings.On("ListByPartner", mock.Anything, "p1", store.Range{}).Return(salesBookings(), nil)
	f.tickets.On("ListByBookings", mock.Anything, "p1", []string{"b1", "b2"}).Return(salesTickets(), nil)

	view, err := f.service.Sales(context.Background(), testSession, SalesQuery{Query: "lina"})

	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "t1", view.Rows[0].ID)
}

func TestSalesService_Sales_StoreError(t *testing.T) {
	f := setupTestSalesService()
	f.bookings.On("ListByPartner", mock.Anything, "p1", store.Range{}).Return(nil, errors.New("db closed"))

	_, err := f.service.Sales(context.Background(), testSession, SalesQuery{})

	assert.Error(t, err)
	f.tickets.AssertNotCalled(t, "ListByBookings", mock.Anything, mock.Anything, mock.Anything)
}

func TestSalesService_Analytics(t *testing.T) {
	f := setupTestSalesService()
	r := store.Range{}

	f.bookings.On("ListByPartner", mock.Anything, "p1", r).Return(salesBookings(), nil)
	f.tickets.On("ListByBookings", mock.Anything, "p1", []string{"b1", "b2"}).Return(salesTickets(), nil)
	f.clicks.On("ListByPartner", mock.Anything, "p1", r).Return([]models.ClickLog{
		{ID: "c1", ActivityID: "a1", ClickedAt: testNow.Add(-time.Hour)},
		{ID: "c2", ActivityID: "a1", ClickedAt: testNow.Add(-30 * time.Hour)},
	}, nil)
	f.activities.On("ListByPartner", mock.Anything, "p1").Return([]models.Activity{{ID: "a1", Title: "Desert Safari"}}, nil)

	view, err := f.service.Analytics(context.Background(), testSession, AnalyticsQuery{Period: aggregate.Daily})

	require.NoError(t, err)
	require.Len(t, view.Report.Buckets, 2)
	assert.Equal(t, "2024-03-08", view.Report.Buckets[0].Key)
	assert.Equal(t, "2024-03-10", view.Report.Buckets[1].Key)
	assert.Equal(t, 2, view.Report.Totals.Count)
	assert.Equal(t, "15", view.Report.Totals.Revenue.String())
	assert.Equal(t, "1.5", view.Report.Totals.Commission.String())
	require.Len(t, view.Report.Top, 1, "tickets without a known activity share one entry")
	assert.Equal(t, "Unknown", view.Report.Top[0].Label)

	assert.Equal(t, 1, view.Insights.TotalUsedTickets)
	assert.Equal(t, 2, view.Insights.TotalBookings)
	assert.Equal(t, 2, view.Insights.TotalClicks)
	require.Len(t, view.Insights.TopClicks, 1)
	assert.Equal(t, "Desert Safari", view.Insights.TopClicks[0].Label)
}

func TestSalesService_Analytics_TopRanksActivities(t *testing.T) {
	f := setupTestSalesService()
	r := store.Range{}

	tickets := salesTickets()
	tickets[0].ActivityID = "a1"
	tickets[1].ActivityID = "a1"
	tickets = append(tickets, models.Ticket{
		ID: "t3", Code: "A-3", PartnerID: "p1", BookingID: "b2", ActivityID: "a2", Name: "Adult",
		TotalPrice: decimal.NewFromInt(12), Status: models.TicketValid,
	})

	f.bookings.On("ListByPartner", mock.Anything, "p1", r).Return(salesBookings(), nil)
	f.tickets.On("ListByBookings", mock.Anything, "p1", []string{"b1", "b2"}).Return(tickets, nil)
	f.clicks.On("ListByPartner", mock.Anything, "p1", r).Return([]models.ClickLog{}, nil)
	f.activities.On("ListByPartner", mock.Anything, "p1").Return([]models.Activity{
		{ID: "a1", Title: "Desert Safari"},
		{ID: "a2", Title: "Petra by Night"},
	}, nil)

	view, err := f.service.Analytics(context.Background(), testSession, AnalyticsQuery{Period: aggregate.Daily})

	require.NoError(t, err)
	require.Len(t, view.Report.Top, 2)
	assert.Equal(t, "Desert Safari", view.Report.Top[0].Label)
	assert.Equal(t, 2, view.Report.Top[0].Count)
	assert.Equal(t, "15", view.Report.Top[0].Revenue.String())
	assert.Equal(t, "Petra by Night", view.Report.Top[1].Label)
	assert.Equal(t, 1, view.Report.Top[1].Count)
}

func TestSalesService_Summary(t *testing.T) {
	f := setupTestSalesService()
	r := store.Range{From: testNow.AddDate(0, 0, -7)}

	f.tickets.On("ListByPartner", mock.Anything, "p1", r).Return(salesTickets(), nil)
	f.clicks.On("ListByPartner", mock.Anything, "p1", r).Return([]models.ClickLog{}, nil)
	f.activities.On("ListByPartner", mock.Anything, "p1").Return([]models.Activity{}, nil)

	summary, err := f.service.Summary(context.Background(), testSession, 7)

	require.NoError(t, err)
	assert.Equal(t, 7, summary.Days)
	assert.Equal(t, 2, summary.TotalTickets)
	assert.Equal(t, "15", summary.TotalRevenue.String())
	assert.Len(t, summary.DailyStats, 7)
	assert.Len(t, summary.WeeklyStats, 4)
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, DefaultSummaryDays, ClampDays(0))
	assert.Equal(t, DefaultSummaryDays, ClampDays(-3))
	assert.Equal(t, 7, ClampDays(7))
	assert.Equal(t, MaxSummaryDays, ClampDays(10000))
}
