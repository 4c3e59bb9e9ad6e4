package aggregate

import (
	"regexp"
	"testing"
	"time"

	"partner-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cashPattern = regexp.MustCompile("(?i)cash")

func salesFixture() ([]models.Ticket, map[string]models.Booking) {
	collected := dec("12.5")
	activated := at("2024-01-02T11:00:00Z")
	tickets := []models.Ticket{
		{ID: "t1", Code: "BK1-T1", BookingID: "b1", Name: "Adult", TotalPrice: dec("15"), Status: models.TicketUsed,
			ActivatedBy: "Sara — gate 2", ActivatedAt: &activated, CollectedAmount: &collected, CreatedAt: at("2024-01-01T09:00:00Z")},
		{ID: "t2", Code: "BK2-T2", BookingID: "b2", Name: "Child", TotalPrice: dec("15"), Status: models.TicketUsed,
			CreatedAt: at("2024-01-01T10:00:00Z")},
		{ID: "t3", Code: "BK2-T3", BookingID: "b2", Name: "Adult", UnitPrice: dec("30"), Status: models.TicketValid,
			CreatedAt: at("2024-01-02T10:00:00Z")},
		{ID: "t4", BookingID: "b3", Name: "Adult", TotalPrice: dec("20"), Status: models.TicketCancelled,
			CreatedAt: at("2024-01-03T10:00:00Z")},
	}
	bookings := map[string]models.Booking{
		"b1": {ID: "b1", ShortBookingID: "BK1", PaymentMethod: "Cash on arrival", CustomerName: "Omar", CreatedAt: at("2024-01-01T09:00:00Z")},
		"b2": {ID: "b2", ShortBookingID: "BK2", PaymentMethod: "card", CustomerName: "Lina", CustomerEmail: "lina@example.com", CreatedAt: at("2024-01-01T10:00:00Z")},
		"b3": {ID: "b3", ShortBookingID: "BK3", CreatedAt: at("2024-01-03T10:00:00Z")},
	}
	return tickets, bookings
}

func TestBuildSalesRows(t *testing.T) {
	tickets, bookings := salesFixture()
	now := at("2024-01-03T12:00:00Z")

	rows := BuildSalesRows(tickets, bookings, "", cashPattern, now)

	require.Len(t, rows, 4)
	assert.Equal(t, "t4", rows[0].ID)
	assert.Equal(t, "BK3-t4", rows[0].FullTicketID)
	assert.Equal(t, "—", rows[0].PaymentMethod)
	assert.Equal(t, "—", rows[0].CustomerName)
	assert.True(t, rows[0].IsNew)

	cash := rows[3]
	assert.Equal(t, "t1", cash.ID)
	assert.True(t, cash.IsCash)
	assert.False(t, cash.IsNew)
	assert.True(t, dec("12.5").Equal(cash.Amount()))
	require.NotNil(t, cash.LastAction)
	assert.Equal(t, "Sara", cash.LastAction.ActorName)
	assert.Equal(t, "gate 2", cash.LastAction.Note)

	assert.Equal(t, "t3", rows[2].ID)
	assert.True(t, dec("30").Equal(rows[2].Price), "unit price used when total is unset")
}

func TestBuildSalesRows_Query(t *testing.T) {
	tickets, bookings := salesFixture()
	now := at("2024-01-03T12:00:00Z")

	byCustomer := BuildSalesRows(tickets, bookings, "  LINA ", cashPattern, now)
	require.Len(t, byCustomer, 2)
	assert.Equal(t, "t2", byCustomer[0].ID)
	assert.Equal(t, "t3", byCustomer[1].ID)

	byCode := BuildSalesRows(tickets, bookings, "bk1", cashPattern, now)
	require.Len(t, byCode, 1)
	assert.Equal(t, "t1", byCode[0].ID)

	assert.Empty(t, BuildSalesRows(tickets, bookings, "nobody", cashPattern, now))
}

func TestMetrics(t *testing.T) {
	tickets, bookings := salesFixture()
	rows := BuildSalesRows(tickets, bookings, "", cashPattern, at("2024-01-03T12:00:00Z"))

	m := Metrics(rows)

	assert.Equal(t, 4, m.TotalTickets)
	assert.Equal(t, 2, m.UsedCount)
	assert.True(t, dec("27.5").Equal(m.UsedAmount), "cash row counts the collected amount, got %s", m.UsedAmount)
	assert.Equal(t, 1, m.ActiveCount)
	assert.Equal(t, 1, m.CancelledCount)
}

func TestAnalytics(t *testing.T) {
	tickets, bookings := salesFixture()
	rows := BuildSalesRows(tickets, bookings, "", cashPattern, at("2024-01-03T12:00:00Z"))
	clicks := []models.ClickLog{
		{ActivityID: "a1", ClickedAt: at("2024-01-01T08:00:00Z")},
		{ActivityID: "a2", ClickedAt: at("2024-01-01T09:00:00Z")},
		{ActivityID: "a1", ClickedAt: at("2024-01-02T08:00:00Z")},
	}
	titles := map[string]string{"a1": "Desert Safari"}

	a := Analytics(rows, bookings, clicks, titles, time.UTC, 5)

	require.Len(t, a.SalesSeries, 1)
	assert.Equal(t, "2024-01-01", a.SalesSeries[0].Key)
	assert.Equal(t, 2, a.SalesSeries[0].Count)
	assert.True(t, dec("30").Equal(a.SalesSeries[0].Revenue))
	assert.Equal(t, 2, a.TotalUsedTickets)
	assert.Equal(t, 3, a.TotalBookings)
	assert.True(t, dec("27.5").Equal(a.RevenueUsed))
	require.Len(t, a.TopTickets, 2)
	assert.Equal(t, "Child", a.TopTickets[0].Label)
	assert.Equal(t, "Adult", a.TopTickets[1].Label)

	assert.Equal(t, []CountPoint{{Key: "2024-01-01", Count: 2}, {Key: "2024-01-02", Count: 1}}, a.ClickSeries)
	require.Len(t, a.TopClicks, 2)
	assert.Equal(t, "Desert Safari", a.TopClicks[0].Label)
	assert.Equal(t, 2, a.TopClicks[0].Count)
	assert.Equal(t, "a2", a.TopClicks[1].Label)
	assert.Equal(t, 3, a.TotalClicks)
}

func TestAnalytics_Empty(t *testing.T) {
	a := Analytics(nil, nil, nil, nil, time.UTC, 5)

	assert.NotNil(t, a.SalesSeries)
	assert.Empty(t, a.SalesSeries)
	assert.Empty(t, a.ClickSeries)
	assert.Zero(t, a.TotalBookings)
	assert.True(t, a.RevenueUsed.IsZero())
}
