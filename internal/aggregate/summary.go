package aggregate

import (
	"fmt"
	"sort"
	"time"

	"partner-portal/models"

	"github.com/shopspring/decimal"
)

const (
	recentLimit  = 10
	summaryWeeks = 4
	monthWindow  = 30 * 24 * time.Hour
)

type DayStat struct {
	Date    string          `json:"date"`
	Tickets int             `json:"tickets"`
	Revenue decimal.Decimal `json:"revenue"`
	Clicks  int             `json:"clicks"`
}

type WeekStat struct {
	Week    string          `json:"week"`
	Tickets int             `json:"tickets"`
	Revenue decimal.Decimal `json:"revenue"`
	Clicks  int             `json:"clicks"`
}

type ActivityClicks struct {
	ActivityID string `json:"activity_id"`
	Title      string `json:"title"`
	Clicks     int    `json:"clicks"`
}

type Summary struct {
	Days           int               `json:"days"`
	TotalTickets   int               `json:"total_tickets"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	TotalClicks    int               `json:"total_clicks"`
	ActiveTickets  int               `json:"active_tickets"`
	UsedTickets    int               `json:"used_tickets"`
	ExpiredTickets int               `json:"expired_tickets"`
	MonthlyRevenue decimal.Decimal   `json:"monthly_revenue"`
	MonthlyTickets int               `json:"monthly_tickets"`
	MonthlyClicks  int               `json:"monthly_clicks"`
	TopActivities  []ActivityClicks  `json:"top_activities"`
	RecentTickets  []models.Ticket   `json:"recent_tickets"`
	RecentClicks   []models.ClickLog `json:"recent_clicks"`
	DailyStats     []DayStat         `json:"daily_stats"`
	WeeklyStats    []WeekStat        `json:"weekly_stats"`
}

// Summarize builds the dashboard summary for tickets and clicks already limited to the last days.
func Summarize(tickets []models.Ticket, clicks []models.ClickLog, activities []models.Activity, now time.Time, days int, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	s := Summary{Days: days, TotalTickets: len(tickets), TotalClicks: len(clicks)}
	monthStart := now.Add(-monthWindow)

	for i := range tickets {
		t := &tickets[i]
		s.TotalRevenue = s.TotalRevenue.Add(t.Price())
		switch t.Status {
		case models.TicketValid:
			s.ActiveTickets++
		case models.TicketUsed:
			s.UsedTickets++
		case models.TicketExpired:
			s.ExpiredTickets++
		}
		if !t.CreatedAt.Before(monthStart) {
			s.MonthlyTickets++
			s.MonthlyRevenue = s.MonthlyRevenue.Add(t.Price())
		}
	}

	clickCounts := make(map[string]int)
	for _, c := range clicks {
		if !c.ClickedAt.Before(monthStart) {
			s.MonthlyClicks++
		}
		if c.ActivityID != "" {
			clickCounts[c.ActivityID]++
		}
	}

	s.TopActivities = topActivities(activities, clickCounts, 5)
	s.RecentTickets = recentTickets(tickets)
	s.RecentClicks = recentClicks(clicks)
	s.DailyStats = DenseDaily(tickets, clicks, now, days, loc)
	s.WeeklyStats = WeeklyWindows(tickets, clicks, now)

	return s
}

func topActivities(activities []models.Activity, counts map[string]int, n int) []ActivityClicks {
	out := make([]ActivityClicks, 0, len(activities))
	for _, a := range activities {
		out = append(out, ActivityClicks{ActivityID: a.ID, Title: a.Title, Clicks: counts[a.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Clicks > out[j].Clicks })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func recentTickets(tickets []models.Ticket) []models.Ticket {
	out := append([]models.Ticket(nil), tickets...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > recentLimit {
		out = out[:recentLimit]
	}
	return out
}

func recentClicks(clicks []models.ClickLog) []models.ClickLog {
	out := append([]models.ClickLog(nil), clicks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClickedAt.After(out[j].ClickedAt) })
	if len(out) > recentLimit {
		out = out[:recentLimit]
	}
	return out
}

// DenseDaily returns one entry per calendar day for the last days days, oldest first,
// including days without activity.
func DenseDaily(tickets []models.Ticket, clicks []models.ClickLog, now time.Time, days int, loc *time.Location) []DayStat {
	if days <= 0 {
		return []DayStat{}
	}
	stats := make([]DayStat, days)
	index := make(map[string]int, days)
	today := now.In(loc)
	for i := 0; i < days; i++ {
		key := today.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02")
		stats[i].Date = key
		index[key] = i
	}

	for i := range tickets {
		if j, ok := index[BucketKey(tickets[i].CreatedAt, Daily, loc)]; ok {
			stats[j].Tickets++
			stats[j].Revenue = stats[j].Revenue.Add(tickets[i].Price())
		}
	}
	for _, c := range clicks {
		if j, ok := index[BucketKey(c.ClickedAt, Daily, loc)]; ok {
			stats[j].Clicks++
		}
	}
	return stats
}

// WeeklyWindows splits the last four weeks into rolling seven day windows ending at now, oldest first.
func WeeklyWindows(tickets []models.Ticket, clicks []models.ClickLog, now time.Time) []WeekStat {
	stats := make([]WeekStat, summaryWeeks)
	week := 7 * 24 * time.Hour
	for i := 0; i < summaryWeeks; i++ {
		end := now.Add(-time.Duration(summaryWeeks-1-i) * week)
		start := end.Add(-week)
		stats[i].Week = fmt.Sprintf("Week %d", i+1)

		for j := range tickets {
			if inWindow(tickets[j].CreatedAt, start, end) {
				stats[i].Tickets++
				stats[i].Revenue = stats[i].Revenue.Add(tickets[j].Price())
			}
		}
		for _, c := range clicks {
			if inWindow(c.ClickedAt, start, end) {
				stats[i].Clicks++
			}
		}
	}
	return stats
}

func inWindow(t, start, end time.Time) bool {
	return t.After(start) && !t.After(end)
}
