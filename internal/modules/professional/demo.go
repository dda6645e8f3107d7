package professional

import (
	"time"

	"txunajob/internal/domain"
)

// Sample payloads for DEMO_MODE. The handler serves them only while the
// store is unreachable.

func DemoStats() Stats {
	return Stats{ActiveServices: 8, AverageRating: 4.8, MonthlyClients: 12, UnreadMessages: 3}
}

func DemoServices(now time.Time) []ServiceItem {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 9, 0, 0, 0, time.UTC)
	return []ServiceItem{
		{ID: 1, Title: "Electrical installation - Silva house", Description: "Full installation in Maputo", ClientName: "Maria Silva", Date: now, Status: domain.ServiceInProgress, Price: 2500, Address: "Bairro Central, Maputo", Category: "Electrician"},
		{ID: 2, Title: "Electrical maintenance - ABC Ltd", Description: "Preventive maintenance", ClientName: "João Carlos", Date: tomorrow, Status: domain.ServicePending, Price: 1800, Address: "Zona Industrial, Maputo", Category: "Electrician"},
	}
}

func DemoSchedule(now time.Time) []ScheduleItem {
	return []ScheduleItem{
		{ID: 1, Title: "Electrical installation", ClientName: "Silva house", Date: time.Date(now.Year(), now.Month(), now.Day(), 14, 0, 0, 0, time.UTC), Description: "Full installation"},
		{ID: 2, Title: "Electrical maintenance", ClientName: "ABC Ltd", Date: time.Date(now.Year(), now.Month(), now.Day()+1, 9, 0, 0, 0, time.UTC), Description: "Preventive maintenance"},
	}
}

func DemoReviews(now time.Time) []ReviewItem {
	return []ReviewItem{
		{ID: 1, ClientName: "Maria Santos", Rating: 5, Comment: "Excellent work, very competent and polite.", Date: now.Add(-24 * time.Hour), ServiceTitle: "Residential wiring"},
		{ID: 2, ClientName: "João Carlos", Rating: 4, Comment: "Well done and on time.", Date: now.Add(-72 * time.Hour), ServiceTitle: "Preventive maintenance"},
	}
}
