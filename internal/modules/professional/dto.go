package professional

import (
	"time"

	"txunajob/internal/domain"
)

type ProfileView struct {
	FullName    string  `json:"full_name"`
	Specialty   string  `json:"specialty"`
	Experience  int     `json:"experience"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`
	IsVerified  bool    `json:"is_verified"`
}

type CurrentProfessional struct {
	ID                  int64       `json:"id"`
	Username            string      `json:"username"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone"`
	Location            string      `json:"location"`
	CreatedAt           time.Time   `json:"created_at"`
	ProfessionalProfile ProfileView `json:"professional_profile"`
}

type Stats struct {
	ActiveServices int64   `json:"activeServices"`
	AverageRating  float64 `json:"averageRating"`
	MonthlyClients int64   `json:"monthlyClients"`
	UnreadMessages int64   `json:"unreadMessages"`
}

type ServiceItem struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	ClientName  string               `json:"client_name"`
	Date        time.Time            `json:"date"`
	Status      domain.ServiceStatus `json:"status"`
	Price       float64              `json:"price"`
	Address     string               `json:"address"`
	Category    string               `json:"category"`
}

type ScheduleItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ClientName  string    `json:"client_name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type ReviewItem struct {
	ID           int64     `json:"id"`
	ClientName   string    `json:"client_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Date         time.Time `json:"date"`
	ServiceTitle string    `json:"service_title"`
}
