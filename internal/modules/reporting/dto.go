package reporting

type GrowthPoint struct {
	Period string `json:"period"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Users  int64  `json:"users"`
}

type ServicesAnalytics struct {
	TotalServices       int64   `json:"totalServices"`
	CompletedServices   int64   `json:"completedServices"`
	PendingServices     int64   `json:"pendingServices"`
	CancelledServices   int64   `json:"cancelledServices"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageServiceValue float64 `json:"averageServiceValue"`
}

type FinancialPoint struct {
	Period        string  `json:"period"`
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	Revenue       float64 `json:"revenue"`
	ServicesCount int64   `json:"services_count"`
}

type Dashboard struct {
	TotalUsers           int64   `json:"totalUsers"`
	TotalProfessionals   int64   `json:"totalProfessionals"`
	TotalClients         int64   `json:"totalClients"`
	TotalServices        int64   `json:"totalServices"`
	ActiveServices       int64   `json:"activeServices"`
	CompletedServices    int64   `json:"completedServices"`
	PendingVerifications int64   `json:"pendingVerifications"`
	TotalReports         int64   `json:"totalReports"`
	TotalRevenue         float64 `json:"totalRevenue"`
	NewUsersMonth        int64   `json:"newUsersMonth"`
	ServicesMonth        int64   `json:"servicesMonth"`
}
