package models

// CategoryCount is one row of the dashboard category breakdown.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}

// DayCount is the number of products created on one calendar day.
type DayCount struct {
	Date  string `json:"date"`  // YYYY-MM-DD
	Label string `json:"label"` // e.g. "02 Jan"
	Count int    `json:"count"`
}

// DashboardStats holds every aggregate rendered on the admin dashboard.
type DashboardStats struct {
	Total      int             `json:"total"`
	Categories int             `json:"categories"`
	Latest     string          `json:"latest"`
	Breakdown  []CategoryCount `json:"breakdown"`
	Activity   []DayCount      `json:"activity"`
}
