package models

// Pagination carries listing metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// DashboardCounts summarises catalog volumes for the admin landing page.
type DashboardCounts struct {
	Programs int `json:"programs"`
	Rooms    int `json:"rooms"`
	Sessions int `json:"sessions"`
}
