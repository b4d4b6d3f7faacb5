package model

// AppUsageSummary aggregates all sessions of one application for a period.
// It is recomputed on every query and never persisted.
type AppUsageSummary struct {
	AppName      string `json:"appName"`
	ExePath      string `json:"exePath"`
	TotalSeconds int64  `json:"totalSeconds"`
	SessionCount int64  `json:"sessionCount"`
}

// DailyStats holds per-day rollups used for trend views. Date is a local
// calendar day formatted as 2006-01-02.
type DailyStats struct {
	Date         string `json:"date"`
	TotalSeconds int64  `json:"totalSeconds"`
	AppCount     int64  `json:"appCount"`
}

// WeeklyTrend is the convenience rollup over the trailing seven days.
type WeeklyTrend struct {
	DailyStats     []DailyStats `json:"dailyStats"`
	TotalSeconds   int64        `json:"totalSeconds"`
	AverageSeconds int64        `json:"averageSeconds"`
	MostActiveDay  string       `json:"mostActiveDay,omitempty"`
}
