package dto

// DailyCheckinsResponse is shaped for Chart.js: one label per local date in
// ascending order, zero-filled.
type DailyCheckinsResponse struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type BreakdownEntry struct {
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type MonthlySummaryResponse struct {
	Month                 string                    `json:"month"`
	TotalCheckins         int64                     `json:"total_checkins"`
	ReasonBreakdown       map[string]BreakdownEntry `json:"reason_breakdown"`
	BusinessLineBreakdown map[string]BreakdownEntry `json:"business_line_breakdown"`
}
