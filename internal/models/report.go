package models

// ProblemItem is one row of a report's ranked problem list. Score weights
// OUT occurrences double LOW occurrences.
type ProblemItem struct {
	ItemID  string   `json:"item_id"`
	Name    string   `json:"name"`
	Out     int      `json:"out"`
	Low     int      `json:"low"`
	OK      int      `json:"ok"`
	LastQty *float64 `json:"last_qty"`
	Unit    string   `json:"unit"`
	Score   int      `json:"score"`
}

type ReportSummary struct {
	TotalSubmissions int           `json:"total_submissions"`
	TotalOut         int           `json:"total_out"`
	TotalLow         int           `json:"total_low"`
	TopProblems      []ProblemItem `json:"top_problems"`
}

// UnreadCounts is the admin inbox badge: unread stock submissions plus unread
// temperature days.
type UnreadCounts struct {
	Stock    int `json:"stock"`
	Temp     int `json:"temp"`
	Combined int `json:"combined"`
}

type NeedsReviewCounts struct {
	Stock    int `json:"stock"`
	Temp     int `json:"temp"`
	Combined int `json:"combined"`
}

// InboxEntry is one merged row of the admin unread inbox.
type InboxEntry struct {
	Type          string `json:"type"` // "stock" or "temp"
	Date          string `json:"date"`
	By            string `json:"by"`
	NeedsReview   bool   `json:"needs_review"`
	HasOutOfRange bool   `json:"has_out_of_range"`
	Badge         string `json:"badge"`
}

// AlertRow is a normalized dashboard row for one equipment reading.
type AlertRow struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Temp    *float64 `json:"temp"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	InRange bool     `json:"in_range"`
}

// LowOutRow is a dashboard row for an item currently low or out of stock.
type LowOutRow struct {
	ItemID        string  `json:"item_id"`
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
	CategoryOrder int     `json:"category_order"`
}
