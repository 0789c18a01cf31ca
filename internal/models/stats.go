package models

type CardStats struct {
	TotalCards   int         `json:"total_cards"`
	CardsByBox   map[int]int `json:"cards_by_box"`
	CardsDue     int         `json:"cards_due"`
	TotalReviews int         `json:"total_reviews"`
	Successes    int         `json:"successes"`
	Graduated    int         `json:"graduated"`
	ReviewsToday int         `json:"reviews_today"`
}

// SuccessRate returns the percentage of successful reviews, rounded to one decimal.
func (s CardStats) SuccessRate() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(int(1000*float64(s.Successes)/float64(s.TotalReviews)+0.5)) / 10
}
