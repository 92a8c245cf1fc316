package domain

// UserAggregate is the per-user rollup of successful outcomes.
// AvgScore is derived from SumScore/TotalMessages once folding is complete;
// no aggregate exists for a user without at least one success.
type UserAggregate struct {
	UserID        string  `json:"user_id"`
	TotalMessages int     `json:"total_messages"`
	SumScore      float64 `json:"sum_score"`
	AvgScore      float64 `json:"avg_score"`
}
