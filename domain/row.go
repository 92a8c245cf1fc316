package domain

// Row is one input record of the batch. It is immutable once parsed and owned
// by a single processor goroutine for the duration of its processing.
type Row struct {
	UserID  string
	Message string
}

// FailureReason classifies why a row could not be enriched.
// An empty reason on a RowOutcome means success.
type FailureReason string

const (
	ReasonNormalizationFailed FailureReason = "NORMALIZATION_FAILED"
	ReasonScoringFailed       FailureReason = "SCORING_FAILED"
	ReasonEmptyMessage        FailureReason = "EMPTY_MESSAGE"
	ReasonInvalidRow          FailureReason = "INVALID_ROW"
	ReasonCancelled           FailureReason = "CANCELLED"
)

// RowOutcome is the terminal result of processing one row. The scheduler
// collects outcomes in a slice index-correlated with the input rows.
type RowOutcome struct {
	UserID   string
	Score    float64
	Reason   FailureReason
	Attempts int
}

func Success(userID string, score float64, attempts int) RowOutcome {
	return RowOutcome{UserID: userID, Score: score, Attempts: attempts}
}

func Failure(userID string, reason FailureReason, attempts int) RowOutcome {
	return RowOutcome{UserID: userID, Reason: reason, Attempts: attempts}
}

// Failed reports whether the row ended in a failure of any kind.
func (o RowOutcome) Failed() bool {
	return o.Reason != ""
}
