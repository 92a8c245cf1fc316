package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidConcurrency = fmt.Errorf("concurrency limit must be at least 1")
	ErrNoHeader           = fmt.Errorf("input CSV has no header row")
	ErrMissingColumns     = fmt.Errorf("missing columns in input CSV")
	ErrNotTextFile        = fmt.Errorf("input file is not a text file")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrOnlyCensoredFiles  = fmt.Errorf("censored directory contains directories")
	ErrInvalidPassword    = fmt.Errorf("invalid operator password")
	ErrNoRunYet           = fmt.Errorf("no pipeline has been executed yet")
)
