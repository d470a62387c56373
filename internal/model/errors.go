package model

import "errors"

var (
	// ErrInsufficientData means the series is shorter than the long window.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDivisionByZero means a period return was requested against a zero prior close.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDegenerateRange means first and last timestamps fall on the same calendar day.
	ErrDegenerateRange = errors.New("degenerate date range")
	// ErrNonFiniteResult means a metric overflowed to Inf or NaN.
	ErrNonFiniteResult = errors.New("non-finite result")
	// ErrNonPositivePrice means a data source delivered a close <= 0.
	ErrNonPositivePrice = errors.New("non-positive close price")

	ErrInvalidWindow   = errors.New("window must be positive")
	ErrMisaligned      = errors.New("sequences are not aligned")
	ErrUnorderedSeries = errors.New("timestamps must be strictly increasing")
	ErrInvalidParams   = errors.New("invalid params")
)
