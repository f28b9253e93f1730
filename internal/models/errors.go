package models

import "errors"

var (
	// ErrInvalidAggregateData marks a count or statistic that breaks the shape
	// the dashboard expects (negative, non-numeric, duplicated label).
	ErrInvalidAggregateData = errors.New("invalid aggregate data")

	// ErrEmptyDataset marks a chart asked to render zero categories or a zero total.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInvalidConfig marks a threshold or option outside its allowed range.
	ErrInvalidConfig = errors.New("invalid config")
)
