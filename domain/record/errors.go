package record

import "errors"

var (
	ErrNotFound     = errors.New("record: not found")
	ErrFilterNotFound = errors.New("record: filter not found")
)
