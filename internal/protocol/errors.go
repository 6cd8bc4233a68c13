package protocol

import "errors"

var (
	ErrMalformedLine = errors.New("malformed protocol line")
	ErrTruncated     = errors.New("input ended in the middle of a turn")
)
