package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrEmptyResponse = errors.New("empty response")
	ErrMalformed     = errors.New("malformed response")
)

// StatusError is a non-200 answer from an engine's HTTP API.
type StatusError struct {
	Engine string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Engine, e.Code, e.Body)
}

type Kind int

const (
	KindOther Kind = iota
	KindTimeout
	KindUpstream
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed"
	}
	return "other"
}

// Classify maps an engine error to the fallback class shown to the child.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	var se *StatusError
	if errors.As(err, &se) {
		return KindUpstream
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrMalformed) {
		return KindMalformed
	}
	return KindOther
}
