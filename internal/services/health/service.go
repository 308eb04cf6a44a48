package health

import (
	"context"
	"time"
)

const checkTimeout = 2 * time.Second

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// Status is the /health payload.
type Status struct {
	OK    bool   `json:"ok"`
	Store string `json:"store,omitempty"`
	Error string `json:"error,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	store string
	check Checker
}

// NewService constructs a health service for the named document store. check may be nil.
func NewService(store string, check Checker) *Service {
	return &Service{store: store, check: check}
}

// Status pings the document store, if it has a checker.
func (s *Service) Status(ctx context.Context) Status {
	if s == nil {
		return Status{OK: true}
	}
	st := Status{OK: true, Store: s.store}
	if s.check == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := s.check(ctx); err != nil {
		st.OK = false
		st.Error = "document store unreachable"
	}
	return st
}
