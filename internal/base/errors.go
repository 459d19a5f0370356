package base

import (
	"errors"
	"fmt"
)

// ErrInvalidDomain is returned when an array domain cannot be allocated.
var ErrInvalidDomain = errors.New("base: invalid array domain")

// DomainError describes why a domain was rejected.
type DomainError struct {
	Domain Range[IVec]
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("base: the domain %v is invalid: %s", e.Domain, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrInvalidDomain }
