package service

import (
	"errors"
	"fmt"
)

// MaxBulkRequests caps the number of items accepted by a single bulk
// generation call.
const MaxBulkRequests = 10

// Service-level errors. Persistence and generation failures are propagated
// as the sentinels of their originating packages (store, generation, domain).
var (
	// ErrNoRequests indicates a bulk call carried an empty request list.
	ErrNoRequests = errors.New("bulk generation requires at least one request")

	// ErrBulkSizeExceeded indicates a bulk call carried more requests than
	// MaxBulkRequests allows.
	ErrBulkSizeExceeded = fmt.Errorf("bulk generation accepts at most %d requests", MaxBulkRequests)
)
