package generation

import (
	"context"

	"github.com/velvetlab/velvet-api/internal/domain"
)

// BulkResult is the per-item outcome of a bulk generation call. Results keep
// their input index so callers can reconcile which requests succeeded; a
// non-nil Err means the item produced no content and must not be charged.
type BulkResult struct {
	Index   int
	Content *domain.GeneratedContent
	Err     error
}

// ContentGenerator translates structured generation requests into calls to
// an upstream text-generation service and parses the responses back into
// structured results.
type ContentGenerator interface {
	// Generate produces content for a single request. The request must be
	// normalized (defaults applied) before the call. Returns an error
	// wrapping ErrGenerationFailed when the upstream call fails at the
	// transport or API level.
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedContent, error)

	// GenerateBulk produces content for several requests, processing them in
	// fixed-size chunks with the requests inside one chunk issued
	// concurrently. It returns one BulkResult per input, in input order.
	// The returned error is non-nil only for whole-call failures such as
	// context cancellation; per-item failures are reported in the results.
	GenerateBulk(ctx context.Context, reqs []domain.GenerationRequest) ([]BulkResult, error)
}
