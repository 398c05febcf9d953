package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/velvetlab/velvet-api/internal/config"
	"github.com/velvetlab/velvet-api/internal/domain"
	"github.com/velvetlab/velvet-api/internal/generation"
)

// Generation parameters, fixed by design: callers steer output through the
// enumerated tone and length fields only.
const (
	generationTemperature = 0.8
	maxOutputTokens       = 2000
)

// Bulk processing parameters.
const (
	// bulkChunkSize is the number of requests issued concurrently before the
	// loop pauses and moves on to the next chunk.
	bulkChunkSize = 5

	// bulkChunkPause is the fixed delay between chunks, there to stay under
	// the upstream rate limit. It is not adaptive.
	bulkChunkPause = time.Second
)

// GeminiGenerator implements the generation.ContentGenerator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger *slog.Logger
	client *genai.Client
	model  string

	// pause is the inter-chunk delay; overridable in tests.
	pause time.Duration
}

// Ensure GeminiGenerator implements generation.ContentGenerator
var _ generation.ContentGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a GeminiGenerator from the LLM configuration.
// Returns generation.ErrInvalidConfig when the API key or model name is
// missing.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		client: client,
		model:  cfg.ModelName,
		pause:  bulkChunkPause,
	}, nil
}

// Generate implements generation.ContentGenerator.Generate
// The call requests a JSON-object response; a payload that fails to parse is
// treated as empty rather than as an error, favoring availability over
// strict validation.
func (g *GeminiGenerator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
) (*domain.GeneratedContent, error) {
	prompt := buildUserPrompt(req)

	g.logger.DebugContext(ctx, "calling Gemini",
		slog.String("type", string(req.Type)),
		slog.String("tone", string(req.Tone)),
		slog.String("length", string(req.Length)),
		slog.Int("prompt_length", len(prompt)))

	temperature := float32(generationTemperature)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       &temperature,
			MaxOutputTokens:   maxOutputTokens,
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.String("error", err.Error()),
			slog.String("type", string(req.Type)))
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if blocked(resp) {
		g.logger.WarnContext(ctx, "Gemini blocked the request",
			slog.String("type", string(req.Type)))
		return nil, generation.ErrContentBlocked
	}

	return g.parseContent(ctx, resp.Text()), nil
}

// blocked reports whether the response was stopped by safety filtering.
func blocked(resp *genai.GenerateContentResponse) bool {
	if resp == nil || len(resp.Candidates) == 0 {
		return false
	}
	return resp.Candidates[0].FinishReason == genai.FinishReasonSafety
}

// parseContent decodes the model's JSON payload. Malformed or empty payloads
// degrade to a zero-valued result instead of failing the request.
func (g *GeminiGenerator) parseContent(ctx context.Context, payload string) *domain.GeneratedContent {
	var schema responseSchema
	if payload == "" {
		g.logger.WarnContext(ctx, "empty payload from Gemini, returning empty content")
		return schema.toDomain()
	}

	if err := json.Unmarshal([]byte(payload), &schema); err != nil {
		g.logger.WarnContext(ctx, "unparseable payload from Gemini, returning empty content",
			slog.String("error", err.Error()),
			slog.Int("payload_length", len(payload)))
		return (&responseSchema{}).toDomain()
	}

	return schema.toDomain()
}

// GenerateBulk implements generation.ContentGenerator.GenerateBulk
// Requests are processed in chunks of bulkChunkSize; within a chunk all
// requests run concurrently, and a fixed pause separates chunks. Every input
// gets a BulkResult at its own index, failed items carry their error.
func (g *GeminiGenerator) GenerateBulk(
	ctx context.Context,
	reqs []domain.GenerationRequest,
) ([]generation.BulkResult, error) {
	return runChunks(ctx, reqs, bulkChunkSize, g.pause, g.Generate)
}

// generateFn produces content for one request; split out so the chunked loop
// is testable without a live client.
type generateFn func(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedContent, error)

// runChunks drives the chunked bulk loop: chunks run strictly sequentially
// with a pause between them, the requests inside one chunk concurrently.
// Item failures are recorded in the results, not propagated; the returned
// error is non-nil only when the context is cancelled between chunks.
func runChunks(
	ctx context.Context,
	reqs []domain.GenerationRequest,
	chunkSize int,
	pause time.Duration,
	generate generateFn,
) ([]generation.BulkResult, error) {
	results := make([]generation.BulkResult, len(reqs))

	for start := 0; start < len(reqs); start += chunkSize {
		end := min(start+chunkSize, len(reqs))

		group, groupCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			group.Go(func() error {
				content, err := generate(groupCtx, reqs[i])
				results[i] = generation.BulkResult{Index: i, Content: content, Err: err}
				return nil // item failures stay in the result slice
			})
		}
		// Goroutines above never return errors; Wait only synchronizes.
		_ = group.Wait()

		if end < len(reqs) {
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return results, nil
}
