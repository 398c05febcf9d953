package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType identifies the kind of marketing copy to generate.
type ContentType string

// Supported content types.
const (
	ContentTypeTitle       ContentType = "title"
	ContentTypeDescription ContentType = "description"
	ContentTypeScript      ContentType = "script"
	ContentTypeSocialPost  ContentType = "social_post"
)

// Valid reports whether the content type is one of the supported values.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeTitle, ContentTypeDescription, ContentTypeScript, ContentTypeSocialPost:
		return true
	}
	return false
}

// Tone selects the voice of the generated copy.
type Tone string

// Supported tones.
const (
	ToneSeductive  Tone = "seductive"
	TonePlayful    Tone = "playful"
	ToneDominant   Tone = "dominant"
	ToneSubmissive Tone = "submissive"
	ToneRomantic   Tone = "romantic"
	ToneExplicit   Tone = "explicit"
)

// DefaultTone is applied when a request omits the tone.
const DefaultTone = ToneSeductive

// Valid reports whether the tone is one of the supported values.
func (t Tone) Valid() bool {
	switch t {
	case ToneSeductive, TonePlayful, ToneDominant, ToneSubmissive, ToneRomantic, ToneExplicit:
		return true
	}
	return false
}

// Length selects the approximate size of the generated copy.
type Length string

// Supported lengths.
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// DefaultLength is applied when a request omits the length.
const DefaultLength = LengthMedium

// Valid reports whether the length is one of the supported values.
func (l Length) Valid() bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

// GenerationRequest describes one unit of content to generate. It is
// transient: requests are validated and handed to the generator but never
// persisted as such.
type GenerationRequest struct {
	Prompt   string      `json:"prompt"   validate:"required,min=1"`
	Type     ContentType `json:"type"     validate:"required,oneof=title description script social_post"`
	Category string      `json:"category,omitempty"`
	Tone     Tone        `json:"tone,omitempty"   validate:"omitempty,oneof=seductive playful dominant submissive romantic explicit"`
	Length   Length      `json:"length,omitempty" validate:"omitempty,oneof=short medium long"`
}

// Normalize fills in the documented defaults for omitted optional fields.
func (r *GenerationRequest) Normalize() {
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.Length == "" {
		r.Length = DefaultLength
	}
}

// Validate checks the request shape. All violations are collected into a
// single error so callers can report them together.
func (r *GenerationRequest) Validate() error {
	var violations []string

	if strings.TrimSpace(r.Prompt) == "" {
		violations = append(violations, ErrEmptyPrompt.Error())
	}
	if !r.Type.Valid() {
		violations = append(violations, fmt.Sprintf("%s: %q", ErrInvalidContentType, r.Type))
	}
	if r.Tone != "" && !r.Tone.Valid() {
		violations = append(violations, fmt.Sprintf("%s: %q", ErrInvalidTone, r.Tone))
	}
	if r.Length != "" && !r.Length.Valid() {
		violations = append(violations, fmt.Sprintf("%s: %q", ErrInvalidLength, r.Length))
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(violations, "; "))
	}
	return nil
}

// ContentMetadata carries size hints reported by the generator.
type ContentMetadata struct {
	WordCount         int `json:"word_count"`
	EstimatedReadTime int `json:"estimated_read_time"`
}

// GeneratedContent is the structured output of one generation call. Only
// Content is expected to be present; the remaining fields are optional and
// default to their zero values when the upstream response omits them.
type GeneratedContent struct {
	Content     string          `json:"content"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Metadata    ContentMetadata `json:"metadata"`
}

// GenerationRecord is the persisted, immutable outcome of one generation
// attempt. The generated content is stored serialized as JSON text and
// decoded on every read.
type GenerationRecord struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Type        ContentType `json:"type"`
	Prompt      string      `json:"prompt"`
	Content     string      `json:"-"` // Serialized GeneratedContent
	CreditsUsed int         `json:"credits_used"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewGenerationRecord creates a record for a completed generation, charging
// the fixed price of one credit per unit.
func NewGenerationRecord(
	userID uuid.UUID,
	req GenerationRequest,
	content *GeneratedContent,
) (*GenerationRecord, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if content == nil {
		return nil, fmt.Errorf("%w: content is nil", ErrInvalidGeneratedContent)
	}

	serialized, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeneratedContent, err)
	}

	return &GenerationRecord{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        req.Type,
		Prompt:      req.Prompt,
		Content:     string(serialized),
		CreditsUsed: 1,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// GeneratedContent decodes the serialized content back into its structured
// form. Returns ErrInvalidGeneratedContent if the stored text is not valid.
func (r *GenerationRecord) GeneratedContent() (*GeneratedContent, error) {
	var content GeneratedContent
	if err := json.Unmarshal([]byte(r.Content), &content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeneratedContent, err)
	}
	return &content, nil
}
