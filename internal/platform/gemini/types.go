package gemini

import "github.com/velvetlab/velvet-api/internal/domain"

// responseSchema is the JSON object the model is asked to return.
type responseSchema struct {
	Content     string   `json:"content"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Metadata    *struct {
		WordCount         int `json:"wordCount"`
		EstimatedReadTime int `json:"estimatedReadTime"`
	} `json:"metadata,omitempty"`
}

// toDomain converts the wire schema into the domain structure, zero-filling
// anything the model omitted.
func (r *responseSchema) toDomain() *domain.GeneratedContent {
	content := &domain.GeneratedContent{
		Content:     r.Content,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
	}
	if content.Tags == nil {
		content.Tags = []string{}
	}
	if r.Metadata != nil {
		content.Metadata = domain.ContentMetadata{
			WordCount:         r.Metadata.WordCount,
			EstimatedReadTime: r.Metadata.EstimatedReadTime,
		}
	}
	return content
}
