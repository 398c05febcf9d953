package gemini

import (
	"fmt"

	"github.com/velvetlab/velvet-api/internal/domain"
)

// defaultCategory is embedded in the user prompt when the request carries no
// category of its own.
const defaultCategory = "general adult content"

// systemInstruction is the fixed persona given to the model. There is no
// per-call variation beyond the tone and length fields in the user prompt.
const systemInstruction = `You are an expert adult content copywriter for creator platforms. You write engaging, SEO-optimized marketing copy for adult entertainment audiences (18+).

Key guidelines:
- Write for adult audiences; be provocative but tasteful
- Weave in relevant keywords naturally for search optimization
- Optimize for engagement and conversion to paying subscribers
- Keep the copy on-brand for the requested tone and length`

// buildUserPrompt renders the per-request instruction. The request must be
// normalized before the call so tone and length carry their defaults.
func buildUserPrompt(req domain.GenerationRequest) string {
	category := req.Category
	if category == "" {
		category = defaultCategory
	}

	return fmt.Sprintf(`Generate %s content based on this input: %q

Category: %s
Tone: %s
Length: %s

Requirements:
- Target an adult (18+) audience
- Include SEO-friendly keywords naturally
- Focus on conversion and engagement
- Include relevant tags and metadata

Return the response as a JSON object with this exact shape:
{
  "content": "main generated content",
  "title": "SEO-optimized title (if type is description or script)",
  "description": "brief description (if type is title or script)",
  "tags": ["relevant", "keywords"],
  "metadata": {
    "wordCount": number,
    "estimatedReadTime": number
  }
}`, req.Type, req.Prompt, category, req.Tone, req.Length)
}
