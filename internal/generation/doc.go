// Package generation defines the boundary between the application core and
// the external LLM service that produces marketing copy. The concrete
// adapter (Gemini) lives in internal/platform/gemini; the pipeline depends
// only on the ContentGenerator interface declared here.
package generation
