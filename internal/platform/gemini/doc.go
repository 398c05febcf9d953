// Package gemini implements the generation.ContentGenerator interface using
// Google's Gemini API. It owns prompt construction, the JSON-mode generation
// call, lenient response parsing, and the chunked bulk-generation loop.
package gemini
