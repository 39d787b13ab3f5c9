// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - http/standard: net/http client with browser user agent and retry logic
// - llm: Gemini, OpenAI and Anthropic text generators
// - logger/structured: logrus-backed structured logger
// - storage/file: Atomic replacement of the output page
package infrastructure
