// Package invoice turns raw line items and party records into the rendering
// context for an invoice or quote.
//
// Builder.Build groups CSV style line items into sections (first-seen order),
// computes line, section, tax and grand totals with exact decimal arithmetic,
// resolves the domestic/international payee split and stamps the generation
// and expiry dates. The result is a Document: a typed Context plus an Overlay
// of caller supplied overrides. Templates see Document.Values(), where overlay
// keys replace computed ones, while the typed Context stays consistent.
//
// Build is a pure function of its inputs and is safe to call concurrently.
package invoice
