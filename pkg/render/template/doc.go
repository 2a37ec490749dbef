// Package template defines the engine-agnostic template contract used by the
// invoice renderer, plus the SafeHTML marker filters return when their output
// must bypass autoescaping. The pongo2 implementation lives in the gotemplate
// subpackage.
package template
