// Package render turns an invoice Document into HTML.
//
// The Renderer shapes the document into template data, wrapping money values
// as currency.Amount so the `currency` filter can format them with the
// convention they were built for. Templates are executed by a
// template.TemplateRenderer, by default the pongo2 backed gotemplate engine.
//
// Two filters are available to every template:
//
//	{{ total|currency }}            amount in the renderer's convention
//	{{ 12.5|currency:"de-DE" }}     plain numbers in an explicit locale
//	{{ payee.notes|sanitize }}      user supplied HTML, cleaned by bluemonday
package render
