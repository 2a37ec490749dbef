// Package datafile locates and reads the inputs of a document: the line item
// CSV, payee and payer YAML records, stylesheets and templates.
//
// Named inputs resolve inside the directories given by Dirs:
//
//	payee "acme"    -> <Payees>/acme.yml
//	payer "globex"  -> <Payers>/globex.yml
//	style "default" -> <Styles>/default.css
//	template "x"    -> <Templates>/x.html
package datafile
