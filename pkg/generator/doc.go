// Package generator runs the document pipeline: load inputs, build the
// invoice context, render HTML, write it beside the items file and convert
// it to PDF.
//
// Existing outputs are only replaced when the request sets Overwrite or the
// configured Confirmer agrees. Conversion failures do not fail generation;
// they are reported as Result warnings so the HTML is still usable.
package generator
