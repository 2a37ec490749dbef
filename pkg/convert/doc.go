// Package convert turns rendered HTML files into other document formats.
//
// Converters are external tools wrapped behind the Converter interface. The
// bundled ElectronPDF converter drives `npx electron-pdf`; a Registry maps
// converter names from configuration to implementations.
package convert
