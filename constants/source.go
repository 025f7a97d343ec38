package constants

// TextSource tags where a page's text came from.
type TextSource string

// Stable values, also used in log lines.
const (
	SourceNative TextSource = "NATIVE" // embedded text layer
	SourceOCR    TextSource = "OCR"    // rasterised page run through OCR
	SourceNone   TextSource = "NONE"   // no text could be produced
)
