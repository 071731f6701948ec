package domain

// ExportedDocument describes one assembled PDF.
type ExportedDocument struct {
	// Payload is the group the document was built from.
	Payload string

	// Path is where the PDF was written.
	Path string

	// Pages is the number of pages in the PDF.
	Pages int
}
