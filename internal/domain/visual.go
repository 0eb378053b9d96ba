package domain

// VisualEvidence is a captured screenshot of the project website.
// A nil *VisualEvidence is the expected state for tokens without a real
// website, not an error.
type VisualEvidence struct {
	Image     []byte
	MediaType string
	SourceURL string
	Provider  string
}
