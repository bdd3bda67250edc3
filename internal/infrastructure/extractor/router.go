// Package extractor picks a text extractor by evidence media type.
package extractor

import (
	"context"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/extractor/plaintext"
)

type Router struct {
	pdf   *pdftext.Extractor
	plain *plaintext.Extractor
}

func NewRouter() *Router {
	return &Router{pdf: pdftext.NewExtractor(), plain: plaintext.NewExtractor()}
}

// Extract returns an empty string for media without a text layer.
func (r *Router) Extract(ctx context.Context, evidence domain.Evidence) (string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(evidence.MimeType))
	switch {
	case mimeType == "application/pdf":
		return r.pdf.Extract(ctx, evidence.Data)
	case strings.HasPrefix(mimeType, "text/"):
		return r.plain.Extract(ctx, evidence)
	default:
		return "", nil
	}
}
