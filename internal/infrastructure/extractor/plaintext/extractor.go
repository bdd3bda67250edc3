package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Extractor returns the content of text evidence such as CSV bank exports.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, evidence domain.Evidence) (string, error) {
	raw := evidence.Data
	// Spreadsheet exports often carry a UTF-8 BOM.
	raw = []byte(strings.TrimPrefix(string(raw), "\ufeff"))
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("evidence %s is not valid utf-8 text", evidence.Filename)
	}
	return strings.TrimSpace(string(raw)), nil
}
