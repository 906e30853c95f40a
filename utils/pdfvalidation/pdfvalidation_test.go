package pdfvalidation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePDFBytesRejectsOversizedContent(t *testing.T) {
	content := bytes.Repeat([]byte("a"), (TopicDocumentLimits.MaxFileSizeMB*1024*1024)+1)

	result := ValidatePDFBytes(content, TopicDocumentLimits)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "exceeds maximum allowed size")
}

func TestValidatePDFBytesRejectsMissingHeader(t *testing.T) {
	result := ValidatePDFBytes([]byte("plain text pretending to be a pdf"), TopicDocumentLimits)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "missing PDF header")
}

func TestValidatePDFBytesRejectsTruncatedPDF(t *testing.T) {
	// Valid header but no cross-reference table; the parser must fail cleanly
	result := ValidatePDFBytes([]byte("%PDF-1.4 truncated"), TopicDocumentLimits)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Error)
}
