package file

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
)

func TestFileService_ReadLeaveAttachment_AllowedTypes(t *testing.T) {
	svc := NewFileService(0)

	attachment, err := svc.ReadLeaveAttachment(context.Background(), bytes.NewReader(pdfBytes), "doctor-note.PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", attachment.MimeType)
	assert.Equal(t, pdfBytes, attachment.Data)

	attachment, err = svc.ReadLeaveAttachment(context.Background(), bytes.NewReader(pngBytes), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", attachment.MimeType)
}

func TestFileService_ReadLeaveAttachment_RejectsType(t *testing.T) {
	svc := NewFileService(0)

	_, err := svc.ReadLeaveAttachment(context.Background(), bytes.NewReader([]byte("#!/bin/sh\necho hi\n")), "note.pdf")
	assert.ErrorIs(t, err, leave.ErrAttachmentTypeNotAllowed)

	_, err = svc.ReadLeaveAttachment(context.Background(), bytes.NewReader(pdfBytes), "note.exe")
	assert.ErrorIs(t, err, leave.ErrAttachmentTypeNotAllowed)
}

func TestFileService_ReadLeaveAttachment_SizeLimit(t *testing.T) {
	svc := NewFileService(int64(len(pdfBytes)))

	_, err := svc.ReadLeaveAttachment(context.Background(), bytes.NewReader(pdfBytes), "exact.pdf")
	assert.NoError(t, err)

	oversized := append(append([]byte{}, pdfBytes...), ' ')
	_, err = svc.ReadLeaveAttachment(context.Background(), bytes.NewReader(oversized), "big.pdf")
	assert.ErrorIs(t, err, leave.ErrAttachmentTooLarge)
}
