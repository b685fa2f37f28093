package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
)

// DefaultMaxAttachmentBytes is the upload limit for leave attachments.
const DefaultMaxAttachmentBytes int64 = 8 << 20

var allowedAttachmentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var allowedAttachmentExts = []string{".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx"}

type FileService interface {
	// ReadLeaveAttachment reads an uploaded supporting document, enforcing the size
	// limit and the allowed types. The type is sniffed from the content.
	ReadLeaveAttachment(ctx context.Context, file io.Reader, filename string) (leave.Attachment, error)
}

type fileServiceImpl struct {
	maxBytes int64
}

func NewFileService(maxBytes int64) FileService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAttachmentBytes
	}
	return &fileServiceImpl{
		maxBytes: maxBytes,
	}
}

// ReadLeaveAttachment implements FileService.
func (s *fileServiceImpl) ReadLeaveAttachment(ctx context.Context, file io.Reader, filename string) (leave.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	isValid := false
	for _, allowed := range allowedAttachmentExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return leave.Attachment{}, leave.ErrAttachmentTypeNotAllowed
	}

	// One byte past the limit tells an exact-size file from an oversized one
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return leave.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return leave.Attachment{}, leave.ErrAttachmentTooLarge
	}

	detected := mimetype.Detect(data)
	mimeType := detected.String()
	for mt := detected; mt != nil; mt = mt.Parent() {
		if mimetype.EqualsAny(mt.String(), allowedAttachmentTypes...) {
			mimeType = mt.String()
			break
		}
	}
	if !mimetype.EqualsAny(mimeType, allowedAttachmentTypes...) {
		slog.Debug("Rejected leave attachment", "filename", filename, "detected", detected.String())
		return leave.Attachment{}, leave.ErrAttachmentTypeNotAllowed
	}

	return leave.Attachment{Data: data, MimeType: mimeType}, nil
}
