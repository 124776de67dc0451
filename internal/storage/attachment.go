package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
)

var (
	ErrEmptyAttachment    = errors.New("attachment content is empty")
	ErrAttachmentEncoding = errors.New("attachment content is not valid base64")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum size")
)

// Attachment is a decoded file ready for upload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsImage reports whether the attachment can be resized.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

// DecodeAttachment decodes a raw base64 payload or a data URI (data:<mime>;base64,<payload>).
// The content type comes from the data URI, then the filename extension, then the bytes themselves.
// maxBytes <= 0 disables the size check.
func DecodeAttachment(content, filename string, maxBytes int) (Attachment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Attachment{}, ErrEmptyAttachment
	}

	var declared string
	if strings.HasPrefix(content, "data:") {
		comma := strings.Index(content, ",")
		if comma == -1 {
			return Attachment{}, ErrAttachmentEncoding
		}
		meta := strings.TrimPrefix(content[:comma], "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return Attachment{}, ErrAttachmentEncoding
		}
		declared = strings.TrimSuffix(meta, ";base64")
		content = content[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(content); err != nil {
			return Attachment{}, ErrAttachmentEncoding
		}
	}
	if len(data) == 0 {
		return Attachment{}, ErrEmptyAttachment
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return Attachment{}, fmt.Errorf("%w: %d bytes", ErrAttachmentTooLarge, len(data))
	}

	contentType := declared
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(filename))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return Attachment{Filename: filename, ContentType: contentType, Data: data}, nil
}
