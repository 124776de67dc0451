package services

import (
	"context"
	"errors"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/jhunter5/Backend/internal/saga"
	"github.com/jhunter5/Backend/internal/storage"
)

// AttachmentInput is a file sent inline in a JSON body as base64 or a data URI.
type AttachmentInput struct {
	Content     string `json:"content" binding:"required"`
	Filename    string `json:"filename" binding:"max=200"`
	Description string `json:"description" binding:"max=100"`
	// Type is the document category for application media and contract documents.
	Type string `json:"type"`
}

type decodedAttachment struct {
	input AttachmentInput
	file  storage.Attachment
}

type uploadedAttachment struct {
	input  AttachmentInput
	object storage.StoredObject
}

// decodeAttachments validates every attachment before anything is written.
func decodeAttachments(field string, inputs []AttachmentInput, maxBytes int) ([]decodedAttachment, error) {
	decoded := make([]decodedAttachment, 0, len(inputs))
	var fields []FieldError
	for i, in := range inputs {
		file, err := storage.DecodeAttachment(in.Content, in.Filename, maxBytes)
		if err != nil {
			fields = append(fields, FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Message: err.Error()})
			continue
		}
		decoded = append(decoded, decodedAttachment{input: in, file: file})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return decoded, nil
}

// uploadAll uploads files concurrently, at most limit at a time, under prefix.
// Every successful upload registers its deletion with sg, so a failed upload or a
// later failed step removes everything that did reach storage. Results keep input order.
func uploadAll(ctx context.Context, store storage.IS3Storage, sg *saga.Saga, prefix string, files []decodedAttachment, limit int) ([]uploadedAttachment, error) {
	results := make([]uploadedAttachment, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			obj, err := store.Upload(gctx, prefix, f.file)
			if err != nil {
				return fmt.Errorf("upload %s: %w", displayName(f.file, i), err)
			}
			sg.Record("delete "+obj.Key, func(ctx context.Context) error {
				return store.Delete(ctx, obj.Key)
			})
			results[i] = uploadedAttachment{input: f.input, object: obj}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Join(errUpload, err)
	}
	return results, nil
}

// errUpload marks object storage failures so handlers can report them as upstream errors.
var errUpload = errors.New("object storage upload failed")

// IsUploadError reports whether err came from object storage during a composite create.
func IsUploadError(err error) bool {
	return errors.Is(err, errUpload)
}

func displayName(a storage.Attachment, i int) string {
	if a.Filename != "" {
		return path.Base(a.Filename)
	}
	return fmt.Sprintf("attachment %d", i)
}
