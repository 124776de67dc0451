package services

import (
	"context"
	"log"
	"strings"
)

// IJobQueue enqueues the background work triggered by service operations.
type IJobQueue interface {
	EnqueueRoleAssignment(ctx context.Context, authID, role string) error
	EnqueueMediaProcessing(ctx context.Context, objectKey, contentType string) error
}

// NoopJobQueue drops every job. Used when no worker queue is configured.
type NoopJobQueue struct{}

func (NoopJobQueue) EnqueueRoleAssignment(context.Context, string, string) error  { return nil }
func (NoopJobQueue) EnqueueMediaProcessing(context.Context, string, string) error { return nil }

// enqueueImages schedules resizing for uploaded images. Failures are logged; the upload stands.
func enqueueImages(ctx context.Context, queue IJobQueue, uploads []uploadedAttachment) {
	for _, u := range uploads {
		if !strings.HasPrefix(u.object.ContentType, "image/") {
			continue
		}
		if err := queue.EnqueueMediaProcessing(ctx, u.object.Key, u.object.ContentType); err != nil {
			log.Printf("Failed to enqueue media processing for %s: %v", u.object.Key, err)
		}
	}
}
