package services

import (
	"context"
	"encoding/base64"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/jhunter5/Backend/internal/storage"
)

var errFakeUpload = errors.New("simulated upload failure")

// fakeStorage keeps objects in memory. Uploads of files whose name is in failOn fail.
type fakeStorage struct {
	mu      sync.Mutex
	failOn  map[string]bool
	objects map[string]storage.Attachment
	deleted []string
}

func newFakeStorage(failOn ...string) *fakeStorage {
	f := &fakeStorage{failOn: map[string]bool{}, objects: map[string]storage.Attachment{}}
	for _, name := range failOn {
		f.failOn[name] = true
	}
	return f
}

func (f *fakeStorage) Upload(_ context.Context, prefix string, file storage.Attachment) (storage.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[file.Filename] {
		return storage.StoredObject{}, errFakeUpload
	}
	key := path.Join(prefix, file.Filename)
	f.objects[key] = file
	return storage.StoredObject{Key: key, URL: f.ObjectURL(key), ContentType: file.ContentType, Size: len(file.Data)}, nil
}

func (f *fakeStorage) Replace(_ context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = storage.Attachment{Filename: path.Base(key), ContentType: contentType, Data: data}
	return nil
}

func (f *fakeStorage) Download(_ context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return nil, "", errors.New("no such key")
	}
	return obj.Data, obj.ContentType, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) GeneratePresignedPutURL(_ context.Context, prefix, filename, _ string) (string, string, error) {
	key := path.Join(prefix, filename)
	return f.ObjectURL(key) + "?signed", key, nil
}

func (f *fakeStorage) ObjectURL(key string) string {
	return "https://bucket.test/" + key
}

func (f *fakeStorage) KeyFromURL(url string) (string, bool) {
	return strings.CutPrefix(url, "https://bucket.test/")
}

func (f *fakeStorage) stored() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeQueue struct {
	mu    sync.Mutex
	roles []string
	media []string
}

func (q *fakeQueue) EnqueueRoleAssignment(_ context.Context, authID, role string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.roles = append(q.roles, authID+":"+role)
	return nil
}

func (q *fakeQueue) EnqueueMediaProcessing(_ context.Context, objectKey, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.media = append(q.media, objectKey)
	return nil
}

func pngInput(name string) AttachmentInput {
	// 1x1 transparent PNG.
	const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	return AttachmentInput{Content: "data:image/png;base64," + pixel, Filename: name}
}

func textInput(name, body string) AttachmentInput {
	return AttachmentInput{Content: base64.StdEncoding.EncodeToString([]byte(body)), Filename: name}
}

func storageObject(key, contentType string) storage.StoredObject {
	return storage.StoredObject{Key: key, ContentType: contentType}
}
