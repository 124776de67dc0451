package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhunter5/Backend/internal/saga"
)

func TestDecodeAttachments_ReportsEveryBadIndex(t *testing.T) {
	inputs := []AttachmentInput{
		pngInput("a.png"),
		{Content: "***", Filename: "b.png"},
		textInput("c.txt", "hello"),
		{Content: "", Filename: "d.png"},
	}

	_, err := decodeAttachments("media", inputs, 1<<20)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"media[1]", "media[3]"}, fields)
}

func TestDecodeAttachments_TooLarge(t *testing.T) {
	_, err := decodeAttachments("documents", []AttachmentInput{textInput("big.txt", "0123456789")}, 4)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadAll_KeepsInputOrder(t *testing.T) {
	store := newFakeStorage()
	files, err := decodeAttachments("media", []AttachmentInput{pngInput("1.png"), pngInput("2.png"), textInput("3.txt", "x")}, 1<<20)
	require.NoError(t, err)

	uploads, err := uploadAll(context.Background(), store, saga.New("test"), "properties/p1", files, 2)
	require.NoError(t, err)
	require.Len(t, uploads, 3)
	assert.Equal(t, "properties/p1/1.png", uploads[0].object.Key)
	assert.Equal(t, "properties/p1/2.png", uploads[1].object.Key)
	assert.Equal(t, "properties/p1/3.txt", uploads[2].object.Key)
	assert.Equal(t, "image/png", uploads[0].object.ContentType)
}

func TestUploadAll_FailureRollsBackUploadsAndPrimary(t *testing.T) {
	store := newFakeStorage("2.png")
	files, err := decodeAttachments("media", []AttachmentInput{pngInput("1.png"), pngInput("2.png"), pngInput("3.png")}, 1<<20)
	require.NoError(t, err)

	primaryRemoved := false
	sg := saga.New("create property")
	require.NoError(t, sg.Run(context.Background(), saga.Step{
		Name:       "insert property",
		Action:     func(context.Context) error { return nil },
		Compensate: func(context.Context) error { primaryRemoved = true; return nil },
	}))

	_, err = uploadAll(context.Background(), store, sg, "properties/p1", files, 1)
	require.Error(t, err)
	assert.True(t, IsUploadError(err))
	assert.ErrorIs(t, err, errFakeUpload)

	err = sg.Abort(err)
	assert.True(t, IsUploadError(err))
	assert.True(t, primaryRemoved)
	assert.Equal(t, 0, store.stored(), "uploaded objects must be deleted")
	assert.Contains(t, store.deleted, "properties/p1/1.png")
}

func TestEnqueueImages_SkipsNonImages(t *testing.T) {
	q := &fakeQueue{}
	enqueueImages(context.Background(), q, []uploadedAttachment{
		{object: storageObject("a.png", "image/png")},
		{object: storageObject("b.pdf", "application/pdf")},
	})
	assert.Equal(t, []string{"a.png"}, q.media)
}
