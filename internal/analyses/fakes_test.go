package analyses_test

import (
	"context"
	"io"

	"github.com/JaimeStill/cropwise/internal/vision"
	"github.com/JaimeStill/cropwise/pkg/lifecycle"
	"github.com/JaimeStill/cropwise/pkg/storage"
)

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
	err      error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (f *fakeStorage) Start(*lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploaded[key] = data
	return nil
}

func (f *fakeStorage) Download(context.Context, string) (*storage.BlobResult, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) Find(context.Context, string) (*storage.BlobMeta, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) List(context.Context, string, string, int32) (*storage.BlobList, error) {
	return &storage.BlobList{Blobs: []storage.BlobMeta{}}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploaded, key)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.uploaded[key]
	return ok, nil
}

type fakeClassifier struct {
	detections []vision.Detection
	err        error
	filename   string
}

func (f *fakeClassifier) Classify(_ context.Context, filename string, image io.Reader) ([]vision.Detection, error) {
	f.filename = filename
	if _, err := io.ReadAll(image); err != nil {
		return nil, err
	}
	return f.detections, f.err
}

type fakeRecorder struct {
	outcomes []string
}

func (f *fakeRecorder) RecordAnalysis(result string) {
	f.outcomes = append(f.outcomes, result)
}
