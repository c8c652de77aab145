package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa/internal/core/domain"
)

// recordingService records the paths it is asked to ingest.
type recordingService struct {
	paths   chan string
	succeed bool
}

func newRecordingService(succeed bool) *recordingService {
	return &recordingService{paths: make(chan string, 16), succeed: succeed}
}

func (s *recordingService) ProcessFile(_ context.Context, path string) domain.IngestResult {
	s.paths <- path
	result := domain.IngestResult{Filename: filepath.Base(path), Success: s.succeed}
	if !s.succeed {
		result.Err = "Loading failed: corrupt"
	}
	return result
}

func (s *recordingService) ProcessFiles(ctx context.Context, paths []string) *domain.IngestReport {
	report := &domain.IngestReport{}
	for _, path := range paths {
		report.Details = append(report.Details, s.ProcessFile(ctx, path))
	}
	return report
}

func (s *recordingService) DeleteDocument(context.Context, string) error { return nil }
func (s *recordingService) ChunkCount(context.Context) (int, error)      { return 0, nil }

func TestShouldIngest(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"created txt file", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Create}, true},
		{"created pdf file", fsnotify.Event{Name: "/data/a.pdf", Op: fsnotify.Create}, true},
		{"created docx file", fsnotify.Event{Name: "/data/a.docx", Op: fsnotify.Create}, true},
		{"unsupported extension", fsnotify.Event{Name: "/data/a.png", Op: fsnotify.Create}, false},
		{"no extension", fsnotify.Event{Name: "/data/README", Op: fsnotify.Create}, false},
		{"hidden file", fsnotify.Event{Name: "/data/.draft.txt", Op: fsnotify.Create}, false},
		{"write event", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Write}, false},
		{"remove event", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Remove}, false},
		{"chmod event", fsnotify.Event{Name: "/data/a.txt", Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIngest(tt.event))
		})
	}
}

func TestWatcher_IngestsCreatedFile(t *testing.T) {
	dir := t.TempDir()
	service := newRecordingService(true)
	watcher := New(service)

	results := make(chan domain.IngestResult, 16)
	watcher.OnResult = func(r domain.IngestResult) { results <- r }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx, dir) }()

	// Give the watcher time to register before creating files.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("fresh content"), 0o644))

	select {
	case got := <-service.paths:
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for ingestion")
	}

	select {
	case result := <-results:
		assert.True(t, result.Success)
		assert.Equal(t, "new.txt", result.Filename)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for result callback")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	service := newRecordingService(true)
	watcher := New(service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx, dir) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("x"), 0o644))

	// Only the supported, visible file arrives.
	select {
	case got := <-service.paths:
		assert.Equal(t, filepath.Join(dir, "real.txt"), got)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for ingestion")
	}

	select {
	case unexpected := <-service.paths:
		t.Fatalf("unexpected ingestion of %s", unexpected)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatcher_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	watcher := New(newRecordingService(true))
	err := watcher.Run(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	watcher := New(newRecordingService(true))
	err := watcher.Run(context.Background(), "/nonexistent/docqa-watch")
	assert.Error(t, err)
}
