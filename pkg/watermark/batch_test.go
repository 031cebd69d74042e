package watermark

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps decoded sources and encoded outputs in memory. onDecode,
// when set, runs before each decode and lets tests cancel or mutate mid-run.
type fakeStore struct {
	mu       sync.Mutex
	images   map[string]image.Image
	saved    map[string]image.Image
	onDecode func(path string)
}

func newFakeStore(paths ...string) *fakeStore {
	s := &fakeStore{
		images: make(map[string]image.Image, len(paths)),
		saved:  make(map[string]image.Image),
	}
	for _, p := range paths {
		s.images[p] = solid(10, 10, red)
	}
	return s
}

func (s *fakeStore) Decode(path string) (image.Image, error) {
	if s.onDecode != nil {
		s.onDecode(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[path]
	if !ok {
		return nil, &AssetError{Path: path, Err: errors.New("no such image")}
	}
	return img, nil
}

func (s *fakeStore) Encode(img image.Image, path string, format string, quality int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[path] = img
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func batchSpec() *Spec {
	return imageSpec(solid(4, 4, blue))
}

func TestRunProcessesInOrder(t *testing.T) {
	paths := []string{"a.jpg", "b.jpg", "c.jpg"}
	store := newFakeStore(paths...)
	var decoded []string
	store.onDecode = func(path string) { decoded = append(decoded, path) }

	runner := NewRunner(newTestCompositor(), store, quietLogger())
	result := runner.Run(context.Background(), Job{
		Images: paths,
		Spec:   batchSpec(),
		Output: OutputOptions{Dir: "out"},
	})

	assert.Equal(t, paths, decoded)
	assert.Equal(t, 3, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.False(t, result.Cancelled)
	assert.Len(t, result.Outputs, 3)
}

func TestRunContinuesPastFailedItem(t *testing.T) {
	paths := []string{"a.jpg", "b.jpg", "broken.jpg", "d.jpg", "e.jpg"}
	store := newFakeStore("a.jpg", "b.jpg", "d.jpg", "e.jpg")

	runner := NewRunner(newTestCompositor(), store, quietLogger())
	result := runner.Run(context.Background(), Job{
		Images: paths,
		Spec:   batchSpec(),
		Output: OutputOptions{Dir: "out"},
	})

	assert.Equal(t, 4, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Outputs, 4)
	assert.NotContains(t, result.Outputs, "broken.jpg")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broken.jpg", result.Errors[0].Path)
}

func TestRunEvents(t *testing.T) {
	paths := []string{"a.jpg", "b.jpg"}
	store := newFakeStore(paths...)
	events := make(chan Event, 8)

	runner := NewRunner(newTestCompositor(), store, quietLogger())
	runner.Run(context.Background(), Job{
		Images: paths,
		Spec:   batchSpec(),
		Output: OutputOptions{Dir: "out"},
		Events: events,
	})

	var got []Event
	for ev := range events { // runner closed the channel
		got = append(got, ev)
	}
	require.Len(t, got, 3)
	assert.Equal(t, EventProgress, got[0].Kind)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[0].Total)
	assert.Equal(t, "a.jpg", got[0].File)
	assert.Equal(t, 2, got[1].Index)
	assert.Equal(t, EventDone, got[2].Kind)
	require.NotNil(t, got[2].Result)
	assert.Equal(t, 2, got[2].Result.Succeeded)
	assert.NoError(t, got[2].Err)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore("a.jpg")
	events := make(chan Event, 4)
	runner := NewRunner(newTestCompositor(), store, quietLogger())
	result := runner.Run(ctx, Job{
		Images: []string{"a.jpg"},
		Spec:   batchSpec(),
		Output: OutputOptions{Dir: "out"},
		Events: events,
	})

	assert.True(t, result.Cancelled)
	assert.Zero(t, result.Succeeded)
	assert.Empty(t, result.Outputs)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 1)
	assert.Equal(t, EventDone, got[0].Kind)
	assert.ErrorIs(t, got[0].Err, ErrCancelled)
}

func TestRunCancelMidRun(t *testing.T) {
	paths := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}
	store := newFakeStore(paths...)
	ctx, cancel := context.WithCancel(context.Background())
	store.onDecode = func(path string) {
		if path == "b.jpg" {
			cancel()
		}
	}

	runner := NewRunner(newTestCompositor(), store, quietLogger())
	result := runner.Run(ctx, Job{
		Images: paths,
		Spec:   batchSpec(),
		Output: OutputOptions{Dir: "out"},
	})

	// b.jpg was already in flight when cancel hit; c and d never start.
	assert.True(t, result.Cancelled)
	assert.Equal(t, 2, result.Succeeded)
	assert.Len(t, result.Outputs, 2)
	assert.Contains(t, result.Outputs, "a.jpg")
	assert.Contains(t, result.Outputs, "b.jpg")
}

func TestRunSnapshotsSpecAtStart(t *testing.T) {
	paths := []string{"a.jpg", "b.jpg", "c.jpg"}
	store := newFakeStore(paths...)
	spec := batchSpec()
	// Break the caller's copy mid-run; the runner must keep its snapshot.
	store.onDecode = func(path string) {
		if path == "b.jpg" {
			spec.Mark = nil
			spec.Kind = Kind("")
		}
	}

	runner := NewRunner(newTestCompositor(), store, quietLogger())
	result := runner.Run(context.Background(), Job{
		Images: paths,
		Spec:   spec,
		Output: OutputOptions{Dir: "out"},
	})

	assert.Equal(t, 3, result.Succeeded)
	assert.Zero(t, result.Failed)
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  OutputOptions
		want string
	}{
		{"plain", "/photos/img.jpg", OutputOptions{}, "img.jpg"},
		{"prefix", "img.jpg", OutputOptions{Prefix: "wm"}, "wm_img.jpg"},
		{"suffix", "img.jpg", OutputOptions{Suffix: "marked"}, "img_marked.jpg"},
		{"both", "img.jpg", OutputOptions{Prefix: "wm", Suffix: "v2"}, "wm_img_v2.jpg"},
		{"format jpeg", "img.png", OutputOptions{Format: "jpeg"}, "img.jpg"},
		{"format jpg alias", "img.png", OutputOptions{Format: "JPG"}, "img.jpg"},
		{"format png", "img.jpg", OutputOptions{Format: "png"}, "img.png"},
		{"format bmp", "img.jpg", OutputOptions{Format: "bmp"}, "img.bmp"},
		{"unknown format keeps ext", "img.tiff", OutputOptions{Format: "webp"}, "img.tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.in, tt.out))
		})
	}
}
