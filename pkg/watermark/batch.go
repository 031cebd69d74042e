package watermark

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Store is the image persistence collaborator the batch runner drives.
type Store interface {
	Decode(path string) (image.Image, error)
	Encode(img image.Image, path string, format string, quality int) error
}

// OutputOptions controls where and how batch results are written.
type OutputOptions struct {
	Dir     string
	Prefix  string
	Suffix  string
	Format  string // "jpeg", "png", "bmp"; anything else keeps the source extension
	Quality int    // lossy formats only
}

// Job describes one batch run: an ordered image sequence, one spec, and the
// output naming scheme. Events, when non-nil, receives per-item progress and
// a terminal event; the runner closes it when the run ends.
type Job struct {
	Images []string
	Spec   *Spec
	Output OutputOptions
	Events chan<- Event
}

// EventKind discriminates batch events.
type EventKind int

const (
	// EventProgress is emitted once per processed item, in order.
	EventProgress EventKind = iota
	// EventDone is the terminal event carrying the full result.
	EventDone
)

// Event is one progress or completion notification from a batch run.
type Event struct {
	Kind   EventKind
	Index  int // 1-based position in the input sequence
	Total  int
	File   string
	Err    error   // per-item failure, or ErrCancelled on a cancelled EventDone
	Result *Result // set on EventDone
}

// Result accumulates the outcome of a batch run. Outputs maps each input
// path that succeeded to its output path; failed items are omitted.
type Result struct {
	Outputs   map[string]string
	Succeeded int
	Failed    int
	Cancelled bool
	Errors    []ItemError
}

// ItemError records one per-item failure.
type ItemError struct {
	Path string
	Err  error
}

// Runner applies one fixed spec across an ordered image sequence.
type Runner struct {
	compositor *Compositor
	store      Store
	logger     *logrus.Logger
}

// NewRunner creates a batch runner around a compositor and an image store.
func NewRunner(compositor *Compositor, store Store, logger *logrus.Logger) *Runner {
	if compositor == nil {
		compositor = NewCompositor(nil, logger)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{compositor: compositor, store: store, logger: logger}
}

// Run processes the job strictly in input order. The spec is snapshotted
// once at start, so concurrent edits to the caller's copy cannot affect an
// in-flight run. Cancellation is cooperative: the context is checked between
// items, and the partial result accumulated so far is returned.
func (r *Runner) Run(ctx context.Context, job Job) *Result {
	spec := job.Spec.Clone()
	total := len(job.Images)
	result := &Result{Outputs: make(map[string]string, total)}

	if job.Events != nil {
		defer close(job.Events)
	}

	r.logger.WithFields(logrus.Fields{
		"images": total,
		"dir":    job.Output.Dir,
		"format": job.Output.Format,
	}).Info("Starting batch export")

	for i, path := range job.Images {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		outPath, err := r.processOne(path, spec, job.Output)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ItemError{Path: path, Err: err})
			r.logger.WithError(err).WithField("file", path).Error("Failed to export image")
		} else {
			result.Succeeded++
			result.Outputs[path] = outPath
			r.logger.WithField("file", path).Debug("Exported image")
		}

		if job.Events != nil {
			job.Events <- Event{
				Kind:  EventProgress,
				Index: i + 1,
				Total: total,
				File:  filepath.Base(path),
				Err:   err,
			}
		}
	}

	r.logger.WithFields(logrus.Fields{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"cancelled": result.Cancelled,
	}).Info("Batch export finished")

	if job.Events != nil {
		ev := Event{Kind: EventDone, Total: total, Result: result}
		if result.Cancelled {
			ev.Err = ErrCancelled
		}
		job.Events <- ev
	}
	return result
}

func (r *Runner) processOne(path string, spec *Spec, out OutputOptions) (string, error) {
	src, err := r.store.Decode(path)
	if err != nil {
		return "", err
	}
	rendered, err := r.compositor.Render(src, spec)
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(out.Dir, OutputName(path, out))
	if err := r.store.Encode(rendered, outPath, out.Format, out.Quality); err != nil {
		return "", err
	}
	return outPath, nil
}

// OutputName derives the output file name for one input path: the base name
// wrapped with the configured prefix/suffix, and the extension implied by
// the target format (the source extension when the format is unknown).
func OutputName(inputPath string, out OutputOptions) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	switch {
	case out.Prefix != "" && out.Suffix != "":
		name = out.Prefix + "_" + name + "_" + out.Suffix
	case out.Prefix != "":
		name = out.Prefix + "_" + name
	case out.Suffix != "":
		name = name + "_" + out.Suffix
	}

	switch strings.ToLower(out.Format) {
	case "jpeg", "jpg":
		ext = ".jpg"
	case "png":
		ext = ".png"
	case "bmp":
		ext = ".bmp"
	}
	return name + ext
}
