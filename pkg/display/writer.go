package display

import (
	"fmt"
	"sync"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/session"
	"gocv.io/x/gocv"
)

// WriterConfig describes the recorded video file.
type WriterConfig struct {
	Path  string
	Codec string // FourCC, e.g. "MJPG" or "mp4v"
	FPS   float64
}

// Writer records frames to a video file. The file is opened on the first
// frame, when the frame size is known.
type Writer struct {
	cfg WriterConfig

	mu      sync.Mutex
	vw      *gocv.VideoWriter
	openErr error
}

// NewWriter creates a writer. Nothing is opened until the first Show.
func NewWriter(cfg WriterConfig) *Writer {
	if cfg.Codec == "" {
		cfg.Codec = "MJPG"
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 20
	}
	return &Writer{cfg: cfg}
}

// Show implements session.Sink.
func (w *Writer) Show(f frame.Frame) error {
	m, err := matOf(f)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// A writer that failed to open is disabled; the error was reported once.
	if w.openErr != nil {
		return nil
	}
	if w.vw == nil {
		b := f.Bounds()
		vw, err := gocv.VideoWriterFile(w.cfg.Path, w.cfg.Codec, w.cfg.FPS, b.Dx(), b.Dy(), true)
		if err != nil {
			w.openErr = fmt.Errorf("open video writer %s: %w", w.cfg.Path, err)
			return w.openErr
		}
		w.vw = vw
	}

	if err := w.vw.Write(m); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Err returns the error that disabled the writer, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.openErr
}

// Close finishes the video file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.vw == nil {
		return nil
	}
	err := w.vw.Close()
	w.vw = nil
	return err
}

var _ session.Sink = (*Writer)(nil)
