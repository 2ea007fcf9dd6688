package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"gocv.io/x/gocv"
)

// Config describes what to open and how.
type Config struct {
	// Target is a camera index ("0"), a video file path or a stream URL.
	Target string

	// Requested capture properties. Zero leaves the driver default.
	Width  int
	Height int
	FPS    int

	Logger *slog.Logger
}

// DefaultConfig opens the first camera at 640x480.
func DefaultConfig() Config {
	return Config{
		Target: "0",
		Width:  640,
		Height: 480,
		Logger: slog.Default(),
	}
}

// Device reads frames from an OpenCV VideoCapture.
type Device struct {
	vc     *gocv.VideoCapture
	target string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Open starts capturing from cfg.Target.
func Open(cfg Config) (*Device, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var target interface{} = cfg.Target
	if id, err := strconv.Atoi(cfg.Target); err == nil {
		target = id
	}

	vc, err := gocv.OpenVideoCapture(target)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrOpen, cfg.Target, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w %q", ErrOpen, cfg.Target)
	}

	if cfg.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	}

	d := &Device{
		vc:     vc,
		target: cfg.Target,
		logger: logger.With("component", "capture.device"),
	}
	d.logger.Info("capture opened",
		"target", cfg.Target,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
	)
	return d, nil
}

// Next reads the next frame.
func (d *Device) Next(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrFrameUnavailable
	}

	m := gocv.NewMat()
	if ok := d.vc.Read(&m); !ok || m.Empty() {
		m.Close()
		return nil, fmt.Errorf("%w: %s", ErrFrameUnavailable, d.target)
	}
	return frame.FromMat(m), nil
}

// Close releases the capture device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.logger.Info("capture released", "target", d.target)
	return d.vc.Close()
}

var _ Source = (*Device)(nil)
