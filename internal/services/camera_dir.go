package services

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"eventtix/internal/models"
)

// DirectoryCameraSource is a CameraSource backed by folders of image files.
// Each subdirectory of the root is one "device"; its images are replayed as
// frames at a fixed interval. Used by the check-in CLI for kiosk dry runs and
// anywhere a real camera is unavailable.
type DirectoryCameraSource struct {
	root     string
	interval time.Duration
}

// NewDirectoryCameraSource creates a directory-backed camera source.
func NewDirectoryCameraSource(root string, frameInterval time.Duration) *DirectoryCameraSource {
	if frameInterval <= 0 {
		frameInterval = 200 * time.Millisecond
	}
	return &DirectoryCameraSource{root: root, interval: frameInterval}
}

// ListDevices enumerates the subdirectories of the root as camera devices.
func (s *DirectoryCameraSource) ListDevices(ctx context.Context) ([]CameraDevice, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("reading %s: %w", s.root, models.ErrCameraPermission)
		}
		return nil, fmt.Errorf("reading %s: %w", s.root, models.ErrCameraNotFound)
	}

	var devices []CameraDevice
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		devices = append(devices, CameraDevice{
			ID:    entry.Name(),
			Label: entry.Name(),
		})
	}
	return devices, nil
}

// Start opens a capture session replaying the device directory's images.
func (s *DirectoryCameraSource) Start(ctx context.Context, deviceID string) (CameraSession, error) {
	dir := filepath.Join(s.root, deviceID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("opening device %s: %w", deviceID, models.ErrCameraNotFound)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	session := &directorySession{
		frames: make(chan image.Image),
		stop:   make(chan struct{}),
	}
	go session.run(ctx, paths, s.interval)
	return session, nil
}

type directorySession struct {
	frames   chan image.Image
	stop     chan struct{}
	stopOnce sync.Once
}

func (s *directorySession) Frames() <-chan image.Image {
	return s.frames
}

func (s *directorySession) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *directorySession) run(ctx context.Context, paths []string, interval time.Duration) {
	defer close(s.frames)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			continue // Unreadable frame files are skipped, not fatal
		}
		select {
		case s.frames <- img:
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
		select {
		case <-ticker.C:
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}
