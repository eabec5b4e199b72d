package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"regexp"
	"sync"
	"time"

	"eventtix/internal/models"
)

// CameraDevice identifies one camera available to the scanner
type CameraDevice struct {
	ID    string
	Label string
}

// CameraSession is one live capture session. Frames delivers decoded video
// frames until Stop is called or the source runs out; Stop releases the
// underlying device and closes the frame channel.
type CameraSession interface {
	Frames() <-chan image.Image
	Stop() error
}

// CameraSource abstracts platform camera access so the scanner state machine
// runs unchanged against real devices, directory feeds, or test fakes.
type CameraSource interface {
	ListDevices(ctx context.Context) ([]CameraDevice, error)
	Start(ctx context.Context, deviceID string) (CameraSession, error)
}

// Decoder attempts to read a QR payload out of a single frame. A frame with
// no code returns ("", nil); decode errors are treated the same way by the
// scanner loop.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// CheckInHandler receives each decoded value that survives duplicate
// suppression. The handler's outcome does not affect suppression state.
type CheckInHandler func(code string)

// ScannerState is the scanner's lifecycle state
type ScannerState int

const (
	ScannerInitializing ScannerState = iota
	ScannerScanning
	ScannerSwitching
	ScannerError
	ScannerStopped
)

func (s ScannerState) String() string {
	switch s {
	case ScannerInitializing:
		return "initializing"
	case ScannerScanning:
		return "scanning"
	case ScannerSwitching:
		return "switching-camera"
	case ScannerError:
		return "error"
	case ScannerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Labels that indicate a rear-facing camera, preferred for scanning
var rearCameraRegex = regexp.MustCompile(`(?i)back|rear|environment`)

// DefaultScanCooldown is how long a just-forwarded code is suppressed when the
// same value keeps decoding off a steady video feed.
const DefaultScanCooldown = 3 * time.Second

// CheckInScanner manages a live camera feed, decodes QR payloads off its
// frames, and forwards new values to a check-in handler. At most one capture
// session is active at any time; switching cameras always stops the old
// session before starting the new one.
type CheckInScanner struct {
	source   CameraSource
	decoder  Decoder
	handler  CheckInHandler
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	state    ScannerState
	errMsg   string
	devices  []CameraDevice
	activeID string
	session  CameraSession
	loopDone chan struct{}
	lastText string
	lastTime time.Time
}

// ScannerOption configures a CheckInScanner
type ScannerOption func(*CheckInScanner)

// WithCooldown overrides the duplicate-suppression window.
func WithCooldown(d time.Duration) ScannerOption {
	return func(s *CheckInScanner) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) ScannerOption {
	return func(s *CheckInScanner) { s.now = now }
}

// NewCheckInScanner creates a scanner over a camera source and decoder.
func NewCheckInScanner(source CameraSource, decoder Decoder, handler CheckInHandler, opts ...ScannerOption) *CheckInScanner {
	s := &CheckInScanner{
		source:   source,
		decoder:  decoder,
		handler:  handler,
		cooldown: DefaultScanCooldown,
		now:      time.Now,
		state:    ScannerInitializing,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start enumerates cameras, picks the preferred device, and begins scanning.
// An empty device list moves the scanner straight to the error state; no
// capture session is ever attempted.
func (s *CheckInScanner) Start(ctx context.Context) error {
	devices, err := s.source.ListDevices(ctx)
	if err != nil {
		s.fail(CameraErrorMessage(err))
		return err
	}
	if len(devices) == 0 {
		s.fail(CameraErrorMessage(models.ErrCameraNotFound))
		return models.ErrCameraNotFound
	}

	s.mu.Lock()
	s.devices = devices
	s.mu.Unlock()

	return s.startSession(ctx, preferredDevice(devices).ID)
}

// SwitchCamera tears down the active session, then starts a new one on the
// requested device. Its errors surface independently of Start's: a failed
// switch leaves the scanner in the error state with the switch's own message.
func (s *CheckInScanner) SwitchCamera(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	if s.state == ScannerStopped {
		s.mu.Unlock()
		return fmt.Errorf("scanner is stopped")
	}
	s.state = ScannerSwitching
	s.mu.Unlock()

	s.stopSession()
	return s.startSession(ctx, deviceID)
}

// Stop tears down the active capture session and releases the camera. Safe to
// call on every exit path, including after an error.
func (s *CheckInScanner) Stop() {
	s.stopSession()
	s.mu.Lock()
	s.state = ScannerStopped
	s.mu.Unlock()
}

// SubmitManual routes a hand-typed code through the same duplicate
// suppression as decoded frames. This is the fallback path when no camera is
// usable.
func (s *CheckInScanner) SubmitManual(code string) {
	if code == "" {
		return
	}
	s.forward(code)
}

// State returns the scanner's current state.
func (s *CheckInScanner) State() ScannerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrorMessage returns the user-facing message for the error state, empty
// otherwise.
func (s *CheckInScanner) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Devices returns the camera devices found at startup.
func (s *CheckInScanner) Devices() []CameraDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CameraDevice(nil), s.devices...)
}

// ActiveDevice returns the id of the device currently capturing, empty when
// no session is active.
func (s *CheckInScanner) ActiveDevice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *CheckInScanner) startSession(ctx context.Context, deviceID string) error {
	session, err := s.source.Start(ctx, deviceID)
	if err != nil {
		s.fail(CameraErrorMessage(err))
		return err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.session = session
	s.activeID = deviceID
	s.loopDone = done
	s.state = ScannerScanning
	s.errMsg = ""
	s.mu.Unlock()

	go s.decodeLoop(session, done)
	return nil
}

// stopSession stops the active session and waits for its decode loop to
// drain, so two sessions never overlap.
func (s *CheckInScanner) stopSession() {
	s.mu.Lock()
	session := s.session
	done := s.loopDone
	s.session = nil
	s.loopDone = nil
	s.activeID = ""
	s.mu.Unlock()

	if session == nil {
		return
	}
	if err := session.Stop(); err != nil {
		log.Printf("camera session stop failed: %v", err)
	}
	if done != nil {
		<-done
	}
}

func (s *CheckInScanner) fail(msg string) {
	s.mu.Lock()
	s.state = ScannerError
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *CheckInScanner) decodeLoop(session CameraSession, done chan struct{}) {
	defer close(done)
	for frame := range session.Frames() {
		text, err := s.decoder.Decode(frame)
		if err != nil || text == "" {
			continue
		}
		s.forward(text)
	}
}

// forward applies duplicate suppression: a value passes when it differs from
// the last forwarded one, or the cooldown has elapsed since that forward.
// Suppressed repeats do not refresh the window, so a steady feed of one code
// re-forwards once per cooldown.
func (s *CheckInScanner) forward(text string) {
	s.mu.Lock()
	now := s.now()
	if text == s.lastText && now.Sub(s.lastTime) < s.cooldown {
		s.mu.Unlock()
		return
	}
	s.lastText = text
	s.lastTime = now
	handler := s.handler
	s.mu.Unlock()

	if handler != nil {
		handler(text)
	}
}

// preferredDevice picks a rear-facing camera when the labels reveal one,
// otherwise the first device enumerated.
func preferredDevice(devices []CameraDevice) CameraDevice {
	for _, d := range devices {
		if rearCameraRegex.MatchString(d.Label) {
			return d
		}
	}
	return devices[0]
}

// CameraErrorMessage maps camera failures to the actionable message shown at
// the kiosk. Unknown errors get a generic fallback, never a raw error string.
func CameraErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrCameraPermission):
		return "Camera permission denied. Allow camera access and try again."
	case errors.Is(err, models.ErrCameraNotFound):
		return "No camera found. Connect a camera or use manual entry."
	case errors.Is(err, models.ErrCameraInUse):
		return "Camera is in use by another application. Close it and try again."
	default:
		return "Could not start the camera. Use manual entry instead."
	}
}
