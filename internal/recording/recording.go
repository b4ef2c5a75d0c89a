// Package recording captures microphone audio via pw-record and hands the
// caller a finished WAV clip when the session stops.
package recording

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"changuito/internal/config"
)

var (
	// ErrPermission means the capture device or audio daemon is not
	// accessible.
	ErrPermission = errors.New("microphone not available")
	// ErrRecording means the capture itself failed mid-session.
	ErrRecording = errors.New("recording failed")
	// ErrSessionDone means the single-use session was already stopped.
	ErrSessionDone = errors.New("recording session already stopped")
	// ErrBusy means a session is already in flight.
	ErrBusy = errors.New("already recording")
)

type Config struct {
	SampleRate        int
	Channels          int
	Format            string
	BufferSize        int
	Device            string
	ChannelBufferSize int
	Timeout           time.Duration
}

func DefaultConfig() Config {
	return Config{
		SampleRate:        16000,
		Channels:          1,
		Format:            "s16",
		BufferSize:        8192,
		Device:            "",
		ChannelBufferSize: 30,
		Timeout:           5 * time.Minute,
	}
}

// ConfigFrom maps the persisted [recording] section onto a capture
// config.
func ConfigFrom(c config.RecordingConfig) Config {
	return Config{
		SampleRate:        c.SampleRate,
		Channels:          c.Channels,
		Format:            c.Format,
		BufferSize:        c.BufferSize,
		Device:            c.Device,
		ChannelBufferSize: c.ChannelBufferSize,
		Timeout:           c.Timeout,
	}
}

// Clip is the finished audio blob handed to the extraction client.
type Clip struct {
	WAV      []byte
	MIMEType string
	Duration time.Duration
}

// Recorder starts capture sessions. Only one session may be in flight.
type Recorder struct {
	config Config
	busy   atomic.Bool
}

func NewRecorder(config Config) *Recorder {
	return &Recorder{config: config}
}

func (r *Recorder) IsRecording() bool {
	return r.busy.Load()
}

// Start spawns pw-record and begins buffering audio. The returned session
// is single-use: call Stop exactly once to get the clip.
func (r *Recorder) Start(ctx context.Context) (*Session, error) {
	if err := r.validateConfig(); err != nil {
		return nil, err
	}
	if err := checkPipeWireAvailable(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPermission, err)
	}
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	sessionCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)

	s := &Session{
		id:       uuid.NewString(),
		recorder: r,
		cancel:   cancel,
		started:  time.Now(),
	}

	cmd := exec.CommandContext(sessionCtx, "pw-record", r.buildArgs()...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		r.busy.Store(false)
		return nil, fmt.Errorf("%w: create stdout pipe: %v", ErrRecording, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		r.busy.Store(false)
		return nil, fmt.Errorf("%w: create stderr pipe: %v", ErrRecording, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		r.busy.Store(false)
		return nil, fmt.Errorf("%w: start pw-record: %v", ErrRecording, err)
	}
	s.cmd = cmd

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Printf("recording %s: stderr: %s", s.id, scanner.Text())
		}
	}()

	s.wg.Add(1)
	go s.captureLoop(sessionCtx, stdout)

	log.Printf("recording %s: started", s.id)
	return s, nil
}

// Session is one recording in progress. Stop may be called once.
type Session struct {
	id       string
	recorder *Recorder
	cmd      *exec.Cmd
	cancel   context.CancelFunc
	started  time.Time
	stopped  atomic.Bool

	wg  sync.WaitGroup
	mu  sync.Mutex
	buf []byte
	err error
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) captureLoop(ctx context.Context, stdout io.Reader) {
	defer func() {
		_ = s.cmd.Wait()
		s.wg.Done()
	}()

	buffer := make([]byte, s.recorder.config.BufferSize)
	for {
		n, readErr := stdout.Read(buffer)
		if n > 0 {
			s.mu.Lock()
			s.buf = append(s.buf, buffer[:n]...)
			s.mu.Unlock()
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) && ctx.Err() == nil {
				s.mu.Lock()
				s.err = fmt.Errorf("%w: read audio: %v", ErrRecording, readErr)
				s.mu.Unlock()
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// Stop ends the capture and returns the recorded clip as WAV. The session
// cannot be reused; a second Stop fails with ErrSessionDone.
func (s *Session) Stop() (Clip, error) {
	if !s.stopped.CompareAndSwap(false, true) {
		return Clip{}, ErrSessionDone
	}

	s.cancel()
	s.wg.Wait()
	s.recorder.busy.Store(false)

	s.mu.Lock()
	pcm := s.buf
	s.buf = nil
	err := s.err
	s.mu.Unlock()

	if err != nil {
		return Clip{}, err
	}

	cfg := s.recorder.config
	wav := encodeWAV(pcm, cfg.SampleRate, cfg.Channels)
	byteRate := cfg.SampleRate * cfg.Channels * 2
	duration := time.Duration(len(pcm)) * time.Second / time.Duration(byteRate)

	log.Printf("recording %s: stopped, %d bytes of audio (%v)", s.id, len(pcm), duration)
	return Clip{WAV: wav, MIMEType: "audio/wav", Duration: duration}, nil
}

func (r *Recorder) buildArgs() []string {
	args := []string{
		"--format", r.config.Format,
		"--rate", strconv.Itoa(r.config.SampleRate),
		"--channels", strconv.Itoa(r.config.Channels),
		"-", // stdout
	}
	if r.config.Device != "" {
		args = append(args, "--target", r.config.Device)
	}
	return args
}

func checkPipeWireAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return fmt.Errorf("pw-record not found: %w (install pipewire-tools)", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := exec.CommandContext(checkCtx, "pw-cli", "info").Run(); err != nil {
		return fmt.Errorf("PipeWire not running or accessible: %w", err)
	}
	return nil
}

func (r *Recorder) validateConfig() error {
	if r.config.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", r.config.SampleRate)
	}
	if r.config.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", r.config.Channels)
	}
	if r.config.BufferSize <= 0 {
		return fmt.Errorf("invalid BufferSize: %d", r.config.BufferSize)
	}
	if r.config.Format == "" {
		return fmt.Errorf("invalid Format: empty")
	}
	return nil
}
