// Package recording stores detected landmarks in a rawlog file and plays
// them back as a detector. Each record is a 12-byte header (unix nanos and
// payload length, little endian) followed by a CBOR encoded frame.
package recording

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/ayusman/slidehand/internal/detector"
)

const magic = "SLHREC01"

// maxPayload guards against reading garbage as a huge length.
const maxPayload = 1 << 20

var (
	// ErrBadMagic is returned when a file is not a landmark recording.
	ErrBadMagic = errors.New("not a slidehand recording")
	// ErrClosed is returned when recording to a closed Recorder.
	ErrClosed = errors.New("recorder is closed")
)

// Frame is one recorded detector result. Hand is nil when no hand was seen.
type Frame struct {
	Time time.Time
	Hand *detector.HandLandmarks
}

type framePayload struct {
	Hand       [][3]float64 `cbor:"hand"`
	Handedness string       `cbor:"handedness,omitempty"`
	Score      float64      `cbor:"score,omitempty"`
}

func encodeFrame(hand *detector.HandLandmarks) ([]byte, error) {
	var p framePayload
	if hand != nil {
		p.Hand = make([][3]float64, detector.NumLandmarks)
		for i, pt := range hand.Points {
			p.Hand[i] = [3]float64{pt.X, pt.Y, pt.Z}
		}
		p.Handedness = hand.Handedness
		p.Score = hand.Score
	}
	return cbor.Marshal(p)
}

func decodeFrame(data []byte) (*detector.HandLandmarks, error) {
	var p framePayload
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if p.Hand == nil {
		return nil, nil
	}

	points := make([]detector.Point3D, len(p.Hand))
	for i, v := range p.Hand {
		points[i] = detector.Point3D{X: v[0], Y: v[1], Z: v[2]}
	}
	return detector.NewHandLandmarks(points, p.Handedness, p.Score)
}

// Recorder appends frames to a recording file. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	f      *os.File
	w      *bufio.Writer
	frames int
}

// NewRecorder creates (or truncates) the file at path.
func NewRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriterSize(f, 64*1024)
	if _, err := w.WriteString(magic); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Recorder{f: f, w: w}, nil
}

// Record appends one frame. A nil hand records an empty frame.
func (r *Recorder) Record(t time.Time, hand *detector.HandLandmarks) error {
	payload, err := encodeFrame(hand)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return ErrClosed
	}

	var header [12]byte
	binary.LittleEndian.PutUint64(header[:8], uint64(t.UnixNano()))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(payload)))
	if _, err := r.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := r.w.Write(payload); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Flush writes buffered frames to disk.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return ErrClosed
	}
	return r.w.Flush()
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		_ = r.f.Close()
		r.w = nil
		return err
	}
	err := r.f.Close()
	r.w = nil
	return err
}

// Reader reads frames from a recording.
type Reader struct {
	r io.Reader
}

// NewReader checks the magic and returns a Reader positioned at the first frame.
func NewReader(r io.Reader) (*Reader, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(header) != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, string(header))
	}
	return &Reader{r: bufio.NewReader(r)}, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (rd *Reader) Next() (Frame, error) {
	var meta [12]byte
	if _, err := io.ReadFull(rd.r, meta[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, fmt.Errorf("truncated record header: %w", err)
		}
		return Frame{}, err
	}

	ts := int64(binary.LittleEndian.Uint64(meta[:8]))
	size := binary.LittleEndian.Uint32(meta[8:12])
	if size > maxPayload {
		return Frame{}, fmt.Errorf("record payload of %d bytes exceeds limit", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(rd.r, payload); err != nil {
		return Frame{}, fmt.Errorf("read payload: %w", err)
	}

	hand, err := decodeFrame(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Time: time.Unix(0, ts), Hand: hand}, nil
}

// ReadFile loads every frame of the recording at path.
func ReadFile(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd, err := NewReader(f)
	if err != nil {
		return nil, err
	}

	var frames []Frame
	for {
		fr, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, fr)
	}
}
