// Package capture records stream frames to brotli-compressed JSON lines and
// reads them back for replay.
package capture

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/tidwall/gjson"
)

type Direction string

const (
	Inbound  Direction = "in"
	Outbound Direction = "out"
)

// Record is one captured frame. Frames that are valid JSON are stored
// compacted in Frame, anything else verbatim in Text.
type Record struct {
	Direction Direction       `json:"dir"`
	At        int64           `json:"at"`
	Frame     json.RawMessage `json:"frame,omitempty"`
	Text      string          `json:"text,omitempty"`
}

// Bytes returns the captured frame.
func (r Record) Bytes() []byte {
	if len(r.Frame) > 0 {
		return r.Frame
	}
	return []byte(r.Text)
}

func (r Record) Time() time.Time {
	return time.Unix(0, r.At)
}

type Recorder struct {
	mu     sync.Mutex
	bw     *brotli.Writer
	closer io.Closer
	now    func() time.Time
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		bw:  brotli.NewWriterLevel(w, brotli.DefaultCompression),
		now: time.Now,
	}
}

// Create truncates path and records into it.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := NewRecorder(f)
	r.closer = f
	return r, nil
}

func (r *Recorder) Record(dir Direction, frame []byte) error {
	rec := Record{Direction: dir, At: r.now().UnixNano()}
	if gjson.ValidBytes(frame) {
		rec.Frame = frame
	} else {
		rec.Text = string(frame)
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("capture: encode record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.bw.Write(line); err != nil {
		return err
	}
	// Flush per record so a crash loses at most the frame in flight.
	return r.bw.Flush()
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.bw.Close()
	if r.closer != nil {
		err = errors.Join(err, r.closer.Close())
	}
	return err
}

const maxRecordSize = 16 << 20

type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(brotli.NewReader(r))
	scanner.Buffer(make([]byte, 64*1024), maxRecordSize)
	return &Reader{scanner: scanner}
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// Next returns io.EOF once every record has been read.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return Record{}, fmt.Errorf("capture: decode record: %w", err)
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// All reads the remaining records.
func (r *Reader) All() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
