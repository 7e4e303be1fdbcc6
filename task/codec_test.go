package task

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/stepan-anokhin/audio-processor/audiofile"
	"github.com/stepan-anokhin/audio-processor/dsp/signal"
)

var (
	errBrokenInput = errors.New("broken input")
	errCloseInput  = errors.New("close input")
)

// memCodec keeps files in memory. Paths registered with fail cannot be
// opened, readers of paths registered with failClose fail to close.
type memCodec struct {
	blockSize int

	mu      sync.Mutex
	files   map[string]signal.Signal
	broken  map[string]bool
	leaky   map[string]bool
	writers int
}

func newMemCodec(blockSize int) *memCodec {
	return &memCodec{
		blockSize: blockSize,
		files:     make(map[string]signal.Signal),
		broken:    make(map[string]bool),
		leaky:     make(map[string]bool),
	}
}

func (c *memCodec) put(path string, s signal.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = s
}

func (c *memCodec) fail(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken[path] = true
}

func (c *memCodec) failClose(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaky[path] = true
}

func (c *memCodec) get(path string) (signal.Signal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.files[path]
	return s, ok
}

func (c *memCodec) Open(path string, _ ...audiofile.ReadOption) (audiofile.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken[path] {
		return nil, fmt.Errorf("%s: %w", path, errBrokenInput)
	}

	s, ok := c.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: not found", path)
	}

	r := &memReader{s: s, size: c.blockSize}
	if c.leaky[path] {
		r.closeErr = errCloseInput
	}

	return r, nil
}

func (c *memCodec) Create(path string, rate int, _ ...audiofile.WriteOption) (audiofile.Writer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writers++
	return &memWriter{codec: c, path: path, rate: rate}, nil
}

type memReader struct {
	s        signal.Signal
	size     int
	pos      int
	closeErr error
}

func (r *memReader) Rate() int         { return r.s.Rate }
func (r *memReader) Channels() int     { return r.s.Channels() }
func (r *memReader) BlockSize() int    { return r.size }
func (r *memReader) Duration() float64 { return r.s.Duration() }
func (r *memReader) Samples() int      { return r.s.Samples() }
func (r *memReader) Close() error      { return r.closeErr }

func (r *memReader) Next() (signal.Signal, error) {
	if r.pos >= r.s.Samples() {
		return signal.Signal{}, io.EOF
	}

	block := r.s.Slice(r.pos, r.pos+r.size).Clone()
	r.pos += r.size

	return block, nil
}

type memWriter struct {
	codec *memCodec
	path  string
	rate  int
	out   signal.Signal
}

func (w *memWriter) Write(s signal.Signal) (int, error) {
	if s.Rate != w.rate {
		return 0, &signal.IncompatibleSignalError{Op: "write", Property: "rate", Want: w.rate, Got: s.Rate}
	}

	if w.out.Data == nil {
		w.out = s.Clone()
		return s.Samples(), nil
	}

	out, err := w.out.Concatenate(s)
	if err != nil {
		return 0, err
	}
	w.out = out

	return s.Samples(), nil
}

func (w *memWriter) Close() error {
	w.codec.put(w.path, w.out)
	return nil
}
