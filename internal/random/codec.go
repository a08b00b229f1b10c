package random

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// stateWriter appends checkpoint fields in wire order. Integers are little
// endian; strings and opaque generator state carry a u64 length prefix.
type stateWriter struct {
	buf bytes.Buffer
}

func (w *stateWriter) u32(v uint32) {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
}

func (w *stateWriter) u64(v uint64) {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
}

func (w *stateWriter) bytes(b []byte) {
	w.u64(uint64(len(b)))
	w.buf.Write(b)
}

func (w *stateWriter) str(s string) { w.bytes([]byte(s)) }

func (w *stateWriter) rng(r *RNG) error {
	state, err := r.gen.MarshalBinary()
	if err != nil {
		return fmt.Errorf("save rng state: %w", err)
	}
	w.u32(r.seed)
	w.str(r.typ)
	w.bytes(state)
	return nil
}

type stateReader struct {
	r *bytes.Reader
}

func newStateReader(data []byte) *stateReader {
	return &stateReader{r: bytes.NewReader(data)}
}

func (sr *stateReader) u32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(sr.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (sr *stateReader) u64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(sr.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (sr *stateReader) bytes() ([]byte, error) {
	n, err := sr.u64()
	if err != nil {
		return nil, err
	}
	if n > uint64(sr.r.Len()) {
		return nil, fmt.Errorf("%w: field length %d exceeds remaining %d bytes", ErrCorruptState, n, sr.r.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(sr.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return b, nil
}

func (sr *stateReader) str() (string, error) {
	b, err := sr.bytes()
	return string(b), err
}

// rngState is one decoded RNG record.
type rngState struct {
	seed  uint32
	typ   string
	state []byte
}

func (sr *stateReader) rng() (rngState, error) {
	var rs rngState
	var err error
	if rs.seed, err = sr.u32(); err != nil {
		return rs, err
	}
	if rs.typ, err = sr.str(); err != nil {
		return rs, err
	}
	rs.state, err = sr.bytes()
	return rs, err
}

// build constructs a fresh RNG from a decoded record.
func (rs rngState) build() (*RNG, error) {
	gen, err := active.New(rs.typ)
	if err != nil {
		return nil, err
	}
	if err := gen.UnmarshalBinary(rs.state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrGeneratorConstruction, rs.typ, err)
	}
	return &RNG{seed: rs.seed, typ: rs.typ, gen: gen}, nil
}

// MarshalBinary encodes seed, type and generator state.
func (r *RNG) MarshalBinary() ([]byte, error) {
	var w stateWriter
	if err := w.rng(r); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// UnmarshalBinary restores r in place from MarshalBinary output. r is left
// unchanged on error.
func (r *RNG) UnmarshalBinary(data []byte) error {
	rs, err := newStateReader(data).rng()
	if err != nil {
		return err
	}
	built, err := rs.build()
	if err != nil {
		return err
	}
	*r = *built
	return nil
}
