// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package fmp4 builds fragmented ISO BMFF init and media segments for MSE
// playback, on top of github.com/bluenviron/mediacommon/v2's box marshaler.
// This package supplies the domain glue: converting Annex B NAL units and
// ADTS AAC frames into the length-prefixed samples that library expects, and
// sequencing the init-segment-once / media-segment-per-fragment lifecycle a
// transmuxer needs.
package fmp4

import (
	"bytes"
	"fmt"
	"io"
)

// seekableBuffer adapts a bytes.Buffer to the io.WriteSeeker the
// mediacommon marshalers require, since they backpatch box sizes after
// writing a box's children. Every call from this package seeks only
// backwards into bytes already written, never past the current length.
type seekableBuffer struct {
	buf bytes.Buffer
	pos int64
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	if s.pos == int64(s.buf.Len()) {
		n, err := s.buf.Write(p)
		s.pos += int64(n)
		return n, err
	}
	b := s.buf.Bytes()
	n := copy(b[s.pos:], p)
	if n < len(p) {
		m, err := s.buf.Write(p[n:])
		n += m
		s.pos += int64(n)
		return n, err
	}
	s.pos += int64(n)
	return n, nil
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = s.pos + offset
	case io.SeekEnd:
		newPos = int64(s.buf.Len()) + offset
	default:
		return 0, fmt.Errorf("transmux.fmp4: invalid seek whence %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("transmux.fmp4: negative seek position")
	}
	s.pos = newPos
	return newPos, nil
}

func (s *seekableBuffer) Bytes() []byte {
	return s.buf.Bytes()
}
