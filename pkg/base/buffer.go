// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package base

import (
	"fmt"
	"github.com/q191201771/naza/pkg/nazalog"
)

const growRoundThreshold = 1048576 // 1MB

// Buffer is a FIFO, growable byte buffer that lets callers read and write
// its backing slice directly without copying.
//
// Every stage in pkg/transmux that must hold a partial wire structure across
// a Push call (a trailing TS tail, a PES packet still accumulating its
// declared length, an ADTS frame waiting on more bytes) carries its pending
// bytes in one of these: PacketSplitter's TS sync carry, ElementaryAssembler's
// per-PID PES accumulator, and Transmuxer's ADTS byte carry all follow the
// same two shapes.
//
//	read, zero-copy
//	  buf := b.Bytes()
//	  ... consume buf ...
//	  b.Skip(len(buf))
//
//	write, zero-copy
//	  buf := b.ReserveBytes(n)
//	  ... fill buf ...
//	  b.Flush(n)
type Buffer struct {
	core []byte
	rpos int
	wpos int
}

func NewBuffer(initCap int) *Buffer {
	return &Buffer{
		core: make([]byte, initCap, initCap),
	}
}

// ---------------------------------------------------------------------------------------------------------------------

// Bytes returns all unread data, zero-copy.
func (b *Buffer) Bytes() []byte {
	if b.rpos == b.wpos {
		return nil
	}
	return b.core[b.rpos:b.wpos]
}

// Skip marks the leading `n` unread bytes as consumed.
func (b *Buffer) Skip(n int) {
	if n > b.wpos-b.rpos {
		nazalog.Warnf("[%p] Buffer::Skip too large. n=%d, %s", b, n, b.DebugString())
		b.Reset()
		return
	}
	b.rpos += n
	b.resetIfEmpty()
}

// ---------------------------------------------------------------------------------------------------------------------

// Grow ensures at least `n` bytes of writable space, growing the backing
// store if needed.
func (b *Buffer) Grow(n int) {
	tail := len(b.core) - b.wpos
	if tail >= n {
		return
	}

	if b.rpos+tail >= n {
		// head + tail free space is enough: slide unread data to the front
		// and reclaim the head.
		nazalog.Debugf("[%p] Buffer::Grow. move, n=%d, copy=%d", b, n, b.Len())
		copy(b.core, b.core[b.rpos:b.wpos])
		b.wpos -= b.rpos
		b.rpos = 0
		return
	}

	needed := b.Len() + n
	if needed < growRoundThreshold {
		needed = roundUpPowerOfTwo(needed)
	}

	nazalog.Debugf("[%p] Buffer::Grow. realloc, n=%d, copy=%d, cap=(%d, %d)", b, n, b.Len(), b.Cap(), needed)
	core := make([]byte, needed, needed)
	copy(core, b.core[b.rpos:b.wpos])
	b.core = core
	b.wpos -= b.rpos
	b.rpos = 0
}

// WritableBytes returns the slice currently available for writing.
func (b *Buffer) WritableBytes() []byte {
	if len(b.core) == b.wpos {
		return nil
	}
	return b.core[b.wpos:]
}

// ReserveBytes returns a slice of exactly `n` writable bytes, growing the
// buffer first if the free space is insufficient.
func (b *Buffer) ReserveBytes(n int) []byte {
	b.Grow(n)
	return b.WritableBytes()[:n]
}

// Flush commits the `n` bytes just written, advancing the write position.
func (b *Buffer) Flush(n int) {
	if len(b.core)-b.wpos < n {
		nazalog.Warnf("[%p] Buffer::Flush too large. n=%d, %s", b, n, b.DebugString())
		b.wpos = len(b.core)
		return
	}
	b.wpos += n
}

// ---------------------------------------------------------------------------------------------------------------------

// Reset clears the buffer. The backing array is not released.
func (b *Buffer) Reset() {
	b.rpos = 0
	b.wpos = 0
}

// ---------------------------------------------------------------------------------------------------------------------

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.wpos - b.rpos
}

// Cap returns the size of the backing array.
func (b *Buffer) Cap() int {
	return cap(b.core)
}

// ---------------------------------------------------------------------------------------------------------------------

func (b *Buffer) DebugString() string {
	return fmt.Sprintf("len(core)=%d, rpos=%d, wpos=%d", len(b.core), b.rpos, b.wpos)
}

// ---------------------------------------------------------------------------------------------------------------------

func (b *Buffer) resetIfEmpty() {
	if b.rpos == b.wpos {
		b.Reset()
	}
}

func roundUpPowerOfTwo(n int) int {
	if n <= 2 {
		return 2
	}

	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
