// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package base

import (
	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/naza/pkg/nazalog"
	"testing"
)

func TestBuffer(t *testing.T) {
	golden := []byte("1234567890")

	b := NewBuffer(8)
	assert.Equal(t, nil, b.Bytes())
	assert.Equal(t, 8, len(b.WritableBytes()))
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 8, b.Cap())

	// plain write/read
	b.Grow(5)
	buf := b.WritableBytes()[:5]
	assert.Equal(t, nil, b.Bytes())
	copy(buf, golden[:5])
	b.Flush(5)
	buf = b.Bytes()
	assert.Equal(t, golden[:5], buf)
	assert.Equal(t, 5, b.Len())
	b.Skip(5)
	assert.Equal(t, nil, b.Bytes())
	assert.Equal(t, 8, len(b.WritableBytes()))
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 8, b.Cap())

	// triggers a realloc
	buf = b.ReserveBytes(10)
	copy(buf, golden)
	b.Flush(10)
	buf = b.Bytes()
	assert.Equal(t, golden, buf)
	b.Skip(10)
	assert.Equal(t, nil, b.Bytes())
	assert.Equal(t, 16, len(b.WritableBytes()))
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 16, b.Cap())

	// grows using reclaimed head space
	buf = b.ReserveBytes(10)
	copy(buf, golden)
	b.Flush(10)
	b.Skip(2)
	buf = b.ReserveBytes(7)
	copy(buf, golden[:7])
	b.Flush(7)
	nazalog.Debugf("%s", string(b.Bytes()))
	assert.Equal(t, golden[2:], b.Bytes()[:8])
	assert.Equal(t, golden[:7], b.Bytes()[8:])
	assert.Equal(t, 15, b.Len())
	assert.Equal(t, 16, b.Cap())

	// boundary values
	b.Reset()
	b.Flush(b.Cap())
	assert.Equal(t, nil, b.WritableBytes())

	// out-of-range calls clamp rather than panic
	b.Reset()
	b.Skip(1)
	assert.Equal(t, nil, b.Bytes())
	b.Flush(b.Cap() + 1)
	assert.Equal(t, b.Cap(), b.Len())

	// smallest possible initial capacity
	b = NewBuffer(1)
	buf = b.ReserveBytes(2)
}

// TestBufferGrowReallocPreservesUnreadDataWithNonZeroReadPos covers a
// realloc triggered while some, but not all, buffered data has already
// been read: the unread tail must land at the front of the new backing
// array with a wpos that reflects only the bytes actually carried over.
func TestBufferGrowReallocPreservesUnreadDataWithNonZeroReadPos(t *testing.T) {
	golden := []byte("1234567890")

	b := NewBuffer(8)
	buf := b.ReserveBytes(5)
	copy(buf, golden[:5])
	b.Flush(5)
	b.Skip(2) // rpos=2, wpos=5: 3 unread bytes remain, buffer not empty

	buf = b.ReserveBytes(10) // more than (cap-wpos)+rpos can satisfy: forces a realloc
	assert.Equal(t, golden[2:5], b.Bytes())
	assert.Equal(t, 3, b.Len())
	copy(buf, golden[5:])
	b.Flush(5)
	assert.Equal(t, golden[2:], b.Bytes())
}
