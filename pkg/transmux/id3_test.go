// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func buildId3Tag(body []byte) []byte {
	header := []byte{
		'I', 'D', '3',
		0x04, 0x00, // version
		0x00, // flags
		0x00, 0x00, 0x00, 0x00, // synchsafe size, filled below
	}
	n := len(body)
	header[6] = byte(n >> 21 & 0x7f)
	header[7] = byte(n >> 14 & 0x7f)
	header[8] = byte(n >> 7 & 0x7f)
	header[9] = byte(n & 0x7f)
	return append(header, body...)
}

func TestIsId3TagRecognizesMarker(t *testing.T) {
	assert.Equal(t, true, IsId3Tag([]byte{'I', 'D', '3', 0x04}))
	assert.Equal(t, false, IsId3Tag([]byte{'X', 'D', '3'}))
	assert.Equal(t, false, IsId3Tag([]byte{'I', 'D'}))
}

func TestParseId3TagSizeDecodesSynchsafeInteger(t *testing.T) {
	header := buildId3Tag(make([]byte, 200))[:10]
	assert.Equal(t, 200, ParseId3TagSize(header))
}

func TestParseId3FrameReturnsExactlyTheDeclaredBytes(t *testing.T) {
	body := []byte{0x01, 0x02, 0x03, 0x04}
	tag := buildId3Tag(body)
	tag = append(tag, 0xde, 0xad) // trailing bytes belonging to the next unit

	frame := ParseId3Frame(1000, 900, tag)
	assert.Equal(t, int64(1000), frame.Pts)
	assert.Equal(t, int64(900), frame.Dts)
	assert.Equal(t, id3HeaderLength+len(body), len(frame.Raw))
}

func TestParseId3FrameComputesCueTimeFromPts(t *testing.T) {
	tag := buildId3Tag([]byte{0x01})
	frame := ParseId3Frame(180000, 180000, tag) // 2 seconds at the 90kHz clock
	assert.Equal(t, float64(2), frame.CueTime)
}

func TestParseId3FrameReturnsNilWithoutMarker(t *testing.T) {
	frame := ParseId3Frame(0, 0, []byte{0x00, 0x01, 0x02})
	assert.Equal(t, true, frame == nil)
}

func TestParseId3FrameTruncatesToAvailableBytes(t *testing.T) {
	tag := buildId3Tag(make([]byte, 50))
	short := tag[:20] // declared size is larger than what's actually present
	frame := ParseId3Frame(0, 0, short)
	assert.Equal(t, 20, len(frame.Raw))
}
