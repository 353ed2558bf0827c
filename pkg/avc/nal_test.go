// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package avc

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestSplitAnnexB(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x01, 0x09, 0xf0, // AUD
		0x00, 0x00, 0x01, 0x67, 0xaa, 0xbb, // SPS
		0x00, 0x00, 0x01, 0x65, 0xcc, // IDR slice
	}
	nalus := SplitAnnexB(data)
	assert.Equal(t, 3, len(nalus))
	assert.Equal(t, NaluTypeAud, NaluType(nalus[0]))
	assert.Equal(t, NaluTypeSps, NaluType(nalus[1]))
	assert.Equal(t, NaluTypeIdr, NaluType(nalus[2]))
	assert.Equal(t, true, IsAccessUnitDelimiter(nalus[0]))
	assert.Equal(t, true, IsKeyframeNalu(nalus[2]))
}

func TestSplitAnnexBNoStartCode(t *testing.T) {
	nalus := SplitAnnexB([]byte{0x01, 0x02, 0x03})
	assert.Equal(t, 0, len(nalus))
}

func TestStripEmulationPrevention(t *testing.T) {
	in := []byte{0x00, 0x00, 0x03, 0x01, 0x00, 0x00, 0x03, 0x02}
	out := StripEmulationPrevention(in)
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x02}, out)
}

func TestStripEmulationPreventionNoOp(t *testing.T) {
	in := []byte{0x67, 0x42, 0x00, 0x1e}
	out := StripEmulationPrevention(in)
	assert.Equal(t, in, out)
}
