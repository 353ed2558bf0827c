// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package avc

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

// handCraftedBaselineSps is a synthetic baseline-profile SPS RBSP (not
// captured from a real encoder) whose exp-Golomb fields were worked out by
// hand to describe a 176x144 (QCIF) picture: seq_parameter_set_id=0,
// pic_order_cnt_type=2, pic_width_in_mbs_minus1=10,
// pic_height_in_map_units_minus1=8, frame_mbs_only_flag=1, no cropping.
var handCraftedBaselineSps = []byte{0x67, 0x42, 0xc0, 0x1e, 0xda, 0x0b, 0x13, 0x80}

func TestParseSpsBaseline(t *testing.T) {
	sps, err := ParseSps(handCraftedBaselineSps)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint8(66), sps.ProfileIdc)
	assert.Equal(t, uint8(30), sps.LevelIdc)
	assert.Equal(t, uint32(0), sps.SpsId)
	assert.Equal(t, uint32(2), sps.PicOrderCntType)
	assert.Equal(t, uint32(176), sps.Width)
	assert.Equal(t, uint32(144), sps.Height)
	assert.Equal(t, uint32(1), sps.ChromaFormatIdc)
	assert.Equal(t, uint32(8), sps.BitDepthLuma)
}

func TestParseSpsTruncatedReturnsError(t *testing.T) {
	_, err := ParseSps(handCraftedBaselineSps[:4])
	assert.Equal(t, true, err != nil)
}

