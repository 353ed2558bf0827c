// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestBuildFmp4VideoSampleConvertsToLengthPrefixedAndDropsAud(t *testing.T) {
	aud := []byte{0x09, 0xf0}
	idr := []byte{0x65, 0xaa, 0xbb}
	s := VideoSample{
		Pts:        1003,
		Dts:        1000,
		Nalus:      [][]byte{aud, idr},
		IsKeyframe: true,
	}
	sample := buildFmp4VideoSample(s, 3000)

	assert.Equal(t, uint32(3000), sample.Duration)
	assert.Equal(t, int32(3), sample.PTSOffset)
	assert.Equal(t, false, sample.IsNonSyncSample)

	want := []byte{0x00, 0x00, 0x00, 0x03, 0x65, 0xaa, 0xbb}
	assert.Equal(t, want, sample.Payload)
}

func TestBuildFmp4VideoSampleNonKeyframe(t *testing.T) {
	slice := []byte{0x41, 0x01}
	s := VideoSample{Pts: 100, Dts: 100, Nalus: [][]byte{slice}}
	sample := buildFmp4VideoSample(s, 3000)
	assert.Equal(t, true, sample.IsNonSyncSample)
}

func TestBuildFmp4AudioSampleStripsAdtsHeader(t *testing.T) {
	// a minimal 7-byte ADTS header in front of 2 bytes of raw payload.
	frame := []byte{0xff, 0xf1, 0x4c, 0x80, 0x01, 0x7f, 0xfc, 0xaa, 0xbb}
	sample := buildFmp4AudioSample(frame, 1024)
	assert.Equal(t, uint32(1024), sample.Duration)
	assert.Equal(t, []byte{0xaa, 0xbb}, sample.Payload)
}

func TestBuildFmp4AudioSamplePassesThroughRawPayload(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	sample := buildFmp4AudioSample(raw, 1024)
	assert.Equal(t, raw, sample.Payload)
}
