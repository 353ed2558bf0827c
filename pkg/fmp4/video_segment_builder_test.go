// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestVideoSegmentBuilderDropsLeadingNonKeyframe(t *testing.T) {
	b := NewVideoSegmentBuilder()
	ok := b.Push(VideoSample{Pts: 100, Dts: 100, Nalus: [][]byte{{0x41}}})
	assert.Equal(t, false, ok)
	assert.Equal(t, 0, b.Len())

	ok = b.Push(VideoSample{Pts: 200, Dts: 200, Nalus: [][]byte{{0x65}}, IsKeyframe: true})
	assert.Equal(t, true, ok)
	assert.Equal(t, 1, b.Len())
}

func TestVideoSegmentBuilderFlushComputesDurationsFromDtsGaps(t *testing.T) {
	b := NewVideoSegmentBuilder()
	b.Push(VideoSample{Pts: 0, Dts: 0, Nalus: [][]byte{{0x65}}, IsKeyframe: true})
	b.Push(VideoSample{Pts: 3000, Dts: 3000, Nalus: [][]byte{{0x41}}})
	b.Push(VideoSample{Pts: 6000, Dts: 6000, Nalus: [][]byte{{0x41}}})

	samples, baseTime, ok := b.Flush(9000)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(0), baseTime)
	assert.Equal(t, 3, len(samples))
	assert.Equal(t, uint32(3000), samples[0].Duration)
	assert.Equal(t, uint32(3000), samples[1].Duration)
	// last sample reuses the previous gap rather than the fallback.
	assert.Equal(t, uint32(3000), samples[2].Duration)

	// after a flush the builder requires a fresh keyframe again.
	assert.Equal(t, 0, b.Len())
	ok = b.Push(VideoSample{Pts: 9000, Dts: 9000, Nalus: [][]byte{{0x41}}})
	assert.Equal(t, false, ok)
}

func TestVideoSegmentBuilderFlushFramesReturnsOnePerBufferedAccessUnit(t *testing.T) {
	b := NewVideoSegmentBuilder()
	b.Push(VideoSample{Pts: 0, Dts: 0, Nalus: [][]byte{{0x65}}, IsKeyframe: true})
	b.Push(VideoSample{Pts: 3000, Dts: 3000, Nalus: [][]byte{{0x41}}})
	b.Push(VideoSample{Pts: 6000, Dts: 6000, Nalus: [][]byte{{0x41}}})

	frames := b.FlushFrames(9000)
	assert.Equal(t, 3, len(frames))
	assert.Equal(t, uint64(0), frames[0].BaseTime)
	assert.Equal(t, uint64(3000), frames[1].BaseTime)
	assert.Equal(t, uint64(6000), frames[2].BaseTime)
	assert.Equal(t, uint32(3000), frames[0].Sample.Duration)
	assert.Equal(t, uint32(3000), frames[1].Sample.Duration)
	// last frame reuses the previous gap rather than the fallback.
	assert.Equal(t, uint32(3000), frames[2].Sample.Duration)

	// after flushing, a fresh keyframe is required again.
	assert.Equal(t, 0, b.Len())
	ok := b.Push(VideoSample{Pts: 9000, Dts: 9000, Nalus: [][]byte{{0x41}}})
	assert.Equal(t, false, ok)
}

func TestVideoSegmentBuilderFlushFramesEmptyReturnsNil(t *testing.T) {
	b := NewVideoSegmentBuilder()
	frames := b.FlushFrames(3000)
	assert.Equal(t, 0, len(frames))
}

func TestVideoSegmentBuilderFlushEmptyReturnsFalse(t *testing.T) {
	b := NewVideoSegmentBuilder()
	_, _, ok := b.Flush(3000)
	assert.Equal(t, false, ok)
}

func TestVideoSegmentBuilderSingleFrameUsesFallbackDuration(t *testing.T) {
	b := NewVideoSegmentBuilder()
	b.Push(VideoSample{Pts: 0, Dts: 0, Nalus: [][]byte{{0x65}}, IsKeyframe: true})
	samples, _, ok := b.Flush(3003)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint32(3003), samples[0].Duration)
}

func TestVideoSegmentBuilderPushNalusGroupsOnAccessUnitDelimiters(t *testing.T) {
	b := NewVideoSegmentBuilder()
	// one ES unit carrying two access units back to back: AUD+IDR, AUD+slice.
	b.PushNalus([][]byte{{0x09}, {0x65}, {0x09}, {0x41}}, 0, 0)
	assert.Equal(t, 1, b.Len()) // the second access unit stays in frameCache

	// a later ES unit's bytes complete the second access unit and open a third.
	b.PushNalus([][]byte{{0x41}, {0x09}, {0x41}}, 3000, 3000)
	assert.Equal(t, 2, b.Len())

	samples, _, ok := b.Flush(3000)
	assert.Equal(t, true, ok)
	assert.Equal(t, 2, len(samples))
}

func TestVideoSegmentBuilderPushNalusDropsBytesBeforeFirstAud(t *testing.T) {
	b := NewVideoSegmentBuilder()
	b.PushNalus([][]byte{{0x65}, {0x41}}, 0, 0) // no AUD seen yet: nothing to retain
	assert.Equal(t, 0, b.Len())

	b.PushNalus([][]byte{{0x09}, {0x65}}, 1000, 1000)
	b.Drain()
	assert.Equal(t, 1, b.Len())
}

func TestVideoSegmentBuilderDrainForcesOutTrailingFrameCache(t *testing.T) {
	b := NewVideoSegmentBuilder()
	b.PushNalus([][]byte{{0x09}, {0x65}}, 500, 500)
	assert.Equal(t, 0, b.Len())

	b.Drain()
	assert.Equal(t, 1, b.Len())

	samples, baseTime, ok := b.Flush(3000)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(500), baseTime)
	assert.Equal(t, 1, len(samples))
}
