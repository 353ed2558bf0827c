// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestAudioSegmentBuilderFlushFixedFrameDuration(t *testing.T) {
	b := NewAudioSegmentBuilder(44100, 2)
	b.Push(AudioSample{Pts: 0, Data: []byte{0x01, 0x02}})
	b.Push(AudioSample{Pts: 1024, Data: []byte{0x03, 0x04}})

	samples, baseTime, ok := b.Flush()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(0), baseTime)
	assert.Equal(t, 2, len(samples))
	assert.Equal(t, uint32(1024), samples[0].Duration)
	assert.Equal(t, []byte{0x01, 0x02}, samples[0].Payload)
}

func TestAudioSegmentBuilderInsertsSilenceToReachAppendStart(t *testing.T) {
	b := NewAudioSegmentBuilder(44100, 2)
	b.SetAppendStart(0)
	b.Push(AudioSample{Pts: 2048, Data: []byte{0xaa}})

	samples, baseTime, ok := b.Flush()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(0), baseTime)
	// two silent frames (1024 samples each) pad the 2048-sample gap.
	assert.Equal(t, 3, len(samples))
	assert.Equal(t, []byte{0xaa}, samples[2].Payload)
}

func TestAudioSegmentBuilderFlushEmptyReturnsFalse(t *testing.T) {
	b := NewAudioSegmentBuilder(44100, 2)
	_, _, ok := b.Flush()
	assert.Equal(t, false, ok)
}

func TestAudioSegmentBuilderDiscardsFramesBeforeEarliestAllowedDts(t *testing.T) {
	b := NewAudioSegmentBuilder(44100, 2)
	b.SetEarliestAllowedDts(2048)
	b.Push(AudioSample{Pts: 0, Data: []byte{0x01}})
	b.Push(AudioSample{Pts: 1024, Data: []byte{0x02}})
	b.Push(AudioSample{Pts: 2048, Data: []byte{0x03}})
	b.Push(AudioSample{Pts: 3072, Data: []byte{0x04}})

	samples, baseTime, ok := b.Flush()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(2048), baseTime)
	assert.Equal(t, 2, len(samples))
	assert.Equal(t, []byte{0x03}, samples[0].Payload)
}

func TestAudioSegmentBuilderClearEarliestAllowedDtsStopsDiscarding(t *testing.T) {
	b := NewAudioSegmentBuilder(44100, 2)
	b.SetEarliestAllowedDts(2048)
	b.ClearEarliestAllowedDts()
	b.Push(AudioSample{Pts: 0, Data: []byte{0x01}})

	samples, _, ok := b.Flush()
	assert.Equal(t, true, ok)
	assert.Equal(t, 1, len(samples))
}
