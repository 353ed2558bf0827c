// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4"

	"github.com/q191201771/transmux/pkg/aac"
)

// AudioSegmentBuilder accumulates one audio track's frames between
// fragments, optionally padding the very first fragment with silent frames
// so the audio and video tracks of a segment start at the same wall-clock
// offset (the "audio append start" alignment MSE playback relies on).
type AudioSegmentBuilder struct {
	sampleRate   int
	channelCount int
	timescale    int

	frames        []AudioSample
	appendStartAt int64
	haveAppendAt  bool

	earliestAllowedPts  int64
	haveEarliestAllowed bool
}

func NewAudioSegmentBuilder(sampleRate, channelCount int) *AudioSegmentBuilder {
	return &AudioSegmentBuilder{
		sampleRate:   sampleRate,
		channelCount: channelCount,
		timescale:    sampleRate,
	}
}

// SetAppendStart pins the PTS the first media segment's audio must start
// at; Flush prepends as many whole silent frames as fit between it and the
// first real frame, instead of leaving a gap MSE would otherwise stall on.
func (b *AudioSegmentBuilder) SetAppendStart(pts int64) {
	b.appendStartAt = pts
	b.haveAppendAt = true
}

// SetEarliestAllowedDts pins the PTS (in this builder's own timescale) below
// which Flush discards buffered frames outright, the way the video track's
// timeline start bounds how far behind audio is allowed to lag.
func (b *AudioSegmentBuilder) SetEarliestAllowedDts(pts int64) {
	b.earliestAllowedPts = pts
	b.haveEarliestAllowed = true
}

// ClearEarliestAllowedDts drops a previously configured earliest-allowed-DTS
// bound, used when a discontinuity means the old video timeline start no
// longer applies.
func (b *AudioSegmentBuilder) ClearEarliestAllowedDts() {
	b.earliestAllowedPts = 0
	b.haveEarliestAllowed = false
}

func (b *AudioSegmentBuilder) Push(s AudioSample) {
	b.frames = append(b.frames, s)
}

func (b *AudioSegmentBuilder) Len() int {
	return len(b.frames)
}

func (b *AudioSegmentBuilder) frameDuration() uint32 {
	if b.sampleRate == 0 {
		return aac.SamplesPerAacFrame
	}
	return uint32(aac.SamplesPerAacFrame * b.timescale / b.sampleRate)
}

// Flush converts every buffered frame into mediacommon samples at the
// fixed 1024-samples-per-frame AAC duration, inserting leading silent
// frames if SetAppendStart requested an alignment this batch doesn't
// already satisfy.
func (b *AudioSegmentBuilder) Flush() (samples []*fmp4.Sample, baseTime uint64, ok bool) {
	if b.haveEarliestAllowed {
		kept := b.frames[:0]
		for _, f := range b.frames {
			if f.Pts >= b.earliestAllowedPts {
				kept = append(kept, f)
			}
		}
		b.frames = kept
	}
	if len(b.frames) == 0 {
		return nil, 0, false
	}

	duration := b.frameDuration()
	baseTime = uint64(b.frames[0].Pts)

	if b.haveAppendAt {
		gap := b.frames[0].Pts - b.appendStartAt
		if gap > 0 && duration > 0 {
			silentCount := int(gap) / int(duration)
			silence := aac.SilentFrame(b.sampleRate, b.channelCount)
			for i := 0; i < silentCount; i++ {
				samples = append(samples, &fmp4.Sample{Duration: duration, Payload: silence})
			}
			baseTime = uint64(b.frames[0].Pts - int64(silentCount)*int64(duration))
		}
		b.haveAppendAt = false
	}

	for _, f := range b.frames {
		samples = append(samples, buildFmp4AudioSample(f.Data, duration))
	}

	b.frames = nil
	return samples, baseTime, true
}

func (b *AudioSegmentBuilder) Reset() {
	b.frames = nil
	b.haveAppendAt = false
	b.haveEarliestAllowed = false
}
