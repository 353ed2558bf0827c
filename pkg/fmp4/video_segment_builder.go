// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4"

	"github.com/q191201771/transmux/pkg/avc"
)

// VideoSegmentBuilder accumulates one video track's access units between
// fragments. A fragment only ever starts on a keyframe (ensureNextFrameIsKeyFrame),
// so any leading non-keyframe samples pushed right after a flush are
// dropped rather than producing an MSE segment a player can't seek to.
//
// Incoming NAL units do not necessarily line up one access unit per
// PushNalus call: a PES packet can carry more than one access unit, or an
// access unit can be split across two. PushNalus regroups on access-unit-
// delimiter boundaries and retains a still-incomplete trailing access unit
// in frameCache until a later call closes it out with the next AUD.
type VideoSegmentBuilder struct {
	frames                  []VideoSample
	ensureNextFrameKeyframe bool
	frameCache              []nalWithTiming
}

// nalWithTiming tags one NAL unit with the PTS/DTS of the elementary-stream
// unit it arrived in, so an access unit assembled from NALs spanning more
// than one such unit still inherits a single, correct timestamp pair.
type nalWithTiming struct {
	nalu []byte
	pts  int64
	dts  int64
}

func NewVideoSegmentBuilder() *VideoSegmentBuilder {
	return &VideoSegmentBuilder{ensureNextFrameKeyframe: true}
}

// PushNalus regroups raw Annex B NAL units into access units on access-unit-
// delimiter boundaries. Anything left in frameCache from the previous call
// is prepended first; everything before the first AUD in the combined run
// is dropped (it belongs to an access unit this builder already emitted or
// never saw the start of); the trailing access unit, which may still be
// incomplete, is retained in frameCache rather than emitted.
func (b *VideoSegmentBuilder) PushNalus(nalus [][]byte, pts, dts int64) {
	pending := b.frameCache
	for _, nalu := range nalus {
		pending = append(pending, nalWithTiming{nalu: nalu, pts: pts, dts: dts})
	}
	b.frameCache = nil

	start := -1
	for i, nt := range pending {
		if avc.IsAccessUnitDelimiter(nt.nalu) {
			start = i
			break
		}
	}
	if start == -1 {
		return
	}
	pending = pending[start:]

	frameStart := 0
	for i := 1; i < len(pending); i++ {
		if avc.IsAccessUnitDelimiter(pending[i].nalu) {
			b.pushAssembledFrame(pending[frameStart:i])
			frameStart = i
		}
	}
	b.frameCache = pending[frameStart:]
}

// Drain forces out whatever access unit is still waiting in frameCache. Only
// the end of the stream calls this: a PartialFlush must leave frameCache
// alone, since the NALs completing that access unit may still be on the
// way in the next Push.
func (b *VideoSegmentBuilder) Drain() {
	if len(b.frameCache) == 0 {
		return
	}
	b.pushAssembledFrame(b.frameCache)
	b.frameCache = nil
}

// pushAssembledFrame turns one AUD-delimited run of NALs into a VideoSample
// (PTS/DTS from the first non-AUD NAL, keyframe if any NAL is an IDR slice)
// and hands it to Push.
func (b *VideoSegmentBuilder) pushAssembledFrame(f []nalWithTiming) {
	if len(f) == 0 {
		return
	}
	nalus := make([][]byte, 0, len(f))
	var pts, dts int64
	havePts := false
	isKeyframe := false
	for _, nt := range f {
		nalus = append(nalus, nt.nalu)
		if avc.IsAccessUnitDelimiter(nt.nalu) {
			continue
		}
		if !havePts {
			pts, dts = nt.pts, nt.dts
			havePts = true
		}
		if avc.IsKeyframeNalu(nt.nalu) {
			isKeyframe = true
		}
	}
	b.Push(VideoSample{Pts: pts, Dts: dts, Nalus: nalus, IsKeyframe: isKeyframe})
}

// Push buffers one access unit. It returns false if the sample was dropped
// because a fresh fragment needs a keyframe and this wasn't one.
func (b *VideoSegmentBuilder) Push(s VideoSample) bool {
	if b.ensureNextFrameKeyframe {
		if !s.IsKeyframe {
			return false
		}
		b.ensureNextFrameKeyframe = false
	}
	b.frames = append(b.frames, s)
	return true
}

func (b *VideoSegmentBuilder) Len() int {
	return len(b.frames)
}

// FrameFlush pairs one fmp4 sample with the base time its own fragment must
// use, for a caller emitting one moof+mdat per frame instead of one
// aggregated fragment covering every buffered frame.
type FrameFlush struct {
	Sample   *fmp4.Sample
	BaseTime uint64
}

// FlushFrames converts every buffered access unit into its own fmp4.Sample,
// each paired with its own base time, using the gap to the next frame's DTS
// as that frame's duration (the last frame reuses the previous frame's
// duration, or falls back to `fallbackDuration` when only one frame was
// buffered). It always leaves the builder ready for the next fragment to
// start on a keyframe.
func (b *VideoSegmentBuilder) FlushFrames(fallbackDuration uint32) []FrameFlush {
	if len(b.frames) == 0 {
		return nil
	}

	out := make([]FrameFlush, 0, len(b.frames))
	lastDuration := fallbackDuration
	for i, f := range b.frames {
		duration := fallbackDuration
		if i+1 < len(b.frames) {
			duration = uint32(b.frames[i+1].Dts - f.Dts)
			lastDuration = duration
		} else {
			duration = lastDuration
		}
		out = append(out, FrameFlush{Sample: buildFmp4VideoSample(f, duration), BaseTime: uint64(f.Dts)})
	}

	b.frames = nil
	b.ensureNextFrameKeyframe = true
	return out
}

// Flush converts every buffered access unit into one aggregated run of
// mediacommon samples sharing a single fragment base time (the first
// frame's DTS), for a caller that wants one moof+mdat covering everything
// buffered rather than per-frame fragments.
func (b *VideoSegmentBuilder) Flush(fallbackDuration uint32) (samples []*fmp4.Sample, baseTime uint64, ok bool) {
	if len(b.frames) == 0 {
		return nil, 0, false
	}
	baseTime = uint64(b.frames[0].Dts)

	frames := b.FlushFrames(fallbackDuration)
	samples = make([]*fmp4.Sample, len(frames))
	for i, f := range frames {
		samples[i] = f.Sample
	}
	return samples, baseTime, true
}

// Reset discards any buffered frames without emitting them, used when a
// track is reset mid-stream.
func (b *VideoSegmentBuilder) Reset() {
	b.frames = nil
	b.frameCache = nil
	b.ensureNextFrameKeyframe = true
}
