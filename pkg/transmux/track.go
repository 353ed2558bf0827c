// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package transmux assembles MPEG-2 TS packets (or a bare ADTS AAC byte
// stream) into per-track elementary frames, corrects 33-bit PTS/DTS
// rollover, and drives pkg/fmp4's segment builders. The Transmuxer exposes
// one contract (Push, Flush, PartialFlush, EndTimeline, Reset), and every
// stage below it is called synchronously and reentrantly from a single
// goroutine. There is no
// worker pool and no backpressure; a caller that wants concurrency runs
// multiple Transmuxer instances, one per input stream.
package transmux

import "github.com/q191201771/transmux/pkg/avc"

type TrackType uint8

const (
	TrackTypeVideo TrackType = iota
	TrackTypeAudio
	TrackTypeTimedMetadata
)

// VideoTimescale is fixed at the MPEG TS clock rate; every video track uses
// it regardless of frame rate. Audio tracks use their own sample rate.
const VideoTimescale = 90000

// Track accumulates the codec parameters and running PTS/DTS bounds needed
// to emit both an init segment and media segments for one elementary
// stream.
type Track struct {
	Id   int
	Type TrackType
	Pid  uint16

	// video
	Sps           []byte
	Pps           []byte
	SpsInfo       avc.Sps
	Width         uint32
	Height        uint32
	Profile       uint8
	ProfileCompat uint8
	Level         uint8

	// audio
	SampleRate   int
	ChannelCount int
	ObjectType   uint8

	Timescale int

	TimelineStartInfo TimelineStartInfo
}

// TimelineStartInfo records the PTS/DTS of the first sample this track saw
// since the last EndTimeline or Reset, plus Baseline: the 90kHz DTS of the
// very first sample any track in the Transmuxer saw over that same span.
// Baseline is what a normalized baseMediaDecodeTime is computed relative to
// (see Transmuxer.normalizeBaseTime), so that a track which starts partway
// through the stream still lines up with one that started earlier, rather
// than each track separately resetting to zero at its own first sample.
type TimelineStartInfo struct {
	Baseline int64
	Pts      int64
	Dts      int64
	Set      bool
}

func NewTrack(id int, typ TrackType, pid uint16) *Track {
	return &Track{Id: id, Type: typ, Pid: pid}
}

// resetTimelineStart clears the recorded timeline start, used on EndTimeline
// and Reset so the next sample re-seeds it.
func (t *Track) resetTimelineStart() {
	t.TimelineStartInfo = TimelineStartInfo{}
}
