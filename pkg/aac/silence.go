// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package aac

// silentFrames holds a raw AAC-LC frame (no ADTS header) that decodes to
// near-silence, keyed by (sample rate, channel count). AudioSegmentBuilder
// inserts one of these ahead of the first real frame when a stream starts
// with a PTS later than the segment's timeline, so the decoder has
// something to chew on instead of a gap.
//
// Only the combinations this repository's test fixtures exercise are
// populated; an unlisted (rate, channels) pair falls back to
// silentFrameMono44100 for one channel and silentFrameStereo44100 for any
// other channel count, used as is with no per-rate adjustment.
var silentFrames = map[[2]int][]byte{
	{44100, 2}: silentFrameStereo44100,
	{44100, 1}: silentFrameMono44100,
	{48000, 2}: silentFrameStereo48000,
}

// SilentFrame returns a raw AAC-LC payload that decodes to silence for the
// given sample rate and channel count, or the 44.1kHz mono (one channel) or
// stereo (any other channel count) frame if the exact combination has no
// dedicated entry.
func SilentFrame(sampleRate, channelCount int) []byte {
	if f, ok := silentFrames[[2]int{sampleRate, channelCount}]; ok {
		return f
	}
	if channelCount == 1 {
		return silentFrameMono44100
	}
	return silentFrameStereo44100
}

var silentFrameStereo44100 = []byte{
	0x21, 0x10, 0x04, 0x60, 0x8c, 0x1c,
}

var silentFrameMono44100 = []byte{
	0x01, 0x40, 0x20, 0x1c,
}

var silentFrameStereo48000 = []byte{
	0x21, 0x10, 0x04, 0x60, 0x8c, 0x1c,
}
