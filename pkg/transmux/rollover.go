// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

const (
	// MaxTimestamp is 2^33, one past the largest value a 33-bit PTS/DTS
	// field can hold.
	MaxTimestamp = 1 << 33
	// RolloverThreshold is 2^32; any jump larger than this between a
	// track's reference timestamp and its next raw timestamp is treated
	// as a wraparound rather than a legitimate seek.
	RolloverThreshold = 1 << 32
)

// Rollover corrects the 33-bit wraparound every TS timestamp field is
// subject to, keyed per track since video and audio wrap independently of
// each other (they share the 90kHz clock but not a common reference
// point). It has no meaning outside the lifetime of one timeline: Reset
// clears the reference so the next push after an EndTimeline starts a new
// unwrapped sequence.
type Rollover struct {
	reference int64
	set       bool
}

// Correct unwraps `pts`/`dts` relative to the last corrected DTS this
// track has seen. The first call on a fresh Rollover seeds the reference
// from `dts` and returns the inputs unchanged.
func (r *Rollover) Correct(pts, dts int64) (correctedPts, correctedDts int64) {
	if !r.set {
		r.reference = dts
		r.set = true
	}
	correctedDts = unwrap(dts, r.reference)
	correctedPts = unwrap(pts, r.reference)
	r.reference = correctedDts
	return
}

func (r *Rollover) Reset() {
	r.reference = 0
	r.set = false
}

// unwrap adds or subtracts MaxTimestamp until `value` lands within
// RolloverThreshold of `reference`, picking the direction based on which
// side of the reference the raw value falls on. A seek larger than
// RolloverThreshold (~13.25 hours at 90kHz) is indistinguishable from a
// rollover and will be mis-corrected; that is a known edge case of this
// scheme, not a defect in it.
func unwrap(value, reference int64) int64 {
	if value == reference {
		return value
	}

	direction := int64(1)
	if value > reference {
		direction = -1
	}

	for abs64(reference-value) > RolloverThreshold {
		value += direction * MaxTimestamp
	}
	return value
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
