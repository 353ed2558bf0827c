// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestRolloverFirstCallSeedsReference(t *testing.T) {
	var r Rollover
	pts, dts := r.Correct(1000, 900)
	assert.Equal(t, int64(1000), pts)
	assert.Equal(t, int64(900), dts)
}

func TestRolloverCorrectsForwardWrap(t *testing.T) {
	var r Rollover
	// reference sits just below the 33-bit ceiling; the stream then wraps
	// and reports a small raw value for what is really a later moment.
	r.Correct(int64(MaxTimestamp-100), int64(MaxTimestamp-100))
	pts, dts := r.Correct(100, 100)
	assert.Equal(t, int64(MaxTimestamp+100), dts)
	assert.Equal(t, int64(MaxTimestamp+100), pts)
}

func TestRolloverCorrectsBackwardSeekAcrossWrap(t *testing.T) {
	var r Rollover
	// reference is small, but the next raw value is huge: this is a seek
	// backward across the rollover boundary, not forward progress.
	r.Correct(100, 100)
	pts, dts := r.Correct(int64(MaxTimestamp-100), int64(MaxTimestamp-100))
	assert.Equal(t, int64(-100), dts)
	assert.Equal(t, int64(-100), pts)
}

func TestRolloverResetStartsFreshReference(t *testing.T) {
	var r Rollover
	r.Correct(int64(MaxTimestamp-100), int64(MaxTimestamp-100))
	r.Reset()
	pts, dts := r.Correct(50, 50)
	assert.Equal(t, int64(50), pts)
	assert.Equal(t, int64(50), dts)
}
