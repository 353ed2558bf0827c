// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestNewTrackSetsIdentity(t *testing.T) {
	tr := NewTrack(1, TrackTypeVideo, 0x100)
	assert.Equal(t, 1, tr.Id)
	assert.Equal(t, TrackTypeVideo, tr.Type)
	assert.Equal(t, uint16(0x100), tr.Pid)
}

func TestTrackResetTimelineStartClearsRecordedStart(t *testing.T) {
	tr := NewTrack(2, TrackTypeAudio, 0x101)
	tr.TimelineStartInfo = TimelineStartInfo{Baseline: 1000, Pts: 1000, Dts: 1000, Set: true}

	tr.resetTimelineStart()

	assert.Equal(t, TimelineStartInfo{}, tr.TimelineStartInfo)
}
