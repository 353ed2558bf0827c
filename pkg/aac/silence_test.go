// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package aac

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestSilentFrameKnownCombination(t *testing.T) {
	got := SilentFrame(44100, 2)
	assert.Equal(t, silentFrameStereo44100, got)
}

func TestSilentFrameFallsBackToStereo(t *testing.T) {
	got := SilentFrame(22050, 2)
	assert.Equal(t, silentFrameStereo44100, got)
}

func TestSilentFrameFallsBackToMono(t *testing.T) {
	got := SilentFrame(8000, 1)
	assert.Equal(t, silentFrameMono44100, got)
}
