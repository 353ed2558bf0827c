// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package mpegts

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestParseTsPacketHeader(t *testing.T) {
	// sync=0x47, err=0, pusi=1, prio=0, pid=0x100, scra=0, adaptation=1 (payload only), cc=5
	b := []byte{0x47, 0x41, 0x00, 0x15}
	h := ParseTsPacketHeader(b)
	assert.Equal(t, uint8(SyncByte), h.Sync)
	assert.Equal(t, uint8(0), h.Err)
	assert.Equal(t, uint8(1), h.PayloadUnitStart)
	assert.Equal(t, uint16(0x100), h.Pid)
	assert.Equal(t, AdaptationFieldControlPayloadOnly, h.Adaptation)
	assert.Equal(t, uint8(5), h.Cc)
}

func TestParseTsPacketAdaptation(t *testing.T) {
	a := ParseTsPacketAdaptation([]byte{0x07, 0x00})
	assert.Equal(t, uint8(7), a.Length)
}
