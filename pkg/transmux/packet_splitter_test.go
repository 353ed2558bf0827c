// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"

	"github.com/q191201771/transmux/pkg/mpegts"
)

func makeTsPacket(pid uint16, fill byte) []byte {
	p := make([]byte, mpegts.PacketLength)
	p[0] = mpegts.SyncByte
	p[1] = byte(pid >> 8)
	p[2] = byte(pid)
	p[3] = 0x10
	for i := 4; i < len(p); i++ {
		p[i] = fill
	}
	return p
}

func TestPacketSplitterEmitsWholePacketsInOneShot(t *testing.T) {
	var got [][]byte
	s := NewPacketSplitter(func(packet []byte) {
		cp := make([]byte, len(packet))
		copy(cp, packet)
		got = append(got, cp)
	})

	a := makeTsPacket(0x100, 0xaa)
	b := makeTsPacket(0x101, 0xbb)
	s.Push(append(append([]byte{}, a...), b...))

	assert.Equal(t, 2, len(got))
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
}

func TestPacketSplitterCarriesPartialPacketAcrossPushCalls(t *testing.T) {
	var got [][]byte
	s := NewPacketSplitter(func(packet []byte) {
		cp := make([]byte, len(packet))
		copy(cp, packet)
		got = append(got, cp)
	})

	a := makeTsPacket(0x100, 0xaa)
	b := makeTsPacket(0x101, 0xbb)
	whole := append(append([]byte{}, a...), b...)

	s.Push(whole[:100])
	assert.Equal(t, 0, len(got))
	s.Push(whole[100:])

	assert.Equal(t, 2, len(got))
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
}

func TestPacketSplitterSkipsFalsePositiveSyncByteInsidePayload(t *testing.T) {
	var got [][]byte
	s := NewPacketSplitter(func(packet []byte) {
		cp := make([]byte, len(packet))
		copy(cp, packet)
		got = append(got, cp)
	})

	a := makeTsPacket(0x100, mpegts.SyncByte) // payload bytes all look like 0x47
	b := makeTsPacket(0x101, 0xbb)
	s.Push(append(append([]byte{}, a...), b...))

	assert.Equal(t, 2, len(got))
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
}

func TestPacketSplitterFlushEmitsTrailingWholePacket(t *testing.T) {
	var got [][]byte
	s := NewPacketSplitter(func(packet []byte) {
		cp := make([]byte, len(packet))
		copy(cp, packet)
		got = append(got, cp)
	})

	a := makeTsPacket(0x100, 0xaa)
	s.Push(a)
	assert.Equal(t, 0, len(got)) // held back until a second packet confirms the boundary

	s.Flush()
	assert.Equal(t, 1, len(got))
	assert.Equal(t, a, got[0])
}

func TestPacketSplitterFlushDropsShortOrDesyncedCarry(t *testing.T) {
	var got [][]byte
	s := NewPacketSplitter(func(packet []byte) {
		got = append(got, packet)
	})

	s.Push([]byte{mpegts.SyncByte, 0x01, 0x02}) // shorter than a full packet
	s.Flush()
	assert.Equal(t, 0, len(got))

	garbage := makeTsPacket(0x100, 0xaa)
	garbage[0] = 0x00 // no longer starts on a sync byte
	s.Push(garbage)
	s.Flush()
	assert.Equal(t, 0, len(got))
}

func TestPacketSplitterResyncsAfterGarbagePrefix(t *testing.T) {
	var got [][]byte
	s := NewPacketSplitter(func(packet []byte) {
		cp := make([]byte, len(packet))
		copy(cp, packet)
		got = append(got, cp)
	})

	garbage := []byte{0x00, 0x01, 0x02, 0x03, 0x04}
	a := makeTsPacket(0x100, 0xaa)
	b := makeTsPacket(0x101, 0xbb)
	s.Push(append(append(append([]byte{}, garbage...), a...), b...))

	assert.Equal(t, 2, len(got))
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
}
