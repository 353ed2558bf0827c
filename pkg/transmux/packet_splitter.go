// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"github.com/q191201771/transmux/pkg/base"
	"github.com/q191201771/transmux/pkg/mpegts"
)

// PacketSplitter carries a partial TS packet across Push calls and hands
// complete, sync-verified 188-byte packets to its downstream handler. A
// byte stream need not begin or break on a packet boundary; the splitter
// resyncs by scanning forward for a sync byte that is also followed by
// another sync byte exactly one packet length later, the same defense
// against a false-positive 0x47 inside a payload that a hand-rolled TS
// reader always needs.
type PacketSplitter struct {
	carry  *base.Buffer
	onPacket func(packet []byte)
}

func NewPacketSplitter(onPacket func(packet []byte)) *PacketSplitter {
	return &PacketSplitter{
		carry:    base.NewBuffer(mpegts.PacketLength * 4),
		onPacket: onPacket,
	}
}

// Push appends `data` to the carry buffer and emits every complete,
// sync-aligned packet it can find.
func (s *PacketSplitter) Push(data []byte) {
	buf := s.carry.ReserveBytes(len(data))
	copy(buf, data)
	s.carry.Flush(len(data))

	bytes := s.carry.Bytes()
	offset := s.findSync(bytes)
	if offset < 0 {
		// no usable sync found yet; keep at most one packet length of
		// trailing data so a sync byte split across two Push calls is
		// not lost.
		if len(bytes) > mpegts.PacketLength {
			s.carry.Skip(len(bytes) - mpegts.PacketLength)
		}
		return
	}
	s.carry.Skip(offset)

	for {
		bytes = s.carry.Bytes()
		if len(bytes) < mpegts.PacketLength {
			return
		}
		if bytes[0] != mpegts.SyncByte {
			// lost sync mid-stream; rescan from here.
			next := s.findSync(bytes)
			if next < 0 {
				if len(bytes) > mpegts.PacketLength {
					s.carry.Skip(len(bytes) - mpegts.PacketLength)
				}
				return
			}
			s.carry.Skip(next)
			continue
		}
		packet := make([]byte, mpegts.PacketLength)
		copy(packet, bytes[:mpegts.PacketLength])
		s.carry.Skip(mpegts.PacketLength)
		s.onPacket(packet)
	}
}

// findSync returns the offset of a sync byte that is confirmed by a
// second sync byte one packet length later, or -1 if no such offset
// exists yet in `bytes` (which may simply mean not enough data has
// arrived to confirm the second sync byte).
func (s *PacketSplitter) findSync(bytes []byte) int {
	for i := 0; i < len(bytes); i++ {
		if bytes[i] != mpegts.SyncByte {
			continue
		}
		next := i + mpegts.PacketLength
		if next >= len(bytes) {
			// not enough data yet to confirm; caller will retry once
			// more bytes arrive, unless this candidate falls outside the
			// one-packet lookback window it keeps.
			if i == 0 {
				return -1
			}
			continue
		}
		if bytes[next] == mpegts.SyncByte {
			return i
		}
	}
	return -1
}

// Flush emits a held packet if the carry buffer still holds at least one
// full packet length starting on a confirmed-or-not sync byte; end of
// stream means no further bytes will ever arrive to confirm it the normal
// way, so the first byte being 0x47 is the only check left to make before
// handing it downstream. Anything shorter than a full packet, or not
// starting on a sync byte, is desynchronized garbage and is dropped.
func (s *PacketSplitter) Flush() {
	bytes := s.carry.Bytes()
	if len(bytes) < mpegts.PacketLength || bytes[0] != mpegts.SyncByte {
		s.carry.Reset()
		return
	}
	packet := make([]byte, mpegts.PacketLength)
	copy(packet, bytes[:mpegts.PacketLength])
	s.carry.Skip(mpegts.PacketLength)
	s.onPacket(packet)
	s.carry.Reset()
}

// Reset discards any partially buffered packet, used by Transmuxer.Reset.
func (s *PacketSplitter) Reset() {
	s.carry.Reset()
}
