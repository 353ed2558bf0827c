// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package mpegts

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

const (
	PtsDtsFlagNone      uint8 = 0x0
	PtsDtsFlagPtsOnly   uint8 = 0x2
	PtsDtsFlagPtsAndDts uint8 = 0x3
)

// -----------------------------------------------------------
// <iso13818-1.pdf>
// <2.4.3.6 PES packet> <page 49/174>
// <Table E.1 - PES packet header example> <page 142/174>
// <F.0.2 PES packet> <page 144/174>
// packet_start_code_prefix  [24b] *** always 0x00, 0x00, 0x01
// stream_id                 [8b]  *
// PES_packet_length         [16b] **
// '10'                      [2b]
// PES_scrambling_control    [2b]
// PES_priority              [1b]
// data_alignment_indicator  [1b]
// copyright                 [1b]
// original_or_copy          [1b]  *
// PTS_DTS_flags             [2b]
// ESCR_flag                 [1b]
// ES_rate_flag              [1b]
// DSM_trick_mode_flag       [1b]
// additional_copy_info_flag [1b]
// PES_CRC_flag              [1b]
// PES_extension_flag        [1b]  *
// PES_header_data_length    [8b]  *
// -----------------------------------------------------------
type Pes struct {
	PacketStartCodePrefix uint32
	StreamId              uint8
	PacketLength          uint16
	PtsDtsFlag            uint8
	HeaderDataLength      uint8
	Pts                   uint64
	Dts                   uint64
}

// ParsePes parses a PES packet header starting at `b[0]`, returning the
// number of bytes consumed up to (and including) the header, so the caller
// can slice `b[length:]` as the elementary stream payload.
func ParsePes(b []byte) (pes Pes, length int) {
	br := nazabits.NewBitReader(b)
	pes.PacketStartCodePrefix, _ = br.ReadBits32(24)
	pes.StreamId, _ = br.ReadBits8(8)
	pes.PacketLength, _ = br.ReadBits16(16)

	_, _ = br.ReadBits8(8) // '10', scrambling, priority, alignment, copyright, original_or_copy
	pes.PtsDtsFlag, _ = br.ReadBits8(2)
	_, _ = br.ReadBits8(6) // escr/es_rate/trick_mode/additional_copy/crc/extension flags
	pes.HeaderDataLength, _ = br.ReadBits8(8)

	_, _ = br.ReadBytes(uint(pes.HeaderDataLength))
	length = 9 + int(pes.HeaderDataLength)

	if pes.PtsDtsFlag&PtsDtsFlagPtsOnly != 0 {
		pes.Pts = readPts(b[9:])
	}
	if pes.PtsDtsFlag == PtsDtsFlagPtsAndDts {
		pes.Dts = readPts(b[14:])
	} else {
		pes.Dts = pes.Pts
	}

	return
}

// readPts reconstructs a 33-bit 90kHz PTS/DTS value from its 5-byte
// marker-stuffed encoding ('0010'/'0011' + 3 bits + marker, 15 bits +
// marker, 15 bits + marker). Every intermediate shift happens in uint64 so
// the top 3 bits never get truncated the way a 32-bit accumulator would.
func readPts(b []byte) uint64 {
	var pts uint64
	pts |= uint64((b[0]>>1)&0x07) << 30
	pts |= (uint64(b[1])<<8 | uint64(b[2])) >> 1 << 15
	pts |= (uint64(b[3])<<8 | uint64(b[4])) >> 1
	return pts
}
