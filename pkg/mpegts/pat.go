// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package mpegts

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

const patHeaderLength = 9

// ---------------------------------------------------------------------------------------------------
// Program association section
// <iso13818-1.pdf> <2.4.4.3> <page 61/174>
// table_id                 [8b] *
// section_syntax_indicator [1b]
// '0'                      [1b]
// reserved                 [2b]
// section_length           [12b] **
// transport_stream_id      [16b] **
// reserved                 [2b]
// version_number           [5b]
// current_next_indicator   [1b]  *
// section_number           [8b]  *
// last_section_number      [8b]  *
// -----loop-----
// program_number           [16b] **
// reserved                 [3b]
// program_map_PID          [13b] ** if program_number == 0 then network_PID else then program_map_PID
// --------------
// CRC_32                   [32b] ****
// ---------------------------------------------------------------------------------------------------
type Pat struct {
	TableId               uint8
	SectionSyntaxIndicator uint8
	SectionLength          uint16
	TransportStreamId      uint16
	VersionNumber          uint8
	CurrentNextIndicator   uint8
	SectionNumber          uint8
	LastSectionNumber      uint8
	ProgramElements        []PatProgramElement
	Crc32                  uint32
}

type PatProgramElement struct {
	ProgramNumber uint16
	ProgramMapPid uint16
}

func ParsePat(b []byte) (pat Pat) {
	br := nazabits.NewBitReader(b)
	pat.TableId, _ = br.ReadBits8(8)
	pat.SectionSyntaxIndicator, _ = br.ReadBits8(1)
	_, _ = br.ReadBits8(3)
	pat.SectionLength, _ = br.ReadBits16(12)
	pat.TransportStreamId, _ = br.ReadBits16(16)
	_, _ = br.ReadBits8(2)
	pat.VersionNumber, _ = br.ReadBits8(5)
	pat.CurrentNextIndicator, _ = br.ReadBits8(1)
	pat.SectionNumber, _ = br.ReadBits8(8)
	pat.LastSectionNumber, _ = br.ReadBits8(8)

	if pat.SectionLength < patHeaderLength {
		Log.Warnf("mpegts: PAT section_length too small to be valid. section_length=%d", pat.SectionLength)
		return
	}

	// section_length counts everything from transport_stream_id through
	// CRC_32 inclusive; 5 header bytes plus 4 CRC bytes were already read
	// or are read below, leaving this many bytes of program loop.
	length := pat.SectionLength - patHeaderLength

	for i := uint16(0); i < length; i += 4 {
		var ppe PatProgramElement
		ppe.ProgramNumber, _ = br.ReadBits16(16)
		_, _ = br.ReadBits8(3)
		ppe.ProgramMapPid, _ = br.ReadBits16(13)
		pat.ProgramElements = append(pat.ProgramElements, ppe)
	}
	pat.Crc32, _ = br.ReadBits32(32)
	return
}

// SearchPid reports whether `pid` is a program_map_PID named by this PAT.
func (pat *Pat) SearchPid(pid uint16) bool {
	for _, ppe := range pat.ProgramElements {
		if pid == ppe.ProgramMapPid {
			return true
		}
	}
	return false
}
