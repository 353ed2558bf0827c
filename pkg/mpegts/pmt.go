// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package mpegts

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

// Stream types this repository cares about. <iso13818-1.pdf> Table 2-34.
const (
	StreamTypeH264          uint8 = 0x1b
	StreamTypeAdtsAac       uint8 = 0x0f
	StreamTypeId3Metadata   uint8 = 0x15
)

// Pmt
//
// ----------------------------------------
// Program Map Table
// <iso13818-1.pdf> <2.4.4.8> <page 64/174>
// table_id                 [8b]  *
// section_syntax_indicator [1b]
// 0                        [1b]
// reserved                 [2b]
// section_length           [12b] **
// program_number           [16b] **
// reserved                 [2b]
// version_number           [5b]
// current_next_indicator   [1b]  *
// section_number           [8b]  *
// last_section_number      [8b]  *
// reserved                 [3b]
// PCR_PID                  [13b] **
// reserved                 [4b]
// program_info_length      [12b] **
// -----loop-----
// stream_type              [8b]  *
// reserved                 [3b]
// elementary_PID           [13b] **
// reserved                 [4b]
// ES_info_length_length    [12b] **
// --------------
// CRC32                    [32b] ****
// ----------------------------------------
type Pmt struct {
	TableId              uint8
	SectionSyntaxIndicator uint8
	SectionLength          uint16
	ProgramNumber          uint16
	VersionNumber          uint8
	CurrentNextIndicator   uint8
	SectionNumber          uint8
	LastSectionNumber      uint8
	PcrPid                 uint16
	ProgramInfoLength      uint16
	ProgramElements        []PmtProgramElement
	Crc32                  uint32
}

type PmtProgramElement struct {
	StreamType uint8
	Pid        uint16
	Length     uint16
}

const pmtHeaderLength = 13

func ParsePmt(b []byte) (pmt Pmt) {
	br := nazabits.NewBitReader(b)
	pmt.TableId, _ = br.ReadBits8(8)
	pmt.SectionSyntaxIndicator, _ = br.ReadBits8(1)
	_, _ = br.ReadBits8(3)
	pmt.SectionLength, _ = br.ReadBits16(12)
	if pmt.SectionLength < pmtHeaderLength {
		Log.Warnf("mpegts: PMT section_length too small to be valid. section_length=%d", pmt.SectionLength)
		return
	}
	length := pmt.SectionLength - pmtHeaderLength
	pmt.ProgramNumber, _ = br.ReadBits16(16)
	_, _ = br.ReadBits8(2)
	pmt.VersionNumber, _ = br.ReadBits8(5)
	pmt.CurrentNextIndicator, _ = br.ReadBits8(1)
	pmt.SectionNumber, _ = br.ReadBits8(8)
	pmt.LastSectionNumber, _ = br.ReadBits8(8)
	_, _ = br.ReadBits8(3)
	pmt.PcrPid, _ = br.ReadBits16(13)
	_, _ = br.ReadBits8(4)
	pmt.ProgramInfoLength, _ = br.ReadBits16(12)
	if pmt.ProgramInfoLength != 0 {
		_, _ = br.ReadBytes(uint(pmt.ProgramInfoLength))
		length -= pmt.ProgramInfoLength
	}

	for i := uint16(0); i < length; {
		var ppe PmtProgramElement
		ppe.StreamType, _ = br.ReadBits8(8)
		_, _ = br.ReadBits8(3)
		ppe.Pid, _ = br.ReadBits16(13)
		_, _ = br.ReadBits8(4)
		ppe.Length, _ = br.ReadBits16(12)
		if ppe.Length != 0 {
			_, _ = br.ReadBytes(uint(ppe.Length))
		}
		pmt.ProgramElements = append(pmt.ProgramElements, ppe)
		i += 5 + ppe.Length
	}

	pmt.Crc32, _ = br.ReadBits32(32)
	return
}

func (pmt *Pmt) SearchPid(pid uint16) *PmtProgramElement {
	for i := range pmt.ProgramElements {
		if pmt.ProgramElements[i].Pid == pid {
			return &pmt.ProgramElements[i]
		}
	}
	return nil
}

// VideoElement returns the first H.264 program element, if any.
func (pmt *Pmt) VideoElement() *PmtProgramElement {
	for i := range pmt.ProgramElements {
		if pmt.ProgramElements[i].StreamType == StreamTypeH264 {
			return &pmt.ProgramElements[i]
		}
	}
	return nil
}

// AudioElement returns the first ADTS AAC program element, if any.
func (pmt *Pmt) AudioElement() *PmtProgramElement {
	for i := range pmt.ProgramElements {
		if pmt.ProgramElements[i].StreamType == StreamTypeAdtsAac {
			return &pmt.ProgramElements[i]
		}
	}
	return nil
}

// TimedMetadataElement returns the first ID3 timed-metadata program
// element, if any.
func (pmt *Pmt) TimedMetadataElement() *PmtProgramElement {
	for i := range pmt.ProgramElements {
		if pmt.ProgramElements[i].StreamType == StreamTypeId3Metadata {
			return &pmt.ProgramElements[i]
		}
	}
	return nil
}
