// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package mpegts

import (
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestParsePmtVideoAndAudio(t *testing.T) {
	b := []byte{
		0x02,       // table_id
		0xb0, 0x17, // ssi=1, '0', reserved, section_length=23
		0x00, 0x01, // program_number=1
		0xc1,       // reserved, version_number, current_next_indicator=1
		0x00,       // section_number
		0x00,       // last_section_number
		0xe2, 0x01, // reserved, PCR_PID=0x101
		0xf0, 0x00, // reserved, program_info_length=0
		0x1b, 0xe2, 0x01, 0xf0, 0x00, // H.264, pid=0x101, ES_info_length=0
		0x0f, 0xe2, 0x02, 0xf0, 0x00, // ADTS AAC, pid=0x102, ES_info_length=0
		0xde, 0xad, 0xbe, 0xef, // crc32
	}
	pmt := ParsePmt(b)
	assert.Equal(t, uint16(0x101), pmt.PcrPid)
	assert.Equal(t, 2, len(pmt.ProgramElements))

	video := pmt.VideoElement()
	assert.Equal(t, true, video != nil)
	assert.Equal(t, uint16(0x101), video.Pid)

	audio := pmt.AudioElement()
	assert.Equal(t, true, audio != nil)
	assert.Equal(t, uint16(0x102), audio.Pid)

	assert.Equal(t, true, pmt.TimedMetadataElement() == nil)
	assert.Equal(t, true, pmt.SearchPid(0x101) != nil)
	assert.Equal(t, true, pmt.SearchPid(0x999) == nil)
}

func TestParsePmtRejectsTooShortSectionLength(t *testing.T) {
	b := []byte{
		0x02,
		0xb0, 0x05, // section_length=5, smaller than the 13-byte fixed header
		0x00, 0x01,
		0xc1,
		0x00,
		0x00,
	}
	pmt := ParsePmt(b)
	assert.Equal(t, 0, len(pmt.ProgramElements))
}
