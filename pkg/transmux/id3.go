// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

// Id3Frame is one decoded ID3v2 timed-metadata payload, still carrying its
// PES timestamps since that is what anchors it to a point on the media
// timeline. CueTime is Pts converted to seconds at the 90kHz MPEG clock
// rate, the unit a caller cueing this metadata against a `<video>` element's
// timeline (via TextTrack cues, say) actually needs.
type Id3Frame struct {
	Pts     int64
	Dts     int64
	Raw     []byte
	CueTime float64
}

const id3HeaderLength = 10

// IsId3Tag reports whether `b` begins with the "ID3" marker ID3v2 tags
// start with (ISO/IEC 13818-1 timed-metadata streams carry one ID3v2 tag
// per PES payload).
func IsId3Tag(b []byte) bool {
	return len(b) >= 3 && b[0] == 'I' && b[1] == 'D' && b[2] == '3'
}

// ParseId3TagSize decodes the synchsafe 28-bit size field at bytes 6-9 of
// an ID3v2 header: each of the 4 bytes contributes its low 7 bits, high
// bit always 0, so the size itself can never be mistaken for a frame sync
// pattern elsewhere in the tag.
func ParseId3TagSize(header []byte) int {
	return int(header[6]&0x7f)<<21 |
		int(header[7]&0x7f)<<14 |
		int(header[8]&0x7f)<<7 |
		int(header[9]&0x7f)
}

// ParseId3Frame reads one ID3v2 tag (header + declared-size body) out of
// an ES unit payload. It returns nil if `raw` does not begin with a valid
// tag.
func ParseId3Frame(pts, dts int64, raw []byte) *Id3Frame {
	if !IsId3Tag(raw) || len(raw) < id3HeaderLength {
		return nil
	}
	bodyLength := ParseId3TagSize(raw)
	total := id3HeaderLength + bodyLength
	if total > len(raw) {
		total = len(raw)
	}
	return &Id3Frame{Pts: pts, Dts: dts, Raw: raw[:total], CueTime: float64(pts) / float64(VideoTimescale)}
}
