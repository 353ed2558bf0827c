// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package avc implements Annex B NAL unit splitting and H.264 SPS parsing,
// the bit-accurate core that feeds video sample aggregation.
package avc

var StartCode3 = []byte{0x0, 0x0, 0x1}
var StartCode4 = []byte{0x0, 0x0, 0x0, 0x1}

const (
	NaluTypeSlice uint8 = 1
	NaluTypeIdr   uint8 = 5
	NaluTypeSei   uint8 = 6
	NaluTypeSps   uint8 = 7
	NaluTypePps   uint8 = 8
	NaluTypeAud   uint8 = 9
)

var naluTypeReadable = map[uint8]string{
	NaluTypeSlice: "SLICE",
	NaluTypeIdr:   "IDR",
	NaluTypeSei:   "SEI",
	NaluTypeSps:   "SPS",
	NaluTypePps:   "PPS",
	NaluTypeAud:   "AUD",
}

// NaluType returns the 5-bit nal_unit_type of a NAL unit whose first byte is
// the NAL header (no start code, no emulation-prevention bytes needed here
// since the header itself is never subject to emulation prevention).
func NaluType(nalu []byte) uint8 {
	return nalu[0] & 0x1f
}

func NaluTypeReadable(nalu []byte) string {
	if s, ok := naluTypeReadable[NaluType(nalu)]; ok {
		return s
	}
	return "unknown"
}

func IsKeyframeNalu(nalu []byte) bool {
	return NaluType(nalu) == NaluTypeIdr
}

func IsAccessUnitDelimiter(nalu []byte) bool {
	return NaluType(nalu) == NaluTypeAud
}

// SplitAnnexB splits an Annex B byte stream (one that uses 00 00 01 / 00 00
// 00 01 start codes) into a slice of NAL units. Each returned slice aliases
// `data`; it still contains emulation-prevention bytes, since stripping them
// is only valid for the fields a parser needs to read, not for bytes a
// caller will re-emit verbatim (see StripEmulationPrevention).
func SplitAnnexB(data []byte) [][]byte {
	starts := findStartCodes(data)
	if len(starts) == 0 {
		return nil
	}

	nalus := make([][]byte, 0, len(starts))
	for i, start := range starts {
		end := len(data)
		if i+1 < len(starts) {
			end = starts[i+1].codeStart
		}
		nalu := data[start.naluStart:end]
		// a start code run may be immediately followed by another start
		// code (padding / trailing zero bytes); skip the resulting
		// zero-length NAL.
		if len(nalu) > 0 {
			nalus = append(nalus, nalu)
		}
	}
	return nalus
}

type startCodeHit struct {
	codeStart int // index of the first 0x00 of the start code
	naluStart int // index of the byte right after the start code
}

// findStartCodes scans for both 3-byte and 4-byte start codes. A 4-byte
// start code is just a 3-byte one with a leading zero byte, so scanning for
// "00 00 01" and then checking for one more leading zero is sufficient.
func findStartCodes(data []byte) []startCodeHit {
	var hits []startCodeHit
	i := 0
	for i+2 < len(data) {
		if data[i] == 0x00 && data[i+1] == 0x00 && data[i+2] == 0x01 {
			codeStart := i
			if codeStart > 0 && data[codeStart-1] == 0x00 {
				codeStart--
			}
			hits = append(hits, startCodeHit{codeStart: codeStart, naluStart: i + 3})
			i += 3
			continue
		}
		i++
	}
	return hits
}

// StripEmulationPrevention removes every 0x03 emulation-prevention byte that
// follows a 0x00 0x00 pair (the 00 00 03 xx -> 00 00 xx rule from Annex B),
// returning a fresh copy safe to hand to a bit-level parser. The original,
// un-stripped bytes are what callers pass on to an output sample; this copy
// exists purely so ExpGolomb never reads a synthetic 0x03.
func StripEmulationPrevention(nalu []byte) []byte {
	out := make([]byte, 0, len(nalu))
	zeroRun := 0
	for _, b := range nalu {
		if zeroRun >= 2 && b == 0x03 {
			zeroRun = 0
			continue
		}
		if b == 0x00 {
			zeroRun++
		} else {
			zeroRun = 0
		}
		out = append(out, b)
	}
	return out
}
