// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package avc

import (
	"github.com/q191201771/transmux/pkg/base"

	"github.com/q191201771/naza/pkg/nazaerrors"
)

// ExpGolomb reads fixed-width and Exponential-Golomb coded fields out of an
// emulation-prevention-stripped RBSP, bit by bit. It is the component that
// SPS parsing is built on; unlike the fixed-width TS/PES field reads in
// pkg/mpegts (which use naza's own bit reader), this one is self-contained,
// since exp-Golomb decoding is the one piece of bitstream plumbing this
// repository owns end to end rather than delegating to a library.
type ExpGolomb struct {
	data   []byte
	bitPos int // absolute bit offset from the start of data
}

func NewExpGolomb(data []byte) *ExpGolomb {
	return &ExpGolomb{data: data}
}

func (g *ExpGolomb) bitsRemaining() int {
	return len(g.data)*8 - g.bitPos
}

// ReadBit reads a single bit.
func (g *ExpGolomb) ReadBit() (uint32, error) {
	return g.ReadBits(1)
}

// ReadBits reads `n` bits (1 <= n <= 32) as a big-endian unsigned value,
// advancing the bit cursor. It may span byte boundaries.
func (g *ExpGolomb) ReadBits(n int) (uint32, error) {
	if n <= 0 || n > 32 {
		return 0, nazaerrors.Wrap(base.ErrExpGolombEof)
	}
	if g.bitsRemaining() < n {
		return 0, nazaerrors.Wrap(base.ErrExpGolombEof)
	}

	var v uint32
	for i := 0; i < n; i++ {
		byteIndex := g.bitPos >> 3
		bitOffset := uint(7 - (g.bitPos & 0x7))
		bit := (g.data[byteIndex] >> bitOffset) & 0x1
		v = (v << 1) | uint32(bit)
		g.bitPos++
	}
	return v, nil
}

// SkipBits advances the bit cursor by `n` bits without returning a value.
func (g *ExpGolomb) SkipBits(n int) error {
	if g.bitsRemaining() < n {
		return nazaerrors.Wrap(base.ErrExpGolombEof)
	}
	g.bitPos += n
	return nil
}

// SkipLeadingZeroBits counts and consumes the run of 0 bits up to (and
// including) the next 1 bit, returning the number of zero bits seen. This is
// the "count the leading zeros" half of exp-Golomb decoding, split out as
// its own operation since some callers (like determining slice_type's
// codeNum without needing the unsigned value itself) only need the count.
func (g *ExpGolomb) SkipLeadingZeroBits() (int, error) {
	zeros := 0
	for {
		bit, err := g.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			return zeros, nil
		}
		zeros++
	}
}

// ReadUnsignedExpGolomb decodes one ue(v) value: a run of `zeros` 0 bits, a
// terminating 1 bit, then `zeros` more bits forming the remainder; the value
// is (1<<zeros - 1) + remainder.
func (g *ExpGolomb) ReadUnsignedExpGolomb() (uint32, error) {
	zeros, err := g.SkipLeadingZeroBits()
	if err != nil {
		return 0, err
	}
	if zeros == 0 {
		return 0, nil
	}
	if zeros >= 32 {
		return 0, nazaerrors.Wrap(base.ErrExpGolombEof)
	}
	rem, err := g.ReadBits(zeros)
	if err != nil {
		return 0, err
	}
	return (uint32(1)<<uint(zeros) - 1) + rem, nil
}

// ReadSignedExpGolomb decodes one se(v) value by mapping the unsigned
// codeNum k to ceil(k/2) with alternating sign, per ISO/IEC 14496-10 9.1.1.
func (g *ExpGolomb) ReadSignedExpGolomb() (int32, error) {
	codeNum, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return 0, err
	}
	v := int32((codeNum + 1) / 2)
	if codeNum%2 == 0 {
		v = -v
	}
	return v, nil
}
