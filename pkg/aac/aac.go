// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package aac implements AudioSpecificConfig and ADTS frame header
// parsing/packing for raw AAC elementary streams (bare ADTS byte streams,
// and the ADTS-framed audio PES payload carried inside an MPEG-2 TS).
package aac

import (
	"github.com/q191201771/transmux/pkg/base"

	"github.com/q191201771/naza/pkg/nazabits"
	"github.com/q191201771/naza/pkg/nazalog"
)

const (
	AdtsHeaderLength = 7
	AdtsSyncWord     = 0xfff

	AscSamplingFrequencyIndex96000 = 0
	AscSamplingFrequencyIndex88200 = 1
	AscSamplingFrequencyIndex64000 = 2
	AscSamplingFrequencyIndex48000 = 3
	AscSamplingFrequencyIndex44100 = 4
	AscSamplingFrequencyIndex32000 = 5
	AscSamplingFrequencyIndex24000 = 6
	AscSamplingFrequencyIndex22050 = 7
	AscSamplingFrequencyIndex16000 = 8
	AscSamplingFrequencyIndex12000 = 9
	AscSamplingFrequencyIndex11025 = 10
	AscSamplingFrequencyIndex8000  = 11
	AscSamplingFrequencyIndex7350  = 12
)

const minAscLength = 2

// SamplesPerAacFrame is the fixed number of PCM samples a single AAC-LC
// frame decodes to, used to derive the PTS of every frame after the first
// in a PES payload that carries several frames under one timestamp.
const SamplesPerAacFrame = 1024

var samplingFrequencyTable = [13]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

// <ISO_IEC_14496-3.pdf>
// <1.6.2.1 AudioSpecificConfig>, <page 33/110>
// <1.5.1.1 Audio Object type definition>, <page 23/110>
// <1.6.3.3 samplingFrequencyIndex>, <page 35/110>
// <1.6.3.4 channelConfiguration>
// --------------------------------------------------------
// audio object type      [5b] 1=AAC MAIN  2=AAC LC
// samplingFrequencyIndex [4b] 3=48000  4=44100  6=24000  5=32000  10=11025
// channelConfiguration   [4b] 1=center front speaker  2=left, right front speakers
type AscContext struct {
	AudioObjectType        uint8 // [5b]
	SamplingFrequencyIndex uint8 // [4b]
	ChannelConfiguration   uint8 // [4b]
}

func NewAscContext(asc []byte) (*AscContext, error) {
	var ascCtx AscContext
	if err := ascCtx.Unpack(asc); err != nil {
		return nil, err
	}
	return &ascCtx, nil
}

// Unpack reads a 2-byte AudioSpecificConfig. The caller retains ownership of
// `asc`; Unpack does not hold a reference to it afterwards.
func (ascCtx *AscContext) Unpack(asc []byte) error {
	if len(asc) < minAscLength {
		nazalog.Warnf("aac seq header length invalid. len=%d", len(asc))
		return base.ErrSamplingFrequencyIndex
	}

	br := nazabits.NewBitReader(asc)
	ascCtx.AudioObjectType, _ = br.ReadBits8(5)
	ascCtx.SamplingFrequencyIndex, _ = br.ReadBits8(4)
	ascCtx.ChannelConfiguration, _ = br.ReadBits8(4)
	return nil
}

// Pack returns a freshly allocated 2-byte AudioSpecificConfig.
func (ascCtx *AscContext) Pack() (asc []byte) {
	asc = make([]byte, minAscLength)
	bw := nazabits.NewBitWriter(asc)
	bw.WriteBits8(5, ascCtx.AudioObjectType)
	bw.WriteBits8(4, ascCtx.SamplingFrequencyIndex)
	bw.WriteBits8(4, ascCtx.ChannelConfiguration)
	return
}

// PackAdtsHeader builds a fresh 7-byte ADTS header for a frame carrying
// `frameLength` bytes of raw AAC payload. Every frame's header is built
// independently since aac_frame_length varies per frame.
func (ascCtx *AscContext) PackAdtsHeader(frameLength int) (out []byte) {
	out = make([]byte, AdtsHeaderLength)
	_ = ascCtx.PackToAdtsHeader(out, frameLength)
	return
}

func (ascCtx *AscContext) PackToAdtsHeader(out []byte, frameLength int) error {
	if len(out) < AdtsHeaderLength {
		return base.ErrSamplingFrequencyIndex
	}

	// <ISO_IEC_14496-3.pdf>
	// <1.A.2.2.1 Fixed Header of ADTS>, <page 75/110>
	// <1.A.2.2.2 Variable Header of ADTS>, <page 76/110>
	// <1.A.3.2.1 Definitions: Bitstream elements for ADTS>
	// ----------------------------------------------------
	// Syncword                 [12b] '1111 1111 1111'
	// ID                       [1b]  1=MPEG-2 AAC 0=MPEG-4
	// Layer                    [2b]
	// protection_absent        [1b]  1=no crc check
	// Profile_ObjectType       [2b]
	// sampling_frequency_index [4b]
	// private_bit              [1b]
	// channel_configuration    [3b]
	// origin/copy              [1b]
	// home                     [1b]
	// copyright_identification_bit   [1b]
	// copyright_identification_start [1b]
	// aac_frame_length               [13b]
	// adts_buffer_fullness            [11b]
	// no_raw_data_blocks_in_frame     [2b]

	bw := nazabits.NewBitWriter(out)
	bw.WriteBits16(12, AdtsSyncWord)
	bw.WriteBits8(4, 0x1) // ID, Layer, protection_absent
	bw.WriteBits8(2, ascCtx.AudioObjectType-1)
	bw.WriteBits8(4, ascCtx.SamplingFrequencyIndex)
	bw.WriteBits8(1, 0) // private_bit
	bw.WriteBits8(3, ascCtx.ChannelConfiguration)
	bw.WriteBits8(4, 0) // origin/copy, home, copyright bits
	bw.WriteBits16(13, uint16(frameLength+AdtsHeaderLength))
	bw.WriteBits16(11, 0x7ff) // adts_buffer_fullness
	bw.WriteBits8(2, 0)       // no_raw_data_blocks_in_frame
	return nil
}

// GetSamplingFrequency maps SamplingFrequencyIndex to Hz per the full
// ISO/IEC 14496-3 table (indices 13-14 are reserved, 15 means "explicit
// frequency follows in the bitstream" and is not representable here).
func (ascCtx *AscContext) GetSamplingFrequency() (int, error) {
	if int(ascCtx.SamplingFrequencyIndex) >= len(samplingFrequencyTable) {
		nazalog.Errorf("GetSamplingFrequency failed. ascCtx=%+v", ascCtx)
		return -1, base.ErrSamplingFrequencyIndex
	}
	return samplingFrequencyTable[ascCtx.SamplingFrequencyIndex], nil
}

type AdtsHeaderContext struct {
	AscCtx AscContext

	AdtsLength uint16 // aac_frame_length: header + payload
}

func NewAdtsHeaderContext(adtsHeader []byte) (*AdtsHeaderContext, error) {
	var ctx AdtsHeaderContext
	if err := ctx.Unpack(adtsHeader); err != nil {
		return nil, err
	}
	return &ctx, nil
}

func (ctx *AdtsHeaderContext) Unpack(adtsHeader []byte) error {
	if len(adtsHeader) < AdtsHeaderLength {
		return base.ErrSamplingFrequencyIndex
	}
	if !IsAdtsSyncWord(adtsHeader) {
		return base.ErrSamplingFrequencyIndex
	}

	br := nazabits.NewBitReader(adtsHeader)
	_ = br.SkipBits(16)
	v, _ := br.ReadBits8(2)
	ctx.AscCtx.AudioObjectType = v + 1
	ctx.AscCtx.SamplingFrequencyIndex, _ = br.ReadBits8(4)
	_ = br.SkipBits(1)
	ctx.AscCtx.ChannelConfiguration, _ = br.ReadBits8(3)
	_ = br.SkipBits(4)
	ctx.AdtsLength, _ = br.ReadBits16(13)
	return nil
}

// IsAdtsSyncWord reports whether `b` begins with the 12-bit ADTS sync word
// 0xFFF (all 12 bits are checked; the ID bit that follows, which toggles
// MPEG-2/4, is not part of the sync pattern and is ignored).
func IsAdtsSyncWord(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xff && (b[1]&0xf0) == 0xf0
}

func MakeAscWithAdtsHeader(adtsHeader []byte) (asc []byte, err error) {
	var ctx *AdtsHeaderContext
	if ctx, err = NewAdtsHeaderContext(adtsHeader); err != nil {
		return nil, err
	}
	return ctx.AscCtx.Pack(), nil
}
