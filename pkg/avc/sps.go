// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package avc

import (
	"github.com/q191201771/transmux/pkg/base"

	"github.com/q191201771/naza/pkg/nazaerrors"
)

// Sps holds the SPS fields this repository needs: enough to compute
// profile/level (for the avcC box) and pixel dimensions (for the video
// track's width/height), plus the handful of fields that must be read along
// the way to reach frame_cropping.
type Sps struct {
	ProfileIdc         uint8
	ConstraintSetFlags uint8
	LevelIdc           uint8
	SpsId              uint32

	ChromaFormatIdc uint32
	BitDepthLuma    uint32
	BitDepthChroma  uint32

	Log2MaxFrameNumMinus4       uint32
	PicOrderCntType             uint32
	Log2MaxPicOrderCntLsbMinus4 uint32

	FrameMbsOnlyFlag            uint32
	PicWidthInMbsMinusOne       uint32
	PicHeightInMapUnitsMinusOne uint32

	FrameCroppingFlag     uint32
	FrameCropLeftOffset   uint32
	FrameCropRightOffset  uint32
	FrameCropTopOffset    uint32
	FrameCropBottomOffset uint32

	Width  uint32
	Height uint32
}

// ParseSps decodes an SPS RBSP (NAL header included, emulation-prevention
// bytes already stripped by the caller via StripEmulationPrevention) and
// derives pixel width/height the way the H.264 spec combines
// pic_width_in_mbs, frame_mbs_only_flag and the frame_cropping rectangle.
func ParseSps(rbsp []byte) (Sps, error) {
	var sps Sps
	g := NewExpGolomb(rbsp)

	if err := parseSpsHeader(g, &sps); err != nil {
		return sps, err
	}
	if err := parseSpsChromaAndBitDepth(g, &sps); err != nil {
		return sps, err
	}
	if err := parseSpsOrderingAndFrameCount(g, &sps); err != nil {
		return sps, err
	}
	if err := parseSpsDimensions(g, &sps); err != nil {
		return sps, err
	}

	sps.Width = (sps.PicWidthInMbsMinusOne+1)*16 - (sps.FrameCropLeftOffset+sps.FrameCropRightOffset)*2
	sps.Height = (2-sps.FrameMbsOnlyFlag)*(sps.PicHeightInMapUnitsMinusOne+1)*16 - (sps.FrameCropTopOffset+sps.FrameCropBottomOffset)*2
	return sps, nil
}

func parseSpsHeader(g *ExpGolomb, sps *Sps) error {
	if _, err := g.ReadBits(8); err != nil { // nal_unit_header
		return nazaerrors.Wrap(err)
	}

	profileIdc, err := g.ReadBits(8)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.ProfileIdc = uint8(profileIdc)

	constraintFlags, err := g.ReadBits(8) // constraint_set0..5_flag + 2 reserved bits
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.ConstraintSetFlags = uint8(constraintFlags)

	levelIdc, err := g.ReadBits(8)
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.LevelIdc = uint8(levelIdc)

	spsId, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	if spsId >= 32 {
		return nazaerrors.Wrap(base.ErrAvc)
	}
	sps.SpsId = spsId
	return nil
}

// high-profile-family profile_idc values that carry the extra
// chroma_format_idc / bit_depth / scaling_matrix fields.
func isHighProfileFamily(profileIdc uint8) bool {
	switch profileIdc {
	case 100, 110, 122, 244, 44, 83, 86, 118, 128, 138, 139, 134, 135:
		return true
	}
	return false
}

func parseSpsChromaAndBitDepth(g *ExpGolomb, sps *Sps) error {
	if !isHighProfileFamily(sps.ProfileIdc) {
		sps.ChromaFormatIdc = 1
		sps.BitDepthLuma = 8
		sps.BitDepthChroma = 8
		return nil
	}

	chromaFormatIdc, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	if chromaFormatIdc > 3 {
		return nazaerrors.Wrap(base.ErrAvc)
	}
	sps.ChromaFormatIdc = chromaFormatIdc

	if chromaFormatIdc == 3 {
		if _, err := g.ReadBit(); err != nil { // separate_colour_plane_flag
			return nazaerrors.Wrap(err)
		}
	}

	bitDepthLumaMinus8, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.BitDepthLuma = bitDepthLumaMinus8 + 8

	bitDepthChromaMinus8, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.BitDepthChroma = bitDepthChromaMinus8 + 8

	if _, err := g.ReadBit(); err != nil { // qpprime_y_zero_transform_bypass_flag
		return nazaerrors.Wrap(err)
	}

	scalingMatrixPresent, err := g.ReadBit()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	if scalingMatrixPresent == 1 {
		count := 8
		if sps.ChromaFormatIdc == 3 {
			count = 12
		}
		for i := 0; i < count; i++ {
			present, err := g.ReadBit()
			if err != nil {
				return nazaerrors.Wrap(err)
			}
			if present == 1 {
				size := 16
				if i >= 6 {
					size = 64
				}
				if err := skipScalingList(g, size); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// skipScalingList consumes a scaling_list() without reconstructing its
// values; this repository only needs resolution/profile/level out of the
// SPS, never the quantization matrices.
func skipScalingList(g *ExpGolomb, size int) error {
	lastScale, nextScale := int32(8), int32(8)
	for i := 0; i < size; i++ {
		if nextScale != 0 {
			delta, err := g.ReadSignedExpGolomb()
			if err != nil {
				return nazaerrors.Wrap(err)
			}
			nextScale = (lastScale + delta + 256) % 256
		}
		if nextScale != 0 {
			lastScale = nextScale
		}
	}
	return nil
}

func parseSpsOrderingAndFrameCount(g *ExpGolomb, sps *Sps) error {
	log2MaxFrameNumMinus4, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	if log2MaxFrameNumMinus4 > 12 {
		return nazaerrors.Wrap(base.ErrAvc)
	}
	sps.Log2MaxFrameNumMinus4 = log2MaxFrameNumMinus4

	picOrderCntType, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.PicOrderCntType = picOrderCntType

	switch picOrderCntType {
	case 0:
		log2MaxPicOrderCntLsbMinus4, err := g.ReadUnsignedExpGolomb()
		if err != nil {
			return nazaerrors.Wrap(err)
		}
		sps.Log2MaxPicOrderCntLsbMinus4 = log2MaxPicOrderCntLsbMinus4
	case 1:
		if _, err := g.ReadBit(); err != nil { // delta_pic_order_always_zero_flag
			return nazaerrors.Wrap(err)
		}
		if _, err := g.ReadSignedExpGolomb(); err != nil { // offset_for_non_ref_pic
			return nazaerrors.Wrap(err)
		}
		if _, err := g.ReadSignedExpGolomb(); err != nil { // offset_for_top_to_bottom_field
			return nazaerrors.Wrap(err)
		}
		numRefFramesInPicOrderCntCycle, err := g.ReadUnsignedExpGolomb()
		if err != nil {
			return nazaerrors.Wrap(err)
		}
		for i := uint32(0); i < numRefFramesInPicOrderCntCycle; i++ {
			if _, err := g.ReadSignedExpGolomb(); err != nil {
				return nazaerrors.Wrap(err)
			}
		}
	case 2:
		// noop: POC derived entirely from frame_num.
	default:
		return nazaerrors.Wrap(base.ErrAvc)
	}

	if _, err := g.ReadUnsignedExpGolomb(); err != nil { // max_num_ref_frames
		return nazaerrors.Wrap(err)
	}
	if _, err := g.ReadBit(); err != nil { // gaps_in_frame_num_value_allowed_flag
		return nazaerrors.Wrap(err)
	}
	return nil
}

func parseSpsDimensions(g *ExpGolomb, sps *Sps) error {
	picWidthInMbsMinusOne, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.PicWidthInMbsMinusOne = picWidthInMbsMinusOne

	picHeightInMapUnitsMinusOne, err := g.ReadUnsignedExpGolomb()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.PicHeightInMapUnitsMinusOne = picHeightInMapUnitsMinusOne

	frameMbsOnlyFlag, err := g.ReadBit()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.FrameMbsOnlyFlag = frameMbsOnlyFlag

	if frameMbsOnlyFlag == 0 {
		if _, err := g.ReadBit(); err != nil { // mb_adaptive_frame_field_flag
			return nazaerrors.Wrap(err)
		}
	}

	if _, err := g.ReadBit(); err != nil { // direct_8x8_inference_flag
		return nazaerrors.Wrap(err)
	}

	frameCroppingFlag, err := g.ReadBit()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	sps.FrameCroppingFlag = frameCroppingFlag
	if frameCroppingFlag == 1 {
		if sps.FrameCropLeftOffset, err = g.ReadUnsignedExpGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.FrameCropRightOffset, err = g.ReadUnsignedExpGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.FrameCropTopOffset, err = g.ReadUnsignedExpGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
		if sps.FrameCropBottomOffset, err = g.ReadUnsignedExpGolomb(); err != nil {
			return nazaerrors.Wrap(err)
		}
	}
	// vui_parameters, if present, are not needed by any track field this
	// repository tracks and are deliberately not parsed.
	return nil
}
