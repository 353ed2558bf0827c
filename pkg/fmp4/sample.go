// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4"

	"github.com/q191201771/transmux/pkg/aac"
	"github.com/q191201771/transmux/pkg/avc"
)

// VideoSample is one access unit ready to be handed to a VideoSegmentBuilder:
// its NAL units are bare units as avc.SplitAnnexB returns them (no start
// codes, emulation prevention bytes retained) since AVCC length-prefixing
// happens once, at segment build time.
type VideoSample struct {
	Pts        int64
	Dts        int64
	Nalus      [][]byte
	IsKeyframe bool
}

// buildFmp4VideoSample converts one access unit's NAL units from Annex B to
// AVCC (4-byte big-endian length prefix, no start codes, no AUD) and packs
// it into the mediacommon sample type a Part track carries.
func buildFmp4VideoSample(s VideoSample, duration uint32) *fmp4.Sample {
	var out []byte
	for _, nalu := range s.Nalus {
		typ := avc.NaluType(nalu)
		if typ == avc.NaluTypeAud {
			continue
		}
		n := len(nalu)
		out = append(out, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		out = append(out, nalu...)
	}

	return &fmp4.Sample{
		Duration:        duration,
		PTSOffset:       int32(s.Pts - s.Dts),
		IsNonSyncSample: !s.IsKeyframe,
		Payload:         out,
	}
}

// AudioSample is one AAC frame ready to be handed to an AudioSegmentBuilder.
// It may still carry its ADTS header; buildFmp4AudioSample strips it.
type AudioSample struct {
	Pts  int64
	Data []byte
}

// buildFmp4AudioSample strips any ADTS header still attached to the frame
// (a bare ADTS byte stream carries one on every frame; a TS audio PES
// payload is framed the same way) and packs the raw AAC payload into a
// mediacommon sample.
func buildFmp4AudioSample(data []byte, duration uint32) *fmp4.Sample {
	payload := data
	if aac.IsAdtsSyncWord(data) && len(data) >= aac.AdtsHeaderLength {
		payload = data[aac.AdtsHeaderLength:]
	}
	return &fmp4.Sample{
		Duration: duration,
		Payload:  payload,
	}
}
