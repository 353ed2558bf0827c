// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import (
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"
	"github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4"
	"github.com/bluenviron/mediacommon/v2/pkg/formats/mp4"
)

// VideoInitParams describes the one video track an init segment carries.
type VideoInitParams struct {
	TrackId   int
	Timescale uint32
	Sps       []byte
	Pps       []byte
}

// AudioInitParams describes the one audio track an init segment carries.
type AudioInitParams struct {
	TrackId      int
	Timescale    uint32
	SampleRate   int
	ChannelCount int
	ObjectType   mpeg4audio.ObjectType
}

// BuildInitSegment marshals an ftyp+moov pair describing up to one video
// and one audio track. Either params may be nil, but not both; a track
// whose Sps/Pps (or sample rate/channel count) aren't known yet cannot be
// described and the caller must wait for the first keyframe/ADTS header
// before calling this.
func BuildInitSegment(video *VideoInitParams, audio *AudioInitParams) ([]byte, error) {
	init := &fmp4.Init{}

	if video != nil {
		init.Tracks = append(init.Tracks, &fmp4.InitTrack{
			ID:        video.TrackId,
			TimeScale: video.Timescale,
			Codec: &mp4.CodecH264{
				SPS: video.Sps,
				PPS: video.Pps,
			},
		})
	}

	if audio != nil {
		objType := audio.ObjectType
		if objType == 0 {
			objType = mpeg4audio.ObjectTypeAACLC
		}
		init.Tracks = append(init.Tracks, &fmp4.InitTrack{
			ID:        audio.TrackId,
			TimeScale: audio.Timescale,
			Codec: &mp4.CodecMPEG4Audio{
				Config: mpeg4audio.AudioSpecificConfig{
					Type:         objType,
					SampleRate:   audio.SampleRate,
					ChannelCount: audio.ChannelCount,
				},
			},
		})
	}

	w := &seekableBuffer{}
	if err := init.Marshal(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
