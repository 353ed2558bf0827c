// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fmp4

import "github.com/bluenviron/mediacommon/v2/pkg/formats/fmp4"

// MediaTrackSamples is one track's contribution to a media segment: a
// run of samples with a shared base decode time, the same shape the
// mediacommon Part/PartTrack pair wants, kept track-agnostic here so video
// and audio share one marshaling path.
type MediaTrackSamples struct {
	TrackId  int
	BaseTime uint64
	Samples  []*fmp4.Sample
}

// BuildMediaSegment marshals a moof+mdat fragment (what MSE calls a media
// segment) carrying every given track's samples. A track with zero samples
// is omitted entirely rather than emitted as an empty traf, since an empty
// traf has nothing meaningful to backpatch a trun/tfdt from.
func BuildMediaSegment(sequenceNumber uint32, tracks []MediaTrackSamples) ([]byte, error) {
	part := &fmp4.Part{SequenceNumber: sequenceNumber}

	for _, t := range tracks {
		if len(t.Samples) == 0 {
			continue
		}
		part.Tracks = append(part.Tracks, &fmp4.PartTrack{
			ID:       t.TrackId,
			BaseTime: t.BaseTime,
			Samples:  t.Samples,
		})
	}

	if len(part.Tracks) == 0 {
		return nil, nil
	}

	w := &seekableBuffer{}
	if err := part.Marshal(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
