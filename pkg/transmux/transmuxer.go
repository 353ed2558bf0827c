// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"github.com/q191201771/transmux/pkg/aac"
	"github.com/q191201771/transmux/pkg/avc"
	"github.com/q191201771/transmux/pkg/base"
	"github.com/q191201771/transmux/pkg/fmp4"
	"github.com/q191201771/transmux/pkg/mpegts"
)

// Format identifies the container the leading bytes pushed to a Transmuxer
// were recognized as. Detection happens on the first Push of each flush
// cycle and holds until that cycle's Flush or PartialFlush (see Push).
type Format uint8

const (
	FormatUnknown Format = iota
	FormatMpegts
	FormatAdts
)

const (
	videoTrackId = 1
	audioTrackId = 2
)

// EventHandlers are the callbacks a caller wires up before pushing any
// bytes. Every callback fires synchronously from inside Push/Flush/
// PartialFlush; none of them may block on the caller doing more I/O.
type EventHandlers struct {
	OnInitSegment   func(data []byte)
	OnMediaSegment  func(data []byte)
	OnCaption       func(cue ResolvedCaption)
	OnTimedMetadata func(frame Id3Frame)
}

// Transmuxer is the top-level pipeline: bytes in (MPEG-2 TS or a bare ADTS
// AAC stream), fMP4 segments out. It owns every stage from PacketSplitter
// down to the fmp4 segment builders and drives them synchronously,
// reentrantly, from whatever goroutine calls Push — the same single-
// threaded, no-backpressure contract every stage in this package follows.
type Transmuxer struct {
	opts     Options
	handlers EventHandlers

	format     Format
	hasPushed  bool
	hasFlushed bool

	splitter  *PacketSplitter
	parser    *PacketParser
	assembler *ElementaryAssembler

	adtsCarry *base.Buffer

	videoRollover Rollover
	audioRollover Rollover

	videoTrack *Track
	audioTrack *Track

	videoBuilder *fmp4.VideoSegmentBuilder
	audioBuilder *fmp4.AudioSegmentBuilder

	captionDecoder *CaptionDecoder

	// timelineBaseline is the 90kHz DTS of the first sample any track saw
	// since construction or the last EndTimeline/Reset, the shared zero
	// point every track's normalized baseMediaDecodeTime is computed
	// against (see normalizeBaseTime).
	timelineBaseline    int64
	timelineBaselineSet bool

	sequenceNumber  uint32
	initSegmentSent bool
}

func NewTransmuxer(handlers EventHandlers, opts ...Option) *Transmuxer {
	t := &Transmuxer{
		opts:           newOptions(opts...),
		handlers:       handlers,
		adtsCarry:      base.NewBuffer(4096),
		videoBuilder:   fmp4.NewVideoSegmentBuilder(),
		captionDecoder: NewCaptionDecoder(),
	}
	t.assembler = NewElementaryAssembler(t.handleEsUnit)
	t.parser = NewPacketParser(t.assembler)
	t.splitter = NewPacketSplitter(t.parser.HandlePacket)
	return t
}

// Push feeds the transmuxer the next chunk of the input byte stream. The
// chunk need not align to any packet, PES, or frame boundary. Format
// detection runs again at the start of every flush cycle (the first Push
// after a Flush or PartialFlush), not only once for the Transmuxer's whole
// life, so a caller that reuses one Transmuxer across sources sees each
// source's leading bytes classified on its own terms.
func (t *Transmuxer) Push(data []byte) {
	if len(data) == 0 {
		return
	}
	if !t.hasPushed {
		t.hasPushed = true
		t.format = detectFormat(data)
	}

	switch t.format {
	case FormatMpegts:
		t.splitter.Push(data)
	case FormatAdts:
		t.pushAdts(data)
	default:
		base.Log.Warnf("transmux: could not detect input format from leading bytes, dropping %d bytes", len(data))
	}
}

// detectFormat looks only at the leading bytes of the first chunk pushed
// in a flush cycle: a sync byte at offset 0 means MPEG-2 TS, an ADTS sync word or an
// ID3 tag marker means a bare AAC elementary stream carrying its own
// timed-metadata tags.
func detectFormat(data []byte) Format {
	if len(data) > 0 && data[0] == mpegts.SyncByte {
		return FormatMpegts
	}
	if aac.IsAdtsSyncWord(data) || IsId3Tag(data) {
		return FormatAdts
	}
	return FormatUnknown
}

func (t *Transmuxer) pushAdts(data []byte) {
	dst := t.adtsCarry.ReserveBytes(len(data))
	copy(dst, data)
	t.adtsCarry.Flush(len(data))

	for {
		buf := t.adtsCarry.Bytes()
		if len(buf) == 0 {
			return
		}
		if IsId3Tag(buf) {
			if len(buf) < id3HeaderLength {
				return
			}
			total := id3HeaderLength + ParseId3TagSize(buf)
			if total > len(buf) {
				return
			}
			raw := make([]byte, total)
			copy(raw, buf[:total])
			t.adtsCarry.Skip(total)
			if frame := ParseId3Frame(0, 0, raw); frame != nil && t.handlers.OnTimedMetadata != nil {
				t.handlers.OnTimedMetadata(*frame)
			}
			continue
		}
		if !aac.IsAdtsSyncWord(buf) {
			// lost sync in a bare ADTS stream; drop one byte and retry.
			t.adtsCarry.Skip(1)
			continue
		}
		if len(buf) < aac.AdtsHeaderLength {
			return
		}
		ctx, err := aac.NewAdtsHeaderContext(buf)
		if err != nil || ctx.AdtsLength == 0 {
			t.adtsCarry.Skip(1)
			continue
		}
		if int(ctx.AdtsLength) > len(buf) {
			return
		}
		frame := make([]byte, ctx.AdtsLength)
		copy(frame, buf[:ctx.AdtsLength])
		t.adtsCarry.Skip(int(ctx.AdtsLength))
		t.handleRawAdtsFrame(ctx, frame)
	}
}

func (t *Transmuxer) handleRawAdtsFrame(ctx *aac.AdtsHeaderContext, frame []byte) {
	t.ensureAudioTrack()
	sampleRate, err := ctx.AscCtx.GetSamplingFrequency()
	if err != nil {
		return
	}
	t.updateAudioParams(sampleRate, int(ctx.AscCtx.ChannelConfiguration), ctx.AscCtx.AudioObjectType)
	t.audioBuilder.Push(fmp4.AudioSample{Data: frame})
}

// handleEsUnit is the ElementaryAssembler callback: one fully reassembled
// PES payload, PTS/DTS not yet rollover-corrected. Rollover correction runs
// unconditionally here regardless of opts.KeepOriginalTimestamps: that
// option only controls whether the emitted baseMediaDecodeTime is
// normalized against the timeline start, not whether the 33-bit wraparound
// every TS timestamp is subject to gets unwrapped. Only video and audio are
// corrected: timed-metadata (ID3) PTS/DTS reach ParseId3Frame exactly as
// read from the PES header.
func (t *Transmuxer) handleEsUnit(pid uint16, streamType uint8, pts, dts int64, payload []byte) {
	switch streamType {
	case mpegts.StreamTypeH264:
		cpts, cdts := t.videoRollover.Correct(pts, dts)
		t.handleVideoEsUnit(cpts, cdts, payload)
	case mpegts.StreamTypeAdtsAac:
		cpts, cdts := t.audioRollover.Correct(pts, dts)
		t.handleAudioEsUnit(cpts, cdts, payload)
	case mpegts.StreamTypeId3Metadata:
		if frame := ParseId3Frame(pts, dts, payload); frame != nil && t.handlers.OnTimedMetadata != nil {
			t.handlers.OnTimedMetadata(*frame)
		}
	}
}

func (t *Transmuxer) handleVideoEsUnit(pts, dts int64, payload []byte) {
	nalus := avc.SplitAnnexB(payload)
	if len(nalus) == 0 {
		return
	}
	t.ensureVideoTrack()
	t.recordTimelineStart(t.videoTrack, pts, dts)
	t.applyAudioEarliestAllowedDts()
	t.applyAudioAppendStart()

	for _, nalu := range nalus {
		switch avc.NaluType(nalu) {
		case avc.NaluTypeSps:
			if sps, err := avc.ParseSps(avc.StripEmulationPrevention(nalu)); err == nil {
				t.updateVideoParams(nalu, t.videoTrack.Pps, sps)
			}
		case avc.NaluTypePps:
			t.updateVideoParams(t.videoTrack.Sps, nalu, t.videoTrack.SpsInfo)
		}
	}

	for _, cue := range ExtractCaptions(pts, nalus) {
		resolved := t.captionDecoder.Push(cue)
		if resolved == nil || t.handlers.OnCaption == nil {
			continue
		}
		resolved.StartTime = t.captionTimeSeconds(resolved.StartPts)
		resolved.EndTime = t.captionTimeSeconds(resolved.EndPts)
		t.handlers.OnCaption(*resolved)
	}

	t.videoBuilder.PushNalus(nalus, pts, dts)
}

func (t *Transmuxer) handleAudioEsUnit(pts, dts int64, payload []byte) {
	t.ensureAudioTrack()
	t.recordTimelineStart(t.audioTrack, pts, dts)

	frameNum := int64(0)
	for len(payload) >= aac.AdtsHeaderLength && aac.IsAdtsSyncWord(payload) {
		ctx, err := aac.NewAdtsHeaderContext(payload)
		if err != nil || int(ctx.AdtsLength) == 0 || int(ctx.AdtsLength) > len(payload) {
			break
		}
		frame := payload[:ctx.AdtsLength]
		payload = payload[ctx.AdtsLength:]

		sampleRate, err := ctx.AscCtx.GetSamplingFrequency()
		if err != nil {
			continue
		}
		t.updateAudioParams(sampleRate, int(ctx.AscCtx.ChannelConfiguration), ctx.AscCtx.AudioObjectType)

		samplePts := pts
		if t.audioTrack.SampleRate > 0 {
			samplePts = pts*int64(t.audioTrack.SampleRate)/VideoTimescale + frameNum*aac.SamplesPerAacFrame
		}
		frameNum++
		t.audioBuilder.Push(fmp4.AudioSample{Pts: samplePts, Data: frame})
	}
}

// recordTimelineStart seeds track's TimelineStartInfo from the first sample
// it sees since construction or the last EndTimeline/Reset, and seeds the
// Transmuxer-wide timelineBaseline the same way from whichever track (video
// or audio) produces that first sample overall. `pts`/`dts` must already be
// rollover-corrected.
func (t *Transmuxer) recordTimelineStart(track *Track, pts, dts int64) {
	if !t.timelineBaselineSet {
		t.timelineBaseline = dts
		t.timelineBaselineSet = true
	}
	if !track.TimelineStartInfo.Set {
		track.TimelineStartInfo = TimelineStartInfo{
			Baseline: t.timelineBaseline,
			Pts:      pts,
			Dts:      dts,
			Set:      true,
		}
	}
}

// applyAudioEarliestAllowedDts pins the audio builder's earliest-allowed-DTS
// threshold to the video track's first observed DTS, converted into the
// audio track's own timescale, so audio samples that precede the point video
// actually starts get discarded rather than stretching the fragment's start
// time backward. A no-op until both a video track's timeline start and an
// audio builder with a known sample rate exist; called again whenever either
// becomes available so neither has to arrive first.
func (t *Transmuxer) applyAudioEarliestAllowedDts() {
	if t.videoTrack == nil || !t.videoTrack.TimelineStartInfo.Set {
		return
	}
	if t.audioBuilder == nil || t.audioTrack == nil || t.audioTrack.SampleRate == 0 {
		return
	}
	threshold := t.videoTrack.TimelineStartInfo.Dts * int64(t.audioTrack.SampleRate) / VideoTimescale
	t.audioBuilder.SetEarliestAllowedDts(threshold)
}

// applyAudioAppendStart pins the audio builder's append-start point to the
// video track's own timeline start, converted into the audio track's own
// timescale, so a fragment whose audio lags video by more than one frame
// gets silence prepended automatically instead of requiring a caller to
// discover the gap and call SetAudioAppendStart itself. A no-op until both
// a video track's timeline start and an audio builder with a known sample
// rate exist; called again whenever either becomes available so neither
// has to arrive first, the same pattern applyAudioEarliestAllowedDts uses.
func (t *Transmuxer) applyAudioAppendStart() {
	if t.videoTrack == nil || !t.videoTrack.TimelineStartInfo.Set {
		return
	}
	if t.audioBuilder == nil || t.audioTrack == nil || t.audioTrack.SampleRate == 0 {
		return
	}
	appendStart := t.videoTrack.TimelineStartInfo.Dts * int64(t.audioTrack.SampleRate) / VideoTimescale
	t.audioBuilder.SetAppendStart(appendStart)
}

func (t *Transmuxer) ensureVideoTrack() {
	if t.videoTrack == nil {
		t.videoTrack = NewTrack(videoTrackId, TrackTypeVideo, 0)
		t.videoTrack.Timescale = VideoTimescale
	}
}

func (t *Transmuxer) ensureAudioTrack() {
	if t.audioTrack == nil {
		t.audioTrack = NewTrack(audioTrackId, TrackTypeAudio, 0)
	}
}

// updateVideoParams records the current SPS/PPS. A change after the first
// init segment has already gone out only triggers a fresh one when
// opts.Remux is set — by default this repository assumes mid-stream SPS/PPS
// repetition carries the same parameters and a fresh segment every GOP
// would otherwise never stabilize.
func (t *Transmuxer) updateVideoParams(sps, pps []byte, spsInfo avc.Sps) {
	changed := string(t.videoTrack.Sps) != string(sps) || string(t.videoTrack.Pps) != string(pps)
	t.videoTrack.Sps = sps
	t.videoTrack.Pps = pps
	t.videoTrack.SpsInfo = spsInfo
	t.videoTrack.Width = spsInfo.Width
	t.videoTrack.Height = spsInfo.Height
	t.videoTrack.Profile = spsInfo.ProfileIdc
	t.videoTrack.Level = spsInfo.LevelIdc
	if changed && (!t.initSegmentSent || t.opts.Remux) {
		t.initSegmentSent = false
	}
}

func (t *Transmuxer) updateAudioParams(sampleRate, channelCount int, objectType uint8) {
	changed := t.audioTrack.SampleRate != sampleRate || t.audioTrack.ChannelCount != channelCount
	t.audioTrack.SampleRate = sampleRate
	t.audioTrack.ChannelCount = channelCount
	t.audioTrack.ObjectType = objectType
	t.audioTrack.Timescale = sampleRate
	if t.audioBuilder == nil || (changed && (!t.initSegmentSent || t.opts.Remux)) {
		t.audioBuilder = fmp4.NewAudioSegmentBuilder(sampleRate, channelCount)
		t.applyAudioEarliestAllowedDts()
		t.applyAudioAppendStart()
	}
	if changed && (!t.initSegmentSent || t.opts.Remux) {
		t.initSegmentSent = false
	}
}

// SetBaseMediaDecodeTime pins the offset normalizeBaseTime adds to every
// following media segment's baseMediaDecodeTime, the way a
// player asks for when it has already displayed earlier segments and wants
// this transmuxer's output to continue the same timeline.
func (t *Transmuxer) SetBaseMediaDecodeTime(v int64) {
	t.opts.BaseMediaDecodeTime = v
}

// SetAudioAppendStart overrides the PTS (90kHz) the audio track's next
// fragment must start at; PartialFlush/Flush insert silent frames to close
// any gap. applyAudioAppendStart already derives this automatically from
// the video track's timeline start, so a caller only needs this when it
// wants a different append point than the video track's own.
func (t *Transmuxer) SetAudioAppendStart(pts int64) {
	if t.audioTrack == nil || t.audioBuilder == nil {
		return
	}
	samplePts := pts
	if t.audioTrack.SampleRate > 0 {
		samplePts = pts * int64(t.audioTrack.SampleRate) / VideoTimescale
	}
	t.audioBuilder.SetAppendStart(samplePts)
}

func (t *Transmuxer) SetRemux(v bool) {
	t.opts.Remux = v
}

// maybeEmitInitSegment builds and emits the init segment once codec params
// for every configured track are known, and again after updateVideoParams/
// updateAudioParams clear initSegmentSent (a param change before the first
// init segment, or any param change when opts.Remux is set). Without an
// OnInitSegment handler the segment is built and dropped, so media segments
// still follow.
func (t *Transmuxer) maybeEmitInitSegment() {
	if t.initSegmentSent {
		return
	}

	var video *fmp4.VideoInitParams
	if t.videoTrack != nil && len(t.videoTrack.Sps) > 0 && len(t.videoTrack.Pps) > 0 {
		video = &fmp4.VideoInitParams{
			TrackId:   t.videoTrack.Id,
			Timescale: VideoTimescale,
			Sps:       t.videoTrack.Sps,
			Pps:       t.videoTrack.Pps,
		}
	}
	var audio *fmp4.AudioInitParams
	if t.audioTrack != nil && t.audioTrack.SampleRate > 0 {
		audio = &fmp4.AudioInitParams{
			TrackId:      t.audioTrack.Id,
			Timescale:    uint32(t.audioTrack.SampleRate),
			SampleRate:   t.audioTrack.SampleRate,
			ChannelCount: t.audioTrack.ChannelCount,
		}
	}
	if video == nil && audio == nil {
		return
	}

	data, err := fmp4.BuildInitSegment(video, audio)
	if err != nil {
		base.Log.Errorf("transmux: failed to build init segment. err=%v", err)
		return
	}
	t.initSegmentSent = true
	if t.handlers.OnInitSegment != nil {
		t.handlers.OnInitSegment(data)
	}
}

// captionTimeSeconds converts a caption window boundary's 90kHz PTS into
// seconds relative to the timeline start every track shares, the same
// reference point normalizeBaseTime anchors baseMediaDecodeTime to.
func (t *Transmuxer) captionTimeSeconds(pts int64) float64 {
	baseline := int64(0)
	if t.timelineBaselineSet {
		baseline = t.timelineBaseline
	}
	return float64(pts-baseline) / float64(VideoTimescale)
}

// normalizeBaseTime converts a segment's minimum sample DTS (`minDts`,
// already expressed in `trackTimescale` units) into the baseMediaDecodeTime
// a moof's tfdt carries. In pass-through mode (opts.KeepOriginalTimestamps,
// or before the track has recorded a timeline start) it is used as-is;
// otherwise it is normalized against timelineBaseline, the 90kHz reference
// every track shares from whichever of them produced the first sample since
// timeline start — scaling that 90kHz reference into trackTimescale units is
// equivalent to converting it to milliseconds and back (dividing by 90 then
// multiplying by trackTimescale/1000), done here as one proportion to avoid
// losing precision in between. Either way, the caller's pinned
// BaseMediaDecodeTime offset is added on top, for continuing an existing
// player timeline.
func (t *Transmuxer) normalizeBaseTime(track *Track, minDts uint64, trackTimescale int) uint64 {
	if t.opts.KeepOriginalTimestamps || track == nil || !track.TimelineStartInfo.Set {
		return minDts + uint64(t.opts.BaseMediaDecodeTime)
	}
	baselineTicks := track.TimelineStartInfo.Baseline * int64(trackTimescale) / VideoTimescale
	normalized := int64(minDts) - baselineTicks
	if normalized < 0 {
		normalized = 0
	}
	return uint64(normalized) + uint64(t.opts.BaseMediaDecodeTime)
}

// flushBuilders drains whatever video/audio samples the segment builders
// are holding out as one or more media segments. A partial flush (isFinal
// false) emits one moof+mdat per buffered video frame, the first carrying
// this cycle's audio alongside it, so a player sees new video as soon as
// each frame is available instead of waiting for the whole batch; the final
// Flush (isFinal true) instead aggregates every buffered video frame into
// one fragment, since there is no further cadence left to stagger them
// across. When opts.AlignGopsAtEnd is set and this is not the final Flush,
// the video builder is left untouched so a GOP a PartialFlush would
// otherwise cut in half instead rides along until the stream actually ends.
func (t *Transmuxer) flushBuilders(isFinal bool) {
	t.maybeEmitInitSegment()
	if !t.initSegmentSent {
		return
	}

	var audioTracks []fmp4.MediaTrackSamples
	if t.audioBuilder != nil {
		if samples, baseTime, ok := t.audioBuilder.Flush(); ok {
			if t.audioTrack != nil && t.audioTrack.SampleRate > 0 {
				baseTime = t.normalizeBaseTime(t.audioTrack, baseTime, t.audioTrack.SampleRate)
			}
			audioTracks = append(audioTracks, fmp4.MediaTrackSamples{TrackId: audioTrackId, BaseTime: baseTime, Samples: samples})
		}
	}

	if t.opts.AlignGopsAtEnd && !isFinal {
		t.emitSegment(audioTracks)
		return
	}

	videoFallback := uint32(VideoTimescale / 30)

	if isFinal {
		tracks := audioTracks
		if samples, baseTime, ok := t.videoBuilder.Flush(videoFallback); ok {
			baseTime = t.normalizeBaseTime(t.videoTrack, baseTime, VideoTimescale)
			tracks = append([]fmp4.MediaTrackSamples{{TrackId: videoTrackId, BaseTime: baseTime, Samples: samples}}, tracks...)
		}
		t.emitSegment(tracks)
		return
	}

	frames := t.videoBuilder.FlushFrames(videoFallback)
	if len(frames) == 0 {
		t.emitSegment(audioTracks)
		return
	}
	for i, f := range frames {
		baseTime := t.normalizeBaseTime(t.videoTrack, f.BaseTime, VideoTimescale)
		tracks := []fmp4.MediaTrackSamples{{TrackId: videoTrackId, BaseTime: baseTime, Samples: []*fmp4.Sample{f.Sample}}}
		if i == 0 {
			tracks = append(tracks, audioTracks...)
		}
		t.emitSegment(tracks)
	}
}

// emitSegment marshals and delivers one media segment covering the given
// tracks, bumping the sequence number only when there is actually something
// to send.
func (t *Transmuxer) emitSegment(tracks []fmp4.MediaTrackSamples) {
	if len(tracks) == 0 {
		return
	}
	t.sequenceNumber++
	data, err := fmp4.BuildMediaSegment(t.sequenceNumber, tracks)
	if err != nil {
		base.Log.Errorf("transmux: failed to build media segment. err=%v", err)
		return
	}
	if data != nil && t.handlers.OnMediaSegment != nil {
		t.handlers.OnMediaSegment(data)
	}
}

// PartialFlush emits one media segment per buffered video frame, plus this
// cycle's audio riding along with the first of them, without forcing the
// PES reassembler to give up a packet it may still be accumulating; used
// for a long-running stream that wants segments at a steady cadence rather
// than only at end of stream. The video builder's frameCache is left
// untouched: a trailing access unit this flush cycle caught mid-frame may
// still be completed by the next Push. Ends the current flush cycle, so the
// next Push re-detects the input format.
func (t *Transmuxer) PartialFlush() {
	t.flushBuilders(false)
	t.hasPushed = false
}

// Flush forces the PES reassembler to yield its last, still-accumulating
// packet (there being no more bytes coming to trigger the ordinary
// payload_unit_start path), drains any access unit still waiting in the
// video builder's frameCache (no further AUD is coming to close it out
// either), and then emits one final media segment aggregating every
// buffered frame. Ends the current flush cycle, so the next Push
// re-detects the input format.
func (t *Transmuxer) Flush() {
	t.splitter.Flush()
	t.assembler.Flush()
	t.videoBuilder.Drain()
	t.hasFlushed = true
	t.flushBuilders(true)
	t.hasPushed = false
}

// EndTimeline marks a discontinuity: the next sample's PTS/DTS belongs to a
// new timeline, so rollover correction must stop referencing the old one,
// and each track's recorded timeline start (and the audio builder's
// earliest-allowed-DTS bound derived from it) must be re-established from
// whatever track sees the next sample. Codec parameters and segment
// sequence numbering are left untouched.
func (t *Transmuxer) EndTimeline() {
	t.videoRollover.Reset()
	t.audioRollover.Reset()
	t.timelineBaseline = 0
	t.timelineBaselineSet = false
	if t.videoTrack != nil {
		t.videoTrack.resetTimelineStart()
	}
	if t.audioTrack != nil {
		t.audioTrack.resetTimelineStart()
	}
	if t.audioBuilder != nil {
		t.audioBuilder.ClearEarliestAllowedDts()
	}
	t.captionDecoder = NewCaptionDecoder()
}

// Reset discards all pipeline and track state, as if the Transmuxer had
// just been constructed (options and callbacks are kept). sequenceNumber is
// deliberately left alone: it numbers the media segments already handed to
// a player, and a caller that resets mid-session (a mid-stream discontinuity
// recovery, say) to keep feeding the same player must not start handing out
// segment numbers that player has already seen.
func (t *Transmuxer) Reset() {
	t.splitter.Reset()
	t.parser.Reset()
	t.assembler.Reset()
	t.adtsCarry.Reset()
	t.videoRollover.Reset()
	t.audioRollover.Reset()
	t.videoTrack = nil
	t.audioTrack = nil
	t.videoBuilder = fmp4.NewVideoSegmentBuilder()
	t.audioBuilder = nil
	t.captionDecoder = NewCaptionDecoder()
	t.timelineBaseline = 0
	t.timelineBaselineSet = false
	t.initSegmentSent = false
	t.hasPushed = false
	t.hasFlushed = false
	t.format = FormatUnknown
}
