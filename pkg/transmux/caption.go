// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import "github.com/q191201771/transmux/pkg/avc"

// cea608Uuid is the ATSC A/53 Part 4 "GA94" identifier that marks a SEI
// user_data_registered_itu_t_t35 payload as carrying CEA-608/708 caption
// data (the ASCII bytes of "GA94").
var cea608Uuid = [4]byte{0x47, 0x41, 0x39, 0x34}

const (
	seiUserDataRegisteredItuTT35 = 4

	ccTypeNtscCc1 = 0
	ccTypeNtscCc2 = 1
)

// CaptionCue is one CEA-608 byte pair extracted from a frame's SEI data,
// still attached to the PTS it rode in on. ExtractCaptions only locates and
// demultiplexes the byte pairs by channel; CaptionDecoder runs the
// pop-on/roll-up/paint-on mode tracking over them, and the final
// codepoint-to-Unicode mapping is left to the caller.
type CaptionCue struct {
	Pts     int64
	Channel int
	Byte1   byte
	Byte2   byte
}

// ExtractCaptions scans a frame's NAL units for SEI messages carrying
// CEA-608/708 data and returns every byte pair found, in NAL order.
func ExtractCaptions(pts int64, nalus [][]byte) []CaptionCue {
	var cues []CaptionCue
	for _, nalu := range nalus {
		if avc.NaluType(nalu) != avc.NaluTypeSei {
			continue
		}
		cues = append(cues, extractFromSei(pts, avc.StripEmulationPrevention(nalu))...)
	}
	return cues
}

func extractFromSei(pts int64, sei []byte) []CaptionCue {
	// SEI RBSP: nal header byte, then one or more
	// {payloadType, payloadSize, payload} messages, padding with
	// rbsp_trailing_bits.
	i := 1
	var cues []CaptionCue
	for i < len(sei) {
		payloadType := 0
		for i < len(sei) && sei[i] == 0xff {
			payloadType += 255
			i++
		}
		if i >= len(sei) {
			break
		}
		payloadType += int(sei[i])
		i++

		payloadSize := 0
		for i < len(sei) && sei[i] == 0xff {
			payloadSize += 255
			i++
		}
		if i >= len(sei) {
			break
		}
		payloadSize += int(sei[i])
		i++

		if i+payloadSize > len(sei) {
			break
		}
		payload := sei[i : i+payloadSize]
		i += payloadSize

		if payloadType == seiUserDataRegisteredItuTT35 {
			cues = append(cues, parseItuT35Payload(pts, payload)...)
		}
	}
	return cues
}

// CaptionMode is the CEA-608 display mode a channel's decoder is currently
// in, selected by the most recent mode-switch control code seen on that
// channel.
type CaptionMode uint8

const (
	CaptionModeNone CaptionMode = iota
	CaptionModePopOn
	CaptionModeRollUp
	CaptionModePaintOn
)

// ResolvedCaption is one complete, time-windowed caption: every character
// code CaptionDecoder accumulated on a channel between the control codes
// that opened and closed its display window. Codepoints holds the raw
// CEA-608 character codes in the order received; mapping them to displayable
// Unicode text (character-set substitutions, special/extended glyphs) is the
// caller's job, not this package's.
type ResolvedCaption struct {
	Channel    int
	Mode       CaptionMode
	Codepoints []byte
	StartPts   int64
	EndPts     int64
	StartTime  float64
	EndTime    float64
}

// Miscellaneous control codes, CEA-608-E table 70: the second byte of a
// {0x14,0x15,0x1C,0x1D}-prefixed pair. Only the codes that affect which mode
// a channel is in or open/close a display window are interpreted; the rest
// (BS, AOF, AON, DER, FON, TR, RTD) have no effect on window resolution and
// fall through untouched.
const (
	miscRcl = 0x20 // Resume Caption Loading: enter pop-on
	miscRu2 = 0x25 // Roll-Up, 2 rows
	miscRu3 = 0x26 // Roll-Up, 3 rows
	miscRu4 = 0x27 // Roll-Up, 4 rows
	miscRdc = 0x29 // Resume Direct Captioning: enter paint-on
	miscEdm = 0x2C // Erase Displayed Memory
	miscCr  = 0x2D // Carriage Return (roll-up newline)
	miscEnm = 0x2E // Erase Non-displayed Memory
	miscEoc = 0x2F // End Of Caption: swap displayed/non-displayed (pop-on)
)

// captionChannelState is one CEA-608 channel's decoder: a mode, the two
// CEA-608 memory buffers (only pop-on actually uses both), and the window
// currently open on the displayed buffer, if any.
type captionChannelState struct {
	channel      int
	mode         CaptionMode
	displayed    []byte
	nonDisplayed []byte

	windowOpen    bool
	windowStart   int64
	lastPair      [2]byte
	lastWasRepeat bool
}

// CaptionDecoder runs the CEA-608 mode state machine (pop-on, roll-up,
// paint-on) over the byte pairs ExtractCaptions produces, one
// captionChannelState per channel, and resolves each display window into a
// ResolvedCaption as soon as the control codes that close it arrive. CEA-608
// repeats every control code pair once for error resilience; the decoder
// acts on the first occurrence of a pair and silently drops its immediate
// repeat.
type CaptionDecoder struct {
	channels map[int]*captionChannelState
}

func NewCaptionDecoder() *CaptionDecoder {
	return &CaptionDecoder{channels: make(map[int]*captionChannelState)}
}

// Push feeds one byte pair through its channel's decoder. It returns a
// non-nil ResolvedCaption exactly when this pair's control code just closed
// a display window (StartTime/EndTime are left at zero; the caller fills
// them in once it knows the timeline this Pts is relative to).
func (d *CaptionDecoder) Push(cue CaptionCue) *ResolvedCaption {
	s, ok := d.channels[cue.Channel]
	if !ok {
		s = &captionChannelState{channel: cue.Channel}
		d.channels[cue.Channel] = s
	}

	b1, b2 := cue.Byte1&0x7f, cue.Byte2&0x7f
	if b1 == 0x00 {
		return nil
	}

	if isControlPair(b1) {
		pair := [2]byte{b1, b2}
		if s.lastPair == pair && !s.lastWasRepeat {
			s.lastWasRepeat = true
			return nil
		}
		s.lastPair = pair
		s.lastWasRepeat = false
		return s.applyControl(b1, b2, cue.Pts)
	}
	s.lastPair = [2]byte{}
	s.lastWasRepeat = false

	if b1 >= 0x20 {
		s.appendChar(b1, cue.Pts)
	}
	if b2 >= 0x20 {
		s.appendChar(b2, cue.Pts)
	}
	return nil
}

// isControlPair reports whether a masked byte pair's first byte falls in
// the control-code range (PAC, mid-row, special/extended character select,
// or miscellaneous control codes) rather than a standard character pair.
func isControlPair(b1 byte) bool {
	return b1 >= 0x10 && b1 < 0x20
}

// appendChar writes one character code to whichever buffer the current mode
// writes to: pop-on builds the next caption off-screen in nonDisplayed until
// EOC swaps it in, roll-up and paint-on write straight to the buffer
// already on screen.
func (s *captionChannelState) appendChar(code byte, pts int64) {
	switch s.mode {
	case CaptionModePopOn:
		s.nonDisplayed = append(s.nonDisplayed, code)
	case CaptionModeRollUp, CaptionModePaintOn:
		if !s.windowOpen {
			s.windowOpen = true
			s.windowStart = pts
		}
		s.displayed = append(s.displayed, code)
	}
}

func (s *captionChannelState) applyControl(b1, b2 byte, pts int64) *ResolvedCaption {
	if b1 != 0x14 && b1 != 0x15 && b1 != 0x1C && b1 != 0x1D {
		return nil // PAC, mid-row style, or extended/special char select: no window effect
	}

	switch b2 {
	case miscRcl:
		s.mode = CaptionModePopOn
	case miscRu2, miscRu3, miscRu4:
		s.mode = CaptionModeRollUp
	case miscRdc:
		s.mode = CaptionModePaintOn
	case miscEdm:
		r := s.closeWindow(pts)
		s.displayed = s.displayed[:0]
		return r
	case miscCr:
		r := s.closeWindow(pts)
		s.displayed = s.displayed[:0]
		return r
	case miscEnm:
		s.nonDisplayed = s.nonDisplayed[:0]
	case miscEoc:
		r := s.closeWindow(pts)
		s.displayed, s.nonDisplayed = s.nonDisplayed, s.displayed[:0]
		if len(s.displayed) > 0 {
			s.windowOpen = true
			s.windowStart = pts
		}
		return r
	}
	return nil
}

// closeWindow resolves whatever is currently on screen into a
// ResolvedCaption, ending its window at pts. Returns nil if nothing was
// open (an EDM/EOC/CR with no preceding text to close).
func (s *captionChannelState) closeWindow(pts int64) *ResolvedCaption {
	if !s.windowOpen || len(s.displayed) == 0 {
		s.windowOpen = false
		return nil
	}
	codepoints := make([]byte, len(s.displayed))
	copy(codepoints, s.displayed)
	r := &ResolvedCaption{
		Channel:    s.channel,
		Mode:       s.mode,
		Codepoints: codepoints,
		StartPts:   s.windowStart,
		EndPts:     pts,
	}
	s.windowOpen = false
	return r
}

func parseItuT35Payload(pts int64, payload []byte) []CaptionCue {
	// itu_t_t35_country_code(1) + itu_t_t35_provider_code(2) +
	// user_identifier(4, "GA94") + user_data_type_code(1, 0x03 for
	// cc_data) precede the cc_data() structure itself.
	const prefixLen = 8
	if len(payload) < prefixLen {
		return nil
	}
	if payload[3] != cea608Uuid[0] || payload[4] != cea608Uuid[1] ||
		payload[5] != cea608Uuid[2] || payload[6] != cea608Uuid[3] {
		return nil
	}
	if payload[7] != 0x03 {
		return nil
	}

	body := payload[prefixLen:]
	if len(body) < 1 {
		return nil
	}
	ccCount := int(body[0] & 0x1f)
	body = body[1:]
	if len(body) < 1 {
		return nil
	}
	body = body[1:] // em_data, reserved

	var cues []CaptionCue
	for n := 0; n < ccCount && len(body) >= 3; n++ {
		ccValid := body[0]&0x04 != 0
		ccType := body[0] & 0x03
		b1, b2 := body[1], body[2]
		body = body[3:]

		if !ccValid {
			continue
		}
		if ccType != ccTypeNtscCc1 && ccType != ccTypeNtscCc2 {
			// DTVCC (CEA-708) channels are not demultiplexed here.
			continue
		}
		cues = append(cues, CaptionCue{Pts: pts, Channel: int(ccType), Byte1: b1, Byte2: b2})
	}
	return cues
}
