// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"github.com/q191201771/transmux/pkg/base"
	"github.com/q191201771/transmux/pkg/mpegts"
)

// EsUnitHandler receives one fully reassembled PES payload (the bytes
// between its header and the next PES packet's start), along with the
// rollover-uncorrected PTS/DTS read out of that header.
type EsUnitHandler func(pid uint16, streamType uint8, pts, dts int64, payload []byte)

// ElementaryAssembler reassembles PES packets out of the payload bytes
// PacketParser hands it, one growable buffer per PID (video, audio, and
// timed metadata each get their own, since each occupies its own PID).
// A PES packet's payload_unit_start_indicator marks where one ends and the
// next begins. Video PES packets routinely declare PES_packet_length as 0,
// so video relies on that marker alone; audio and timed metadata are also
// flushed as soon as their declared length has accumulated (see
// flushIfDeclaredLengthReached).
type ElementaryAssembler struct {
	buffers     map[uint16]*base.Buffer
	streamTypes map[uint16]uint8
	onEsUnit    EsUnitHandler
}

func NewElementaryAssembler(onEsUnit EsUnitHandler) *ElementaryAssembler {
	return &ElementaryAssembler{
		buffers:     make(map[uint16]*base.Buffer),
		streamTypes: make(map[uint16]uint8),
		onEsUnit:    onEsUnit,
	}
}

// OnPmt registers a growable buffer for every program element the PMT
// names, the first time each PID is seen.
func (a *ElementaryAssembler) OnPmt(pmt *mpegts.Pmt) {
	for _, pe := range pmt.ProgramElements {
		if _, ok := a.buffers[pe.Pid]; !ok {
			a.buffers[pe.Pid] = base.NewBuffer(4096)
		}
		a.streamTypes[pe.Pid] = pe.StreamType
	}
}

// Push appends `payload` to the PID's buffer, first flushing out whatever
// PES packet was accumulating if `payloadUnitStart` marks the beginning of
// a new one.
func (a *ElementaryAssembler) Push(pid uint16, streamType uint8, payload []byte, payloadUnitStart bool) {
	buf, ok := a.buffers[pid]
	if !ok {
		buf = base.NewBuffer(4096)
		a.buffers[pid] = buf
		a.streamTypes[pid] = streamType
	}
	if payloadUnitStart {
		a.flushPes(pid)
	}

	dst := buf.ReserveBytes(len(payload))
	copy(dst, payload)
	buf.Flush(len(payload))

	if a.streamTypes[pid] != mpegts.StreamTypeH264 {
		a.flushIfDeclaredLengthReached(pid)
	}
}

// flushIfDeclaredLengthReached flushes an audio or timed-metadata PES packet
// as soon as its declared PES_packet_length bytes have accumulated, instead
// of waiting for the next payload_unit_start packet. Video never takes this
// path: it always declares PES_packet_length as 0 and relies entirely on the
// next start marker (or an explicit Flush) to know where one packet ends.
func (a *ElementaryAssembler) flushIfDeclaredLengthReached(pid uint16) {
	buf, ok := a.buffers[pid]
	if !ok {
		return
	}
	data := buf.Bytes()
	if len(data) < 6 || data[0] != 0 || data[1] != 0 || data[2] != 1 {
		return
	}
	packetLength := int(data[4])<<8 | int(data[5])
	if packetLength == 0 {
		return
	}
	if total := 6 + packetLength; len(data) >= total {
		a.flushPes(pid)
	}
}

func (a *ElementaryAssembler) flushPes(pid uint16) {
	buf, ok := a.buffers[pid]
	if !ok || buf.Len() == 0 {
		return
	}
	data := buf.Bytes()
	if len(data) < 9 || data[0] != 0 || data[1] != 0 || data[2] != 1 {
		buf.Reset()
		return
	}

	pes, offset := mpegts.ParsePes(data)
	if offset > len(data) {
		buf.Reset()
		return
	}
	payload := make([]byte, len(data)-offset)
	copy(payload, data[offset:])

	a.onEsUnit(pid, a.streamTypes[pid], int64(pes.Pts), int64(pes.Dts), payload)
	buf.Reset()
}

// Flush forces out whatever PES packet is still accumulating for every
// known PID; Transmuxer.Flush calls this (PartialFlush does not) so a
// stream that ends mid-PES (no trailing payload_unit_start to trigger the
// ordinary path) still yields its last samples.
func (a *ElementaryAssembler) Flush() {
	for pid := range a.buffers {
		a.flushPes(pid)
	}
}

func (a *ElementaryAssembler) Reset() {
	a.buffers = make(map[uint16]*base.Buffer)
	a.streamTypes = make(map[uint16]uint8)
}
