// Package dimm provides the DIMM topology lookup collaborator the
// Accountant attaches to outgoing trigger messages: given a
// (socket, channel, dimm) triple, resolve a Handle identifying the
// physical module. Parsing the topology database itself is out of
// scope for this core (spec.md §1); this package only defines the
// lookup surface and an in-memory Topology good enough to back it,
// so that a real source (SMBIOS/DMI, vendor tooling, ...) can be
// substituted by implementing the same Lookup interface.
/*
 * Copyright (c) 2020-2026, mced authors. All rights reserved.
 */
package dimm

import "fmt"

// Key identifies a DIMM slot by its electrical location.
type Key struct {
	Socket  int
	Channel int
	Dimm    int
}

func (k Key) String() string {
	return fmt.Sprintf("socket%d/channel%d/dimm%d", k.Socket, k.Channel, k.Dimm)
}

// Handle is everything the core knows about a DIMM beyond its Key:
// enough to make a trigger message human-identifiable.
type Handle struct {
	Key         Key    `json:"location"`
	Label       string `json:"label,omitempty"` // e.g. silkscreen label "DIMM_A1"
	SerialNum   string `json:"serial,omitempty"`
	PartNum     string `json:"part_num,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

func (h *Handle) String() string {
	if h == nil {
		return "<unknown dimm>"
	}
	if h.Label != "" {
		return fmt.Sprintf("%s(%s)", h.Label, h.Key)
	}
	return h.Key.String()
}

// Lookup resolves a DIMM topology location to a Handle. Implementations
// must return (nil, false) rather than a zero Handle when the location
// is not recognized, so callers can fall back to logging the bare Key.
type Lookup interface {
	Get(k Key) (*Handle, bool)
}

// Topology is a simple in-memory Lookup, populated once at setup from
// whatever topology source the surrounding system provides.
type Topology struct {
	m map[Key]*Handle
}

func NewTopology() *Topology {
	return &Topology{m: make(map[Key]*Handle)}
}

func (t *Topology) Add(h *Handle) {
	if t.m == nil {
		t.m = make(map[Key]*Handle)
	}
	t.m[h.Key] = h
}

func (t *Topology) Get(k Key) (*Handle, bool) {
	h, ok := t.m[k]
	return h, ok
}

func (t *Topology) Len() int { return len(t.m) }
