package main

import (
	"fmt"
	"sort"
	"strings"
)

// HardwareMatrix represents the root structure of a resolved remote I/O layout.
// It maps a drop number to the Drop found at that topology position. The matrix is
// built by the topology parser and then mutated in place by the tag resolver and the
// comment binder, in that order.
type HardwareMatrix map[int]*Drop

// Drop is one physical I/O rack identified by its topology number.
type Drop struct {
	// Number is the drop number extracted from the module topology address
	Number int `yaml:"drop"`

	// Slots maps a slot number to the module card installed in that bay.
	// Slot numbers are unique within a drop; a later declaration at the same
	// position replaces the earlier one.
	Slots map[int]*Slot `yaml:"slots"`
}

// Slot is one module position within a Drop.
type Slot struct {
	// Number is the slot number extracted from the module topology address
	Number int `yaml:"slot"`

	// Model is the hardware part number of the card (e.g. "140DDI35300")
	Model string `yaml:"model"`

	// Channels holds one entry per physical I/O point. Its length is fixed at
	// creation from the module catalog and is zero for unrecognized models.
	Channels []*Channel `yaml:"channels"`
}

// Channel is one physical I/O point on a card.
type Channel struct {
	// Number is the 1-based position of the channel within its slot
	Number int `yaml:"channel"`

	// Tag is the symbolic variable name the PLC program binds to this channel
	Tag string `yaml:"tag,omitempty"`

	// Comment is the descriptive text declared for Tag
	Comment string `yaml:"comment,omitempty"`
}

// VariableRecord is one declared program variable as read from the project export.
type VariableRecord struct {
	// Name is the variable name. Used as the lookup key by the comment binder.
	Name string `yaml:"name"`

	// Type is the declared data type (one of the allowed scalar types)
	Type string `yaml:"type"`

	// Address is the topological address, empty when the variable is not located
	Address string `yaml:"address,omitempty"`

	// Comment is the trimmed declaration comment, empty when missing
	Comment string `yaml:"comment,omitempty"`
}

// newSlot creates a slot with its channel sequence sized by the catalog.
func newSlot(number int, model string, catalog ModuleCatalog) *Slot {
	count := catalog.Channels(model)
	channels := make([]*Channel, count)
	for i := range channels {
		channels[i] = &Channel{Number: i + 1}
	}
	return &Slot{Number: number, Model: model, Channels: channels}
}

// Slot returns the slot at the given position, or nil if either the drop or
// the slot is absent.
func (m HardwareMatrix) Slot(drop, slot int) *Slot {
	d, ok := m[drop]
	if !ok {
		return nil
	}
	return d.Slots[slot]
}

// SortedDrops returns the drops in ascending drop number order.
func (m HardwareMatrix) SortedDrops() []*Drop {
	drops := make([]*Drop, 0, len(m))
	for _, d := range m {
		drops = append(drops, d)
	}
	sort.Slice(drops, func(i, j int) bool { return drops[i].Number < drops[j].Number })
	return drops
}

// SortedSlots returns the slots of the drop in ascending slot number order.
func (d *Drop) SortedSlots() []*Slot {
	slots := make([]*Slot, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Number < slots[j].Number })
	return slots
}

// ChannelCount returns the total number of channels and how many of them carry a tag.
func (m HardwareMatrix) ChannelCount() (total, tagged int) {
	for _, d := range m {
		for _, s := range d.Slots {
			total += len(s.Channels)
			for _, ch := range s.Channels {
				if ch.Tag != "" {
					tagged++
				}
			}
		}
	}
	return total, tagged
}

// String methods for pretty printing

func (m HardwareMatrix) String() string {
	var sb strings.Builder
	total, tagged := m.ChannelCount()
	sb.WriteString("Hardware Matrix:\n")
	sb.WriteString(fmt.Sprintf("  Drops: %d\n", len(m)))
	sb.WriteString(fmt.Sprintf("  Channels: %d (%d tagged)\n", total, tagged))
	return sb.String()
}

func (d *Drop) String() string {
	return fmt.Sprintf("Drop %02d (Slots: %d)", d.Number, len(d.Slots))
}

func (s *Slot) String() string {
	model := s.Model
	if model == "" {
		model = "unknown"
	}
	return fmt.Sprintf("Slot %02d (Model: %s, Channels: %d)", s.Number, model, len(s.Channels))
}
