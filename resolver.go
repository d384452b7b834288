package main

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// dropSlotNamePattern finds the card a structured I/O variable belongs to,
// e.g. "ED_DROP02_SLOT04".
var dropSlotNamePattern = regexp.MustCompile(`DROP(\d+)_SLOT(\d+)`)

const (
	valueElementName   = "VALUE"
	aliasAttributeName = "Alias"
)

// TagConflict records a channel whose tag was replaced by a later variable.
type TagConflict struct {
	Drop     int    `yaml:"drop"`
	Slot     int    `yaml:"slot"`
	Channel  int    `yaml:"channel"`
	Previous string `yaml:"previous"`
	Current  string `yaml:"current"`
	Variable string `yaml:"variable"`
}

// ParseDropSlotName extracts the drop and slot numbers embedded in a variable name.
func ParseDropSlotName(name string) (drop, slot int, ok bool) {
	m := dropSlotNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	drop, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	slot, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return drop, slot, true
}

// ParseChannelIndex parses an array member name such as "[3]" into its index.
func ParseChannelIndex(name string) (int, bool) {
	if len(name) < 2 || !strings.HasPrefix(name, "[") || !strings.HasSuffix(name, "]") {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(name[1 : len(name)-1]))
	if err != nil {
		return 0, false
	}
	return idx, true
}

// Value returns the first VALUE member below e, searching depth first.
func (e *InstanceElement) Value() (*InstanceElement, bool) {
	for i := range e.Elements {
		child := &e.Elements[i]
		if child.Name == valueElementName {
			return child, true
		}
		if v, ok := child.Value(); ok {
			return v, true
		}
	}
	return nil, false
}

// Alias returns the value of the element's own Alias attribute.
func (e *InstanceElement) Alias() (string, bool) {
	for _, a := range e.Attributes {
		if a.Name == aliasAttributeName {
			return a.Value, true
		}
	}
	return "", false
}

// walk calls fn for every element below elems in document order.
func walk(elems []InstanceElement, fn func(*InstanceElement)) {
	for i := range elems {
		fn(&elems[i])
		walk(elems[i].Elements, fn)
	}
}

// ResolveChannelTags assigns tag names to the channels of matrix from the
// per-channel Alias attributes of structured I/O variables. Variables pointing
// at hardware missing from the matrix are ignored, as are indices beyond the
// slot's rated channel count. When two variables name the same channel the
// later one wins; every replaced tag is returned as a conflict.
func ResolveChannelTags(ctx context.Context, doc *Document, matrix HardwareMatrix) []TagConflict {
	logger := loggerFrom(ctx)
	var conflicts []TagConflict
	assigned := 0

	for _, v := range doc.Variables {
		dropNum, slotNum, ok := ParseDropSlotName(v.Name)
		if !ok {
			continue
		}

		slot := matrix.Slot(dropNum, slotNum)
		if slot == nil {
			logger.Debug("Variable references hardware outside the topology.", "variable", v.Name, "drop", dropNum, "slot", slotNum)
			continue
		}

		walk(v.Elements, func(e *InstanceElement) {
			idx, ok := ParseChannelIndex(e.Name)
			if !ok {
				return
			}
			value, ok := e.Value()
			if !ok {
				return
			}
			tag, ok := value.Alias()
			if !ok || tag == "" {
				return
			}
			if idx < 0 || idx >= len(slot.Channels) {
				logger.Debug("Channel index beyond card capacity, discarded.",
					"variable", v.Name, "index", idx, "capacity", len(slot.Channels))
				return
			}

			ch := slot.Channels[idx]
			if ch.Tag != "" && ch.Tag != tag {
				conflicts = append(conflicts, TagConflict{
					Drop:     dropNum,
					Slot:     slotNum,
					Channel:  ch.Number,
					Previous: ch.Tag,
					Current:  tag,
					Variable: v.Name,
				})
				logger.Warn("Channel tag overwritten.", "drop", dropNum, "slot", slotNum,
					"channel", ch.Number, "previous", ch.Tag, "current", tag)
			}
			ch.Tag = tag
			assigned++
		})
	}

	logger.Info("Channel tags resolved.", "assigned", assigned, "conflicts", len(conflicts))
	return conflicts
}
