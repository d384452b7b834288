package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrMalformedAddress is recorded for module declarations whose topology
	// address does not encode a drop and a slot.
	ErrMalformedAddress = errors.New("malformed topology address")

	// ErrDuplicateSlot is returned in strict mode when two modules claim the same drop and slot.
	ErrDuplicateSlot = errors.New("duplicate module at drop/slot")
)

// moduleAddressPattern matches the remote I/O part of a module address,
// e.g. `\2.3\1.7` is drop 3, slot 7.
var moduleAddressPattern = regexp.MustCompile(`\\2\.(\d+)\\1\.(\d+)`)

// MatrixOptions controls how the topology parser handles questionable input.
type MatrixOptions struct {
	// StrictSlots rejects a second module declared at an already populated drop/slot
	// instead of overwriting it.
	StrictSlots bool
}

// SkippedModule records a module declaration that did not make it into the matrix.
type SkippedModule struct {
	Index   int    `yaml:"index"`
	Model   string `yaml:"model,omitempty"`
	Address string `yaml:"address,omitempty"`
	Reason  string `yaml:"reason"`
}

// ParseModuleAddress extracts the drop and slot numbers from a module topology address.
func ParseModuleAddress(address string) (drop, slot int, err error) {
	m := moduleAddressPattern.FindStringSubmatch(address)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedAddress, address)
	}
	if drop, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedAddress, address, err)
	}
	if slot, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedAddress, address, err)
	}
	return drop, slot, nil
}

// BuildMatrix reconstructs the Drop/Slot/Channel skeleton from the module
// declarations of doc. Declarations without a usable address are skipped and
// returned; they never abort the build. Channels are sized from catalog.
func BuildMatrix(ctx context.Context, doc *Document, catalog ModuleCatalog, opts MatrixOptions) (HardwareMatrix, []SkippedModule, error) {
	logger := loggerFrom(ctx)
	matrix := make(HardwareMatrix)
	var skipped []SkippedModule

	for i, decl := range doc.Modules {
		model := decl.Model()
		if decl.PartItem == nil {
			logger.Warn("Module declaration has no part item, skipping.", "index", i)
			skipped = append(skipped, SkippedModule{Index: i, Reason: "missing partItem"})
			continue
		}

		address, ok := decl.Address()
		if !ok {
			logger.Warn("Module declaration has no topology address, skipping.", "index", i, "model", model)
			skipped = append(skipped, SkippedModule{Index: i, Model: model, Reason: "missing topoAddress"})
			continue
		}

		dropNum, slotNum, err := ParseModuleAddress(address)
		if err != nil {
			logger.Warn("Module address not recognized, skipping.", "index", i, "model", model, "address", address)
			skipped = append(skipped, SkippedModule{Index: i, Model: model, Address: address, Reason: err.Error()})
			continue
		}

		drop, exists := matrix[dropNum]
		if !exists {
			drop = &Drop{Number: dropNum, Slots: make(map[int]*Slot)}
			matrix[dropNum] = drop
		}

		if prev, taken := drop.Slots[slotNum]; taken {
			if opts.StrictSlots {
				return nil, skipped, fmt.Errorf("%w: drop %d slot %d declared as %s and %s",
					ErrDuplicateSlot, dropNum, slotNum, prev.Model, model)
			}
			logger.Warn("Module replaces an earlier declaration.",
				"drop", dropNum, "slot", slotNum, "previous", prev.Model, "model", model)
		}

		if !catalog.Known(model) {
			logger.Debug("Model not in catalog, slot has no channels.", "model", model)
		}

		drop.Slots[slotNum] = newSlot(slotNum, model, catalog)
		logger.Debug("Mapped module.", "drop", dropNum, "slot", slotNum, "model", model)
	}

	return matrix, skipped, nil
}
