package main

import (
	"io"

	"gopkg.in/yaml.v3"
)

type dumpDocument struct {
	Title     string          `yaml:"title"`
	PLCModel  string          `yaml:"plcModel"`
	Drops     []dumpDrop      `yaml:"drops"`
	Skipped   []SkippedModule `yaml:"skipped,omitempty"`
	Conflicts []TagConflict   `yaml:"conflicts,omitempty"`
}

type dumpDrop struct {
	Drop  int     `yaml:"drop"`
	Slots []*Slot `yaml:"slots"`
}

// DumpYAML writes the resolved result to w as YAML, drops and slots in ascending order.
func DumpYAML(w io.Writer, res *Result) error {
	out := dumpDocument{
		Title:     res.Title,
		PLCModel:  res.PLCModel,
		Drops:     []dumpDrop{},
		Skipped:   res.Skipped,
		Conflicts: res.Conflicts,
	}
	for _, d := range res.Matrix.SortedDrops() {
		out.Drops = append(out.Drops, dumpDrop{Drop: d.Number, Slots: d.SortedSlots()})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}
