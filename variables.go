package main

import (
	"context"
	"strings"
)

// allowedVariableTypes is the set of data types kept in the variable catalog.
var allowedVariableTypes = map[string]bool{
	"WORD":  true,
	"BOOL":  true,
	"EBOOL": true,
	"INT":   true,
}

// ReadVariables returns the named variables of doc whose type is in the
// allow-list, in document order. A nil document yields an empty catalog.
func ReadVariables(doc *Document) []VariableRecord {
	if doc == nil {
		return []VariableRecord{}
	}

	records := make([]VariableRecord, 0, len(doc.Variables))
	for _, v := range doc.Variables {
		if v.Name == "" || !allowedVariableTypes[v.TypeName] {
			continue
		}

		comment := ""
		if v.Comment != nil {
			comment = strings.TrimSpace(*v.Comment)
		}

		records = append(records, VariableRecord{
			Name:    v.Name,
			Type:    v.TypeName,
			Address: v.TopologicalAddress,
			Comment: comment,
		})
	}
	return records
}

// ReadVariablesFile reads the variable catalog straight from a project export.
// Unlike LoadDocument it never fails: an unreadable file is logged and gives an
// empty catalog, so that comment binding degrades to no comments.
func ReadVariablesFile(ctx context.Context, path string) []VariableRecord {
	doc, err := LoadDocument(path)
	if err != nil {
		loggerFrom(ctx).Error("Could not read variables.", "path", path, "error", err)
		return []VariableRecord{}
	}
	return ReadVariables(doc)
}
