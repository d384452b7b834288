package main

import (
	"context"
	"strings"
)

const (
	// unconfiguredTitle is the name the authoring tool gives a project nobody renamed.
	unconfiguredTitle = "Project"

	titleFallbackSuffix = "_DCOM"
	titleFallbackType   = "WORD"

	unnamedProjectTitle  = "Unnamed_Project"
	noHeaderProjectTitle = "No_Header_Project"
	invalidProjectTitle  = "Invalid_Project"

	unknownPLCModel = "Unknown model"
	genericPLCModel = "PLC"
)

// ResolveTitle determines the project title shown on the report.
//
// The contentHeader name is used as is, unless it is the authoring tool's
// default "Project". In that case the first WORD variable (in catalog order)
// named "<title>_DCOM" supplies the title; without one, "Project" is kept.
func ResolveTitle(ctx context.Context, doc *Document, records []VariableRecord) string {
	title := primaryTitle(doc)
	if title != unconfiguredTitle {
		return title
	}

	logger := loggerFrom(ctx)
	for _, r := range records {
		if r.Type == titleFallbackType && strings.HasSuffix(r.Name, titleFallbackSuffix) {
			resolved := strings.TrimSuffix(r.Name, titleFallbackSuffix)
			logger.Info("Project title taken from communication word.", "variable", r.Name, "title", resolved)
			return resolved
		}
	}

	logger.Warn("Project has the default title and no _DCOM word was found.")
	return title
}

func primaryTitle(doc *Document) string {
	switch {
	case doc == nil:
		return invalidProjectTitle
	case doc.Header == nil:
		return noHeaderProjectTitle
	case !doc.Header.Named:
		return unnamedProjectTitle
	default:
		return doc.Header.Name
	}
}

// ResolvePLCModel returns the hardware family of the project's CPU.
func ResolvePLCModel(doc *Document) string {
	if doc == nil {
		return genericPLCModel
	}
	if doc.PLC == nil || doc.PLC.Family == "" {
		return unknownPLCModel
	}
	return doc.PLC.Family
}
