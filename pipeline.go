package main

import (
	"context"
	"fmt"
	"io"
)

// Result is the resolved remote I/O layout of one project export.
type Result struct {
	// Title is the project title shown on every report page
	Title string

	// PLCModel is the hardware family of the project's CPU
	PLCModel string

	// Matrix holds every drop, slot and channel with tags and comments bound
	Matrix HardwareMatrix

	// Variables is the filtered variable catalog, in document order
	Variables []VariableRecord

	// Skipped lists module declarations left out of the matrix
	Skipped []SkippedModule

	// Conflicts lists channels whose tag was replaced by a later variable
	Conflicts []TagConflict

	// CommentsBound counts channels that received a comment
	CommentsBound int
}

// BuildResult runs the resolution pipeline over a parsed document:
// topology, then channel tags, then comments, then the title.
func BuildResult(ctx context.Context, doc *Document, catalog ModuleCatalog, opts MatrixOptions) (*Result, error) {
	matrix, skipped, err := BuildMatrix(ctx, doc, catalog, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build hardware matrix: %w", err)
	}

	records := ReadVariables(doc)
	conflicts := ResolveChannelTags(ctx, doc, matrix)
	bound := BindComments(ctx, matrix, records)

	return &Result{
		Title:         ResolveTitle(ctx, doc, records),
		PLCModel:      ResolvePLCModel(doc),
		Matrix:        matrix,
		Variables:     records,
		Skipped:       skipped,
		Conflicts:     conflicts,
		CommentsBound: bound,
	}, nil
}

// Generate reads the project export named by cfg, resolves it and writes the
// report. When cfg.Dump is set the resolved matrix is also written to dumpW as
// YAML. It returns the path of the written report.
func Generate(ctx context.Context, cfg *Config, dumpW io.Writer) (string, error) {
	logger := loggerFrom(ctx)

	catalog, loaded, err := LoadCatalogDir(DefaultModuleCatalog(), cfg.CatalogDir)
	if err != nil {
		return "", fmt.Errorf("failed to load module catalogs: %w", err)
	}
	logger.Info("Module catalog ready.", "models", catalog.Len(), "files", loaded)

	doc, err := LoadDocument(cfg.InputPath)
	if err != nil {
		return "", err
	}
	logger.Debug("Project document parsed.", "modules", len(doc.Modules), "variables", len(doc.Variables))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := BuildResult(ctx, doc, catalog, MatrixOptions{StrictSlots: cfg.StrictSlots})
	if err != nil {
		return "", err
	}
	total, tagged := res.Matrix.ChannelCount()
	logger.Info("Hardware matrix resolved.", "title", res.Title, "plc", res.PLCModel,
		"drops", len(res.Matrix), "channels", total, "tagged", tagged, "skipped", len(res.Skipped))

	if cfg.Dump {
		if err := DumpYAML(dumpW, res); err != nil {
			return "", fmt.Errorf("failed to dump matrix: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := WriteReport(res, ReportOptions{
		Organization: cfg.Organization,
		Date:         cfg.Date,
		OutputDir:    cfg.OutputDir,
	})
	if err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Report written.", "path", path)

	return path, nil
}
