// Package hclplan loads activity plans from HCL files and seeds a scheduling
// engine with them. Every value read from a plan file enters the engine
// through its public edit API, so file input passes exactly the same
// validation as an interactive cell edit.
package hclplan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vmelnyk/planweave/internal/ctxlog"
	"github.com/vmelnyk/planweave/internal/engine"
)

// fileRoot decodes the top-level blocks of a plan file.
type fileRoot struct {
	Activities []*activityBlock `hcl:"activity,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

// activityBlock is one `activity "Name" { ... }` block. Its attributes are
// decoded separately so literal expressions can be evaluated as cty values.
type activityBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Loader reads HCL plan files.
type Loader struct{}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and seeds the engine with
// the activities found. Predecessor references in plan files may use either
// activity names or raw ids; names are translated once all activities exist,
// unknown references pass through and surface as dangling-reference warnings.
//
// It returns the recoverable warnings collected along the way. Structural
// failures (a plan whose dependencies form a cycle) abort the load.
func (l *Loader) Load(ctx context.Context, eng *engine.Engine, paths ...string) ([]engine.Warning, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL plan loader started.", "path_count", len(paths))

	files, err := l.findPlanFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered plan files.", "count", len(files))

	parser := hclparse.NewParser()
	var blocks []*activityBlock

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse plan file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode plan file %s: %w", file, diags)
		}
		blocks = append(blocks, root.Activities...)
	}

	warnings, err := l.seed(ctx, eng, blocks)
	if err != nil {
		return nil, err
	}

	logger.Debug("HCL plan loading complete.", "activities", len(blocks))
	return warnings, nil
}

// findPlanFiles walks all given paths and returns a flat, de-duplicated list
// of .hcl files. A configured path that does not exist is skipped, not an
// error.
func (l *Loader) findPlanFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
