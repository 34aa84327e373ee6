package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/pipelift/pipelift/internal/compiler"
	"github.com/pipelift/pipelift/internal/trigger"
)

// LoadDefinitions reads trigger and workflow definitions from a directory.
//
// CUE files (.cue) may declare any number of triggers and workflows; YAML
// files (.yaml, .yml) hold one trigger definition each, the file name serving
// as the trigger name when the definition does not set one. Files load in
// name order so registration order is reproducible.
func LoadDefinitions(dir string) (*compiler.Definitions, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("definitions directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	ctx := cuecontext.New()
	defs := &compiler.Definitions{}
	found := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".cue":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			v := ctx.CompileBytes(data, cue.Filename(path))
			compiled, err := compiler.Compile(v)
			if err != nil {
				return nil, fmt.Errorf("compile %s: %w", path, err)
			}
			defs.Triggers = append(defs.Triggers, compiled.Triggers...)
			defs.Workflows = append(defs.Workflows, compiled.Workflows...)
			found++

		case ".yaml", ".yml":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			var def trigger.Definition
			if err := def.FromYAML(data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			if def.Name == "" {
				def.Name = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			}
			defs.Triggers = append(defs.Triggers, def)
			found++
		}
	}

	if found == 0 {
		return nil, fmt.Errorf("no definition files in %s", dir)
	}
	return defs, nil
}
