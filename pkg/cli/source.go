package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/jsongen/pkg/loader"
)

// schemaSource is a loaded declaration and where it came from.
type schemaSource struct {
	Name string
	Decl map[string]any
}

// sourceFlags select schemas from an OpenAPI document instead of files.
type sourceFlags struct {
	openAPI   string
	component string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.openAPI, "openapi", "", "Read the schema from this OpenAPI 3 document")
	cmd.Flags().StringVar(&f.component, "component", "", "Name of the schema under components.schemas (with --openapi)")
}

func (f *sourceFlags) fromOpenAPI() bool {
	return f.openAPI != ""
}

// load returns the OpenAPI component, or the declarations named by patterns.
// "-" reads a JSON declaration from stdin.
func (f *sourceFlags) load(cmd *cobra.Command, patterns []string) ([]schemaSource, error) {
	if f.component != "" && f.openAPI == "" {
		return nil, errors.New("--component requires --openapi")
	}
	if f.fromOpenAPI() {
		if f.component == "" {
			return nil, errors.New("--openapi requires --component")
		}
		decl, err := loader.LoadOpenAPIComponent(f.openAPI, f.component)
		if err != nil {
			return nil, err
		}
		return []schemaSource{{Name: f.openAPI + "#" + f.component, Decl: decl}}, nil
	}

	if len(patterns) == 0 {
		return nil, errors.New("no schema given")
	}

	var sources []schemaSource
	var files []string
	for _, p := range patterns {
		if p != "-" {
			files = append(files, p)
			continue
		}
		decl, err := loader.Load(cmd.InOrStdin(), loader.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		sources = append(sources, schemaSource{Name: "-", Decl: decl})
	}

	paths, err := loader.Glob(files...)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		decl, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, schemaSource{Name: path, Decl: decl})
	}
	return sources, nil
}
