package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/jsongen/pkg/cli/internal/output"
	"github.com/getmockd/jsongen/pkg/generator"
)

var (
	modelSource     sourceFlags
	modelJSONSchema bool
	modelField      bool
)

var modelCmd = &cobra.Command{
	Use:   "model [SCHEMA]",
	Short: "Print the structural type of a schema",
	Long: `Print the structural type that documents generated from SCHEMA have.

By default the type is printed in a compact form such as
array[object{id:integer,tags?:array[string]}], where ? marks optional
properties. --json-schema prints it as a JSON Schema document instead, and
--field prints the value constraints used for validation.

Examples:
  jsongen model user.json
  jsongen model user.json --json-schema
  jsongen model --openapi api.yaml --component Pet --field`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if modelJSONSchema && modelField {
			return errors.New("--json-schema and --field are mutually exclusive")
		}
		if !modelSource.fromOpenAPI() && len(args) == 0 {
			return errors.New("no schema given")
		}

		sources, err := modelSource.load(cmd, args)
		if err != nil {
			return err
		}
		src := sources[0]

		g, err := generator.New(src.Decl, generator.WithConfig(cfg), generator.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}
		m, err := g.Model()
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}

		out := cmd.OutOrStdout()
		switch {
		case modelJSONSchema:
			return output.JSON(out, m.Type.JSONSchema())
		case modelField:
			return output.JSON(out, m.Field)
		default:
			_, err := fmt.Fprintln(out, m.Type.String())
			return err
		}
	},
}

func init() {
	modelSource.register(modelCmd)
	modelCmd.Flags().BoolVar(&modelJSONSchema, "json-schema", false, "Print the type as a JSON Schema document")
	modelCmd.Flags().BoolVar(&modelField, "field", false, "Print the validation constraints as JSON")
	rootCmd.AddCommand(modelCmd)
}
