package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/jsongen/pkg/cli/internal/output"
	"github.com/getmockd/jsongen/pkg/generator"
	"github.com/getmockd/jsongen/pkg/loader"
)

// ErrInvalidDocument is returned when validate finds errors.
var ErrInvalidDocument = errors.New("document is invalid")

var (
	validateSource sourceFlags
	validateJSON   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [SCHEMA] DOCUMENT",
	Short: "Check a document against a schema's model",
	Long: `Check that DOCUMENT, a JSON or YAML file, has the shape and satisfies the
constraints of SCHEMA's model. Each problem is printed with its path.

Examples:
  jsongen generate user.json -o user.out.json
  jsongen validate user.json user.out.json

  jsongen validate --openapi api.yaml --component Pet pet.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var schemaArgs []string
		docPath := args[len(args)-1]
		switch {
		case validateSource.fromOpenAPI() && len(args) != 1:
			return errors.New("with --openapi, give only the document")
		case !validateSource.fromOpenAPI() && len(args) != 2:
			return errors.New("want a schema and a document")
		case len(args) == 2:
			schemaArgs = args[:1]
		}

		sources, err := validateSource.load(cmd, schemaArgs)
		if err != nil {
			return err
		}
		src := sources[0]

		g, err := generator.New(src.Decl, generator.WithConfig(cfg), generator.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}

		doc, err := loader.LoadValue(docPath)
		if err != nil {
			return err
		}

		result, err := g.Validate(doc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if validateJSON {
			if err := output.JSON(out, result); err != nil {
				return err
			}
		} else if result.Valid {
			fmt.Fprintf(out, "%s: valid\n", docPath)
		} else {
			for _, e := range result.Errors {
				fmt.Fprintf(out, "%s: %s\n", docPath, e.Error())
			}
		}

		if !result.Valid {
			return fmt.Errorf("%w: %d error(s)", ErrInvalidDocument, len(result.Errors))
		}
		return nil
	},
}

func init() {
	validateSource.register(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(validateCmd)
}
