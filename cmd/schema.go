package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/penpipe/core"
	"github.com/gaurav-prasanna/penpipe/core/pen"
)

var flagTool string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a tool's output",
	Example: `  penpipe schema
  penpipe schema --tool get_pen_embed_html`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := OutputSchema(flagTool)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&flagTool, "tool", "get_pen", "Tool name: get_pen, get_pen_metadata or get_pen_embed_html")
	rootCmd.AddCommand(schemaCmd)
}

// schemaOptions maps the pass-through oEmbed dimensions, which CodePen sends
// as either strings or numbers.
func schemaOptions() *jsonschema.ForOptions {
	return &jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[json.RawMessage](): {Types: []string{"string", "number"}},
		},
	}
}

// OutputSchema returns the JSON Schema inferred for the output of tool.
func OutputSchema(tool string) (*jsonschema.Schema, error) {
	switch tool {
	case "get_pen":
		return jsonschema.For[core.Pen](schemaOptions())
	case "get_pen_metadata":
		return jsonschema.For[pen.Metadata](schemaOptions())
	case "get_pen_embed_html":
		return jsonschema.For[pen.Embed](schemaOptions())
	default:
		return nil, fmt.Errorf("unknown tool %q (want get_pen, get_pen_metadata or get_pen_embed_html)", tool)
	}
}
