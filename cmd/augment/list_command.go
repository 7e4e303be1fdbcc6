package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stepan-anokhin/audio-processor/task"
)

type transformPreview struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newListCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List available transforms",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}

			registry := task.DefaultRegistry()

			var previews []transformPreview
			for _, name := range registry.Names() {
				f, _ := registry.Lookup(name)
				previews = append(previews, transformPreview{Name: name, Description: f.Brief})
			}

			if format == formatJSON {
				return writeJSON(cmd, previews)
			}

			rows := make([][]string, len(previews))
			for i, p := range previews {
				rows[i] = []string{p.Name, p.Description}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Description"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(formatTable), "Output format (table or json)")
	return cmd
}

func newParamsCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:         "params <transform>",
		Short:       "List the parameters of a transform",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}

			registry := task.DefaultRegistry()
			f, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown transform %q, must be one of: %s", args[0], strings.Join(registry.Names(), ", "))
			}

			params := f.Params
			if params == nil {
				params = []task.Param{}
			}

			if format == formatJSON {
				return writeJSON(cmd, params)
			}

			rows := make([][]string, len(params))
			for i, p := range params {
				def := ""
				if p.Default != nil {
					def = fmt.Sprint(p.Default)
				}
				rows[i] = []string{p.Name, p.Kind.String(), yesNo(p.Required), def, p.Description}
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "%s takes no parameters\n", f.Name)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Type", "Required", "Default", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(formatTable), "Output format (table or json)")
	return cmd
}
