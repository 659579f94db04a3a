package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the model catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			cfg, err := a.config()
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Models)
			case "table", "":
				w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tPROVIDER\tNAME\tCONTEXT")
				for _, m := range cfg.Models {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", m.ID, m.Provider, m.DisplayName(), m.ContextWindow)
				}
				return w.Flush()
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "table", "output format (table, json)")
	return cmd
}
