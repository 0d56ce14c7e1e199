package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/matt-g-everett/ledtween/easing"
	"github.com/spf13/cobra"
)

func newCurvesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curves",
		Short: "Print sampled ease curves",
		Long:  `Samples one or all built-in ease curves across [0, 1], clamped, and prints a table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("ease")
			samples, _ := cmd.Flags().GetInt("samples")
			if samples < 2 {
				return fmt.Errorf("samples must be at least 2, got %d", samples)
			}

			types := easing.Types()
			if !strings.EqualFold(name, "all") {
				t, err := easing.ParseType(name)
				if err != nil {
					return err
				}
				types = []easing.Type{t}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, t := range types {
				fmt.Fprintf(w, "%s\n", t)
				frames := easing.Bake(func(x float64) float64 { return easing.Evaluate(t, x, true) }, samples)
				for _, k := range frames {
					fmt.Fprintf(w, "  %.3f\t%.4f\n", k.Time, k.Value)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringP("ease", "e", "all", "Ease type name, or all")
	cmd.Flags().IntP("samples", "n", 11, "Samples per curve")
	return cmd
}
