package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/kangaroo/pkg/kangaroo"
)

func registerParams(rootCmd *cobra.Command) {
	var secretSize int
	var minAlpha, maxAlpha float64
	var alphas int
	var tames []int

	var cmd = &cobra.Command{
		Use:   "params",
		Short: "Suggest walk lengths",
		Long:  "Print w = alpha·sqrt(2^secret-size / tames) for a grid of alphas and tame counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprint(tw, "alpha")
			for _, t := range tames {
				fmt.Fprintf(tw, "\tT=%d", t)
			}
			fmt.Fprintln(tw)
			for _, alpha := range kangaroo.Linspace(minAlpha, maxAlpha, alphas) {
				fmt.Fprintf(tw, "%.3f", alpha)
				for _, t := range tames {
					fmt.Fprintf(tw, "\t%d", kangaroo.SuggestW(alpha, secretSize, t))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&secretSize, "bits", 48, "Secret size in bits")
	cmd.Flags().Float64Var(&minAlpha, "min-alpha", 0.1, "Smallest alpha")
	cmd.Flags().Float64Var(&maxAlpha, "max-alpha", 1.5, "Largest alpha")
	cmd.Flags().IntVar(&alphas, "alphas", 12, "Number of alphas")
	cmd.Flags().IntSliceVar(&tames, "tames", []int{16384, 32768, 49152, 65536}, "Tame walk counts")
	rootCmd.AddCommand(cmd)
}
