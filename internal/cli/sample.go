package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vk/simgraph/internal/distribution"
)

func newSampleCommand() *cobra.Command {
	var (
		raw     string
		n       int
		seed    uint64
		stream  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw values from a distribution descriptor.",
		Example: `  simgraph sample --dist '{"kind":"uniforme","params":{"min":2,"max":4}}' -n 5
  simgraph sample --dist '{"kind":"exponencial","params":{"lambda":0.5}}' --stream g1 --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := distribution.Parse([]byte(raw))
			if err != nil {
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid --dist: %v", err)}
			}
			if err := distribution.Validate(d); err != nil {
				return &ExitError{Code: 2, Message: fmt.Sprintf("invalid --dist: %v", err)}
			}

			var src distribution.Source = distribution.NewRand(seed)
			if stream != "" {
				src = distribution.NewStream(stream)
			}

			out := cmd.OutOrStdout()
			values := distribution.SampleN(d, src, n)
			for _, x := range values {
				fmt.Fprintf(out, "%g\n", x)
			}
			if summary {
				var sum float64
				for _, x := range values {
					sum += x
				}
				mean := 0.0
				if len(values) > 0 {
					mean = sum / float64(len(values))
				}
				fmt.Fprintf(out, "%s: n=%d mean=%g expected=%g\n", distribution.String(d), len(values), mean, distribution.Mean(d))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&raw, "dist", "", `Distribution as JSON, e.g. {"kind":"fijo","params":{"value":1}}.`)
	cmd.Flags().IntVarP(&n, "count", "n", 10, "Number of values to draw.")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed of the reproducible generator.")
	cmd.Flags().StringVar(&stream, "stream", "", "Draw from the named random stream instead of the seeded generator.")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print the sample mean next to the analytical mean.")
	if err := cmd.MarkFlagRequired("dist"); err != nil {
		panic(err)
	}
	return cmd
}
