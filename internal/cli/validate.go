package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/simgraph/internal/app"
)

func newValidateCommand(v *viper.Viper, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate MODEL_PATH...",
		Short: "Load model files and report rejected edges and lint findings.",
		Long: `Loads every .hcl, .yaml and .yml file under the given paths into an empty
model, exactly as an editor would build it, and prints a report. Exits with
status 1 when any edge is rejected by the connection rules.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appConfig(v, args, "")
			if err != nil {
				return err
			}
			report, err := app.NewApp(logW, cfg).LoadModel()
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			if !report.OK() {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d edge(s) rejected", len(report.Rejected))}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r *app.Report) {
	fmt.Fprintf(w, "Loaded %d element(s), %d node(s), %d edge(s).\n", r.Elements, r.Nodes, r.Edges)
	for _, rej := range r.Rejected {
		fmt.Fprintf(w, "rejected: %s -> %s (%s): %s [%s]\n", rej.Source, rej.Target, rej.Origin, rej.Result.Message, rej.Result.Reason)
	}
	for _, f := range r.Findings {
		fmt.Fprintf(w, "warning: %s.%s: %s\n", f.NodeID, f.Field, f.Message)
	}
}
