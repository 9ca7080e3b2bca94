package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/simgraph/internal/app"
)

func newServeCommand(v *viper.Viper, logW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model to editor clients over socket.io.",
		Long: `Starts an HTTP server exposing the socket.io editing endpoint at
/socket.io/, a JSON snapshot at /api/model, lint findings at /api/lint,
Prometheus metrics at /metrics and a health check at /health. Model files
given with --model are loaded first; rejected edges are reported and
skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := appConfig(v, v.GetStringSlice("model"), v.GetString("addr"))
			if err != nil {
				return err
			}
			a := app.NewApp(logW, cfg)
			if len(cfg.ModelPaths) > 0 {
				report, err := a.LoadModel()
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
			}
			return a.Serve(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address of the HTTP server.")
	cmd.Flags().StringSlice("model", nil, "Model file or directory to load before serving. Repeatable.")
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}
