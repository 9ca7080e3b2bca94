package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/simgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const envPrefix = "SIMGRAPH"

// Execute runs the command line against args, writing user-facing output to
// outW. Usage errors are returned as an *ExitError with code 2.
func Execute(ctx context.Context, args []string, outW io.Writer) error {
	root := NewRootCommand(outW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the simgraph command tree. Each call gets its own
// viper instance, so commands can be built repeatedly in tests.
func NewRootCommand(outW io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "simgraph",
		Short: "SimGraph - an authoring engine for discrete-event simulation models.",
		Long: `SimGraph keeps a simulation model consistent while it is edited: nodes,
the edges between them, the element types they process and the io lists the
simulator reads. Models can be loaded from .hcl, .yaml and .yml files,
checked from the command line or served to editor clients.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfigFile(v)
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML, JSON or TOML settings file.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.Bool("strict", true, "Require both ends of an edge to name the same element.")
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("cli: binding flags: %v", err))
	}

	root.AddCommand(newValidateCommand(v, outW), newServeCommand(v, outW), newSampleCommand())
	return root
}

func readConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("failed to read config file: %v", err)}
	}
	return nil
}

// appConfig resolves the settings shared by every command that builds an
// App. Flags win over environment variables, which win over the file.
func appConfig(v *viper.Viper, paths []string, addr string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ModelPaths:         paths,
		LogFormat:          strings.ToLower(v.GetString("log-format")),
		LogLevel:           strings.ToLower(v.GetString("log-level")),
		Addr:               addr,
		StrictElementMatch: v.GetBool("strict"),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
