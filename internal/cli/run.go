package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cfdirect/cfdirect/api/v1beta1/configs"
	"github.com/cfdirect/cfdirect/pkg/config"
	"github.com/cfdirect/cfdirect/pkg/runner"
)

const (
	cmdExamples = `  # Patch every client configuration found in the default location:
  cfdirect

  # Patch specific files:
  cfdirect ~/v2ray/config.json ./other.json

  # Search recursively (quote the pattern so the shell leaves it alone):
  cfdirect '~/Library/Group Containers/**/Configs/*.json'

  # Show what would change without writing anything:
  cfdirect --dry-run

  # Write the default configuration to edit it:
  cfdirect --write-config`
)

type RunArgs struct {
	*RootArgs

	Patterns    []string
	ConfigPath  string
	DryRun      bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the cfdirect configuration file")
	cmd.Flags().BoolVarP(&ra.DryRun, "dry-run", "n", false, "Print the changes as a diff instead of writing them")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [pattern...]",
		Short:             "Default command, can be used explicitly if a pattern is ambiguous",
		Example:           cmdExamples,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.Patterns = args

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runCompletion(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveDefault
}

func run(cmd *cobra.Command, rc *RunArgs) error {
	configPath := rc.ConfigPath
	if configPath == "" {
		configPath = configs.GetPath()
	}

	if rc.WriteConfig {
		// Exit early after writing the default config.
		return configs.WriteDefault(configPath) //nolint:wrapcheck // Already wrapped.
	}

	cfg, err := config.Load(configPath, config.WithColor(isTerminal(cmd.ErrOrStderr())))
	if err != nil {
		return err //nolint:wrapcheck // Already names the file.
	}

	if rc.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		yamlBytes, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		return printYAML(cmd.OutOrStdout(), yamlBytes)
	}

	r := runner.New(cfg.Search.Locator(), cfg.Routing.Patcher(),
		runner.WithOutput(cmd.OutOrStdout()),
		runner.WithDryRun(rc.DryRun),
	)

	_, err = r.Run(cmd.Context(), rc.Patterns)
	if err != nil {
		return err //nolint:wrapcheck // Reported as is.
	}

	return nil
}

// printYAML writes b to w, highlighted when w is a terminal.
func printYAML(w io.Writer, b []byte) error {
	if isTerminal(w) {
		err := quick.Highlight(w, string(b), "yaml", "terminal256", "monokai")
		if err == nil {
			return nil
		}

		slog.Debug("could not highlight config", slog.Any("error", err))
	}

	_, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in an int.
}
