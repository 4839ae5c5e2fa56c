package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars lets every flag of cmd be set from CFDIRECT_<FLAG>, with dashes
// turned into underscores (--dry-run reads CFDIRECT_DRY_RUN). Must be called
// before the arguments are parsed, so that arguments still win. The variable
// name is appended to each flag's usage.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(setFromEnv)
	cmd.PersistentFlags().VisitAll(setFromEnv)
}

func setFromEnv(f *pflag.Flag) {
	name := envName(f.Name)

	hint := " ($" + name + ")"
	if !strings.HasSuffix(f.Usage, hint) {
		f.Usage += hint
	}

	val, ok := os.LookupEnv(name)
	if !ok || f.Changed {
		return
	}

	// A bad value leaves the default in place.
	err := f.Value.Set(val)
	if err != nil {
		slog.Warn("ignoring environment variable",
			slog.String("env", name),
			slog.String("value", val),
			slog.Any("error", err),
		)
	}
}

func envName(flag string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flag, "-", "_"))
}
