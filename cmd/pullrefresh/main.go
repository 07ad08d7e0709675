package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/pullrefresh/internal/config"
	"github.com/ensigniasec/pullrefresh/internal/storage"
	"github.com/ensigniasec/pullrefresh/internal/trace"
	"github.com/ensigniasec/pullrefresh/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	historyFile = "~/.pullrefresh/history.json"
	configFile  string
	verbose     bool
	jsonOutput  bool

	rootCmd = &cobra.Command{
		Use:   "pullrefresh",
		Short: "A pull-to-refresh interaction engine with a terminal demo and a trace replayer.",
		Long:  `pullrefresh drives the pull-to-refresh gesture of a scroll view: it tracks how far content is pulled past its edge, starts a refresh at the threshold, keeps the indicator exposed while the refresh runs and scrolls back to rest afterwards. Try it in the terminal with "demo" or replay scripted gestures with "replay".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return config.LoadDotEnv(".env")
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Optional: YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history-file", historyFile, "Where refresh cycles are recorded")

	replayCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the transcript as JSON")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)

	configCmd.AddCommand(configShowCmd)
	historyCmd.AddCommand(historyResetCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

func loadSettings() config.Settings {
	s, err := config.Load(configFile)
	if err != nil {
		logrus.Fatalf("Unable to load config: %v", err)
	}
	return s
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var demoCmd = &cobra.Command{
	Use:   "demo [DIR]",
	Short: "Pull to refresh a directory listing in the terminal",
	Long:  "Open a scrollable listing of DIR (default: the demo root from config, else the current directory). Drag down with the mouse or hold p, release to refresh.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings := loadSettings()
		if len(args) == 1 {
			settings.Demo.Root = args[0]
		}
		if settings.Demo.Root == "" {
			settings.Demo.Root = "."
		}

		st, err := storage.NewOrExistingStorage(historyFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create history: %v", err)
		}
		if err := tui.Run(cmd.Context(), settings, st); err != nil {
			logrus.Fatalf("Demo failed: %v", err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var replayCmd = &cobra.Command{
	Use:   "replay TRACE",
	Short: "Replay a scripted gesture trace and print what the engine did",
	Long:  "Replay a YAML trace of host events (layout, grant, scroll, release, momentum_end, complete, advance) on a virtual clock. The trace carries its own config section; --config is not applied.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tr, err := trace.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("Unable to read trace: %v", err)
		}
		out, err := trace.Replay(tr, logrus.StandardLogger())
		if err != nil {
			logrus.Fatalf("Replay failed: %v", err)
		}
		if jsonOutput {
			err = out.WriteJSON(os.Stdout)
		} else {
			err = out.WriteText(os.Stdout)
		}
		if err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long:  "Print defaults overlaid with --config, .env and PULLREFRESH_* variables.",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := config.MarshalYAML(loadSettings())
		if err != nil {
			logrus.Fatal(err)
		}
		_, _ = os.Stdout.Write(data)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded refresh cycles",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := storage.NewStorage(historyFile)
		if err != nil {
			logrus.Fatal(err)
		}
		cycles := st.Cycles()
		if len(cycles) == 0 {
			fmt.Fprintln(os.Stdout, "No refresh history")
			return
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tDURATION\tITEMS\tORIENTATION\tERROR")
		for _, c := range cycles {
			duration := "open"
			if !c.EndedAt.IsZero() {
				duration = c.Duration().Round(time.Millisecond).String()
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				c.StartedAt.Local().Format(time.DateTime), duration, c.Items, c.Orientation, c.Error)
		}
		if err := tw.Flush(); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var historyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the refresh history",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := storage.NewOrExistingStorage(historyFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if err := st.Reset(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "Refresh history cleared")
	},
}
