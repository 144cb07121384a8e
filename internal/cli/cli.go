package cli

import (
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0"
	commit  = ""
	date    = ""
)

type rootOptions struct {
	configPath string
	logFile    string
	debug      bool
	style      string
}

func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	present := &presentOptions{}

	cmd := &cobra.Command{
		Use:           "slides FILE...",
		Short:         "Present Markdown slides in the terminal",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: false,
		SilenceUsage:  true,
		Version:       buildVersion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresent(cmd, opts, present, args)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Override config file path (default: OS user config dir)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log layout and key handling details")
	cmd.PersistentFlags().StringVar(&opts.style, "style", "", "Chroma style for code blocks (overrides config)")

	cmd.Flags().BoolVar(&present.watch, "watch", false, "Reload the slides when a file changes")
	cmd.Flags().BoolVar(&present.resume, "resume", false, "Start at the slide shown when this deck was last closed")
	cmd.Flags().IntVar(&present.start, "start", 1, "Slide number to start at")

	cmd.AddCommand(newRenderCmd(opts))

	return cmd
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}
