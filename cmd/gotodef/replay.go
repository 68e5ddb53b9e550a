package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/gotodef/internal/replay"
)

func replayCmd(global *globalOptions) *cobra.Command {
	var (
		textFile string
		asJSON   bool
		resolver string
	)

	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Run a scripted underline session",
		Long: `Run a YAML script of insert, delete, set, clear, query and lua steps
against one view and print the notifications, dirty regions and tag
results each step produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			script, err := replay.ParseFile(args[0])
			if err != nil {
				return err
			}
			if textFile != "" {
				data, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read text: %w", err)
				}
				script.Text = string(data)
			}

			opts := []replay.Option{replay.WithLogger(env.logger)}
			if resolver != "" {
				ext, err := env.catalog.Find(resolver)
				if err != nil {
					return err
				}
				opts = append(opts, replay.WithResolver(ext.MainPath()))
			}

			report, runErr := replay.NewRunner(env.provider, opts...).Run(cmd.Context(), script)
			if report != nil {
				if err := writeReport(cmd, report, asJSON); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&textFile, "file", "f", "", "Initial buffer text, replacing the script's text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&resolver, "resolver", "", "Extension whose entry script is loaded before the first step")

	return cmd
}

func writeReport(cmd *cobra.Command, report *replay.Report, asJSON bool) error {
	out := cmd.OutOrStdout()
	if !asJSON {
		return report.WriteText(out)
	}

	data, err := report.JSON(true)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
