package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"olowe.co/compulsor/pulse"
)

func newShowPulseCmd(a *app) *cobra.Command {
	var (
		opts   pulse.Options
		render bool
	)
	cmd := &cobra.Command{
		Use:   "showpulse [pulse...]",
		Short: "Display a formatted pulse report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{pulse.Latest}
			}
			var reports []string
			for _, id := range args {
				r, err := pulse.Build(cmd.Context(), a.src, id, opts)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), r.Warnings)
				reports = append(reports, r.Markdown())
			}
			text := strings.Join(reports, "\n")
			if render && isTerminal(cmd.OutOrStdout()) {
				var err error
				text, err = renderMarkdown(text)
				if err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Keys, "keys", "k", false, "Show Jira keys in the report")
	cmd.Flags().BoolVarP(&opts.Private, "private", "p", false, "Show private items in the report")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Only show items with this tag; may be repeated")
	cmd.Flags().BoolVarP(&render, "render", "r", false, "Render the Markdown when printing to a terminal")
	return cmd
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("new markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
