package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"olowe.co/compulsor/pulse"
)

func newIssuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issues [pulse]",
		Short: "List the issues of a pulse and their markers",
		Long: `Issues prints each issue planned in the pulse followed by every marker
found in it, whether or not the marker belongs to the pulse.
Markers are printed with where they were found and their options.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := pulse.Latest
			if len(args) == 1 {
				id = args[0]
			}
			id, err := a.resolve(cmd.Context(), id)
			if err != nil {
				return err
			}
			sprint, err := a.src.Sprint(cmd.Context(), pulse.SprintName(id))
			if err != nil {
				return err
			}
			issues, err := a.src.Issues(cmd.Context(), sprint)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 1, ' ', 0)
			for _, is := range issues {
				fmt.Fprintf(tw, "%s\t%s\n", is.Key, is.Summary)
				printMarkers(tw, "description", is.Description)
				for _, f := range is.Fields {
					printMarkers(tw, f.Name, f.Text)
				}
				for _, c := range is.Comments {
					printMarkers(tw, "comment "+c.Created.Format("2006-01-02"), c.Body)
				}
			}
			return tw.Flush()
		},
	}
}

func printMarkers(w *tabwriter.Writer, where, text string) {
	for _, mk := range pulse.ParseMarkers(text) {
		opts := mk.Tags
		if mk.Pulse != "" {
			opts = append([]string{mk.Pulse}, opts...)
		}
		if mk.Private && len(mk.Typos) == 0 {
			opts = append(opts, pulse.Confidential)
		}
		for _, typo := range mk.Typos {
			opts = append(opts, typo+"?")
		}
		fmt.Fprintf(w, "\t%s\t[%s]\t%s\n", where, strings.Join(opts, ","), mk.Text)
	}
}
