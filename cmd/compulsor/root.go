package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"olowe.co/compulsor/config"
	"olowe.co/compulsor/jira"
	"olowe.co/compulsor/pulse"
)

// app holds what every command needs once flags are parsed.
type app struct {
	conf  *config.Config
	src   pulse.Source
	debug bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var confPath string
	root := &cobra.Command{
		Use:   "compulsor",
		Short: "Generate and publish pulse reports",
		Long: `Compulsor gathers PULSEDESC markers from the issues of a pulse sprint,
formats them as a Markdown report and posts it to Discourse forums.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.init(cmd.Context(), confPath)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debugging")
	root.PersistentFlags().StringVar(&confPath, "config", "", "Config file location (default "+config.DefaultPath+")")

	root.AddCommand(newShowPulseCmd(a))
	root.AddCommand(newPostPulseCmd(a))
	root.AddCommand(newIssuesCmd(a))
	return root
}

func (a *app) init(ctx context.Context, confPath string) error {
	name, err := config.Path(confPath)
	if err != nil {
		return err
	}
	a.conf, err = config.Load(name)
	if err != nil {
		return err
	}
	tool := a.conf.Tools.Compulsor
	switch tool.Tracker {
	case config.TrackerGitHub:
		if a.debug {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: &debugTransport{os.Stderr, http.DefaultTransport}})
		}
		a.src, err = pulse.NewGitHubSource(ctx, a.conf.Services.GitHub.Token, tool.Repo)
		return err
	default:
		u, err := url.Parse(a.conf.Services.Jira.URL)
		if err != nil {
			return fmt.Errorf("parse jira url: %w", err)
		}
		a.src = &pulse.JiraSource{
			Client: &jira.Client{
				BaseURL:  u,
				Username: a.conf.Services.Jira.Username,
				Password: a.conf.Services.Jira.Token,
				Debug:    a.debug,
			},
			Board:   tool.Board,
			Project: tool.Project,
			Fields:  tool.Fields,
		}
		return nil
	}
}

// resolve returns the pulse id, resolving pulse.Latest to the active sprint.
func (a *app) resolve(ctx context.Context, id string) (string, error) {
	if id != pulse.Latest {
		return id, nil
	}
	return pulse.LatestID(ctx, a.src)
}

// debugTransport prints each request before sending it,
// like the debug output of the Jira and Discourse clients.
type debugTransport struct {
	w  io.Writer
	rt http.RoundTripper
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fmt.Fprintln(t.w, req.Method, req.URL)
	return t.rt.RoundTrip(req)
}
