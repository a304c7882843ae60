package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"olowe.co/compulsor/config"
	"olowe.co/compulsor/discourse"
	"olowe.co/compulsor/pulse"
)

// defaultForum is posted to when no forum is named.
const defaultForum = "ubuntu"

// Replaced in tests.
var (
	editDraft   = edit
	confirmPost = confirm
)

type postFlags struct {
	all  bool
	acme bool
	yes  bool
}

func newPostPulseCmd(a *app) *cobra.Command {
	var flags postFlags
	cmd := &cobra.Command{
		Use:   "postpulse [pulse] [discourse...]",
		Short: "Post pulse reports to discourse",
		Long: `Postpulse opens the report of the pulse, by default the latest, in an editor
for each named forum, by default ubuntu. Once the editor exits the report
is posted to the forum's pulse topic. Reports which no longer start with
"## Pulse", such as empty ones, are not posted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := pulse.Latest
			if len(args) > 0 {
				id = args[0]
				args = args[1:]
			}
			names := args
			if flags.all {
				names = a.conf.ForumNames()
			}
			if len(names) == 0 {
				names = []string{defaultForum}
			}
			return a.postPulse(cmd, id, names, flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Post pulse report to all configured discourses")
	cmd.Flags().BoolVar(&flags.acme, "acme", false, "Edit reports in acme windows instead of $EDITOR")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Post without asking for confirmation")
	return cmd
}

func (a *app) postPulse(cmd *cobra.Command, id string, names []string, flags postFlags) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	// the active sprint could end between posts.
	id, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}
	for _, name := range names {
		forum, err := a.conf.Forum(name)
		if err != nil {
			return err
		}
		client, err := a.forumClient(forum)
		if err != nil {
			return err
		}
		r, err := pulse.Build(ctx, a.src, id, pulse.Options{
			Keys:    forum.Keys,
			Private: forum.Private,
			Tags:    forum.Tags,
		})
		if err != nil {
			return err
		}
		printWarnings(stderr, r.Warnings)

		text, err := editDraft(ctx, name, r.Draft(), flags.acme)
		if err != nil {
			return fmt.Errorf("edit %s report: %w", name, err)
		}
		text = pulse.Strip(text)
		if !strings.HasPrefix(text, "## Pulse") {
			printError(stderr, "Error: Text is invalid, skipping %s discourse", name)
			continue
		}

		if !flags.yes && isTerminal(os.Stdin) && isTerminal(stdout) {
			title := fmt.Sprintf("Post %s to %s topic %d?", r.Sprint.Name, name, forum.Topic)
			if t, err := client.Topic(ctx, forum.Topic); err == nil {
				title = fmt.Sprintf("Post %s to %q on %s?", r.Sprint.Name, t.Title, name)
			}
			ok, err := confirmPost(title)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(stderr, mutedStyle.Render("skipped "+name))
				continue
			}
		}

		p, err := client.CreatePost(ctx, forum.Topic, text)
		if err != nil {
			return fmt.Errorf("post to %s discourse: %w", name, err)
		}
		fmt.Fprintln(stdout, client.URL(p))
	}
	return nil
}

func (a *app) forumClient(forum *config.Forum) (*discourse.Client, error) {
	u, err := url.Parse(forum.URL)
	if err != nil {
		return nil, fmt.Errorf("parse %s discourse url: %w", forum.Name, err)
	}
	return &discourse.Client{
		BaseURL:  u,
		Username: forum.Username,
		Key:      forum.Key,
		Debug:    a.debug,
	}, nil
}

func confirm(title string) (bool, error) {
	ok := true
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Post").
		Negative("Skip").
		Value(&ok).
		Run()
	return ok, err
}
