/*
Compulsor generates pulse reports from the issue tracker
and posts them to Discourse forums.

Its usage is:

	compulsor [--config file] [--debug] command [args]

The commands are:

	showpulse [-k] [-p] [-t tag]... [-r] [pulse...]
		Print the report of each pulse, by default the latest.
	postpulse [-a] [--acme] [-y] [pulse] [discourse...]
		Edit then post the report of the pulse to each forum.
	issues [pulse]
		List the issues of a pulse and the markers found in them.

A pulse is named by its number, such as 12 for the sprint "Pulse 12",
or "latest" for the active sprint.

# Configuration

Settings and credentials are read from ~/.canonicalrc,
or the file named by $COMPULSOR_CONFIG or the --config flag.
The file must not be readable by other users.
Secrets may instead be given in the environment, or a .env file,
as JIRA_TOKEN, GITHUB_TOKEN and DISCOURSE_<NAME>_KEY.

	services:
	  jira:
	    url: https://example.atlassian.net
	    username: someone@example.com
	    token: xxx
	  discourse:
	    ubuntu:
	      url: https://discourse.ubuntu.com
	      username: someone
	      key: xxx
	tools:
	  compulsor:
	    board: 7
	    project: PULSE
	    fields: [customfield_10100]
	    discourse:
	      ubuntu:
	        topic: 1234
	        keys: false
	        private: false

Set tracker to github and repo to owner/name to read milestones
of a GitHub repository instead of Jira sprints.

# Examples

Preview the latest report with issue links and private items:

	compulsor showpulse -k -p

Post the report of pulse 12 to every configured forum, editing in acme:

	compulsor postpulse -a --acme 12
*/
package main

import (
	"context"
	"log"
	"os"
)

func main() {
	log.SetPrefix("compulsor: ")
	log.SetFlags(0)
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
