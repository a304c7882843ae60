package main

import (
	"fmt"
	"path"
	"strings"

	"9fans.net/go/acme"
)

// draftWin is an acme window holding a report for review.
// Executing Post accepts the window's contents;
// deleting the window without posting discards them.
type draftWin struct {
	*acme.Win
	text   string
	posted bool
}

func (w *draftWin) Look(text string) bool { return false }

func (w *draftWin) Execute(cmd string) bool {
	switch strings.TrimSpace(cmd) {
	case "Post":
		b, err := w.ReadAll("body")
		if err != nil {
			w.Err(err.Error())
			return true
		}
		w.text = string(b)
		w.posted = true
		w.Ctl("clean")
		w.Del(true)
		return true
	}
	return false
}

func editInAcme(forum, text string) (string, error) {
	win, err := acme.New()
	if err != nil {
		return "", fmt.Errorf("new acme window: %w", err)
	}
	win.Name("%s", path.Join("/compulsor", forum, "pulse"))
	win.Fprintf("tag", "Post ")
	if _, err := win.Write("body", []byte(text)); err != nil {
		win.Del(true)
		return "", fmt.Errorf("write body: %w", err)
	}
	win.Addr("#0")
	win.Ctl("dot=addr")
	win.Ctl("show")
	win.Ctl("clean")

	w := &draftWin{Win: win}
	w.EventLoop(w)
	if !w.posted {
		return "", nil
	}
	return w.text, nil
}
