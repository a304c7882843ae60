package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// edit returns text after the user has edited it,
// in an acme window if useAcme is set, otherwise in $VISUAL or $EDITOR.
func edit(ctx context.Context, forum, text string, useAcme bool) (string, error) {
	if useAcme {
		return editInAcme(forum, text)
	}
	return editInEditor(ctx, forum, text)
}

func editor() string {
	for _, v := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(v); e != "" {
			return e
		}
	}
	return "vi"
}

func editInEditor(ctx context.Context, forum, text string) (string, error) {
	f, err := os.CreateTemp("", "pulse-"+forum+"-*.md")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// the editor may be given with arguments, such as "code --wait".
	args := strings.Fields(editor())
	if len(args) == 0 {
		return "", errors.New("no editor")
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], f.Name())...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", args[0], err)
	}
	b, err := os.ReadFile(f.Name())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
