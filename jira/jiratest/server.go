// Package jiratest provides a fake Jira server for testing API clients.
package jiratest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// NewServer returns a fake Jira server which serves issues, comments and
// sprints from the filesystem tree rooted at root:
//
//	root/issue/KEY.json
//	root/comment/ID.json
//	root/sprint/ID.json
//
// The server provides a limited read-only subset of the Jira HTTP API.
// All search requests return every issue, even if the JQL query is invalid.
// Every sprint belongs to every board.
// Lists are returned one entry per page so clients must paginate.
func NewServer(root string) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/rest/api/2/search", handleSearch(path.Join(root, "issue"))).Methods(http.MethodGet)
	r.HandleFunc("/rest/api/2/issue/{key}", serveFile(path.Join(root, "issue"), "key")).Methods(http.MethodGet)
	r.HandleFunc("/rest/api/2/issue/{key}/comment/{id}", serveFile(path.Join(root, "comment"), "id")).Methods(http.MethodGet)
	r.HandleFunc("/rest/agile/1.0/board/{board:[0-9]+}/sprint", handleSprints(path.Join(root, "sprint"))).Methods(http.MethodGet)
	return httptest.NewServer(r)
}

func readDir(dir string) ([]json.RawMessage, error) {
	names, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var msgs []json.RawMessage
	for _, name := range names {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, b)
	}
	return msgs, nil
}

// page returns the entry at startAt, if any.
func page(msgs []json.RawMessage, req *http.Request) (entries []json.RawMessage, start int) {
	start, _ = strconv.Atoi(req.URL.Query().Get("startAt"))
	if start < 0 || start >= len(msgs) {
		return []json.RawMessage{}, start
	}
	return msgs[start : start+1], start
}

func handleSearch(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		msgs, err := readDir(dir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		entries, start := page(msgs, req)
		writeJSON(w, map[string]any{
			"startAt":    start,
			"maxResults": 1,
			"total":      len(msgs),
			"issues":     entries,
		})
	}
}

func handleSprints(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		msgs, err := readDir(dir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if states := req.URL.Query().Get("state"); states != "" {
			msgs = filterState(msgs, strings.Split(states, ","))
		}
		entries, start := page(msgs, req)
		writeJSON(w, map[string]any{
			"startAt":    start,
			"maxResults": 1,
			"isLast":     start+1 >= len(msgs),
			"values":     entries,
		})
	}
}

func filterState(msgs []json.RawMessage, states []string) []json.RawMessage {
	var keep []json.RawMessage
	for _, m := range msgs {
		var s struct{ State string }
		if err := json.Unmarshal(m, &s); err != nil {
			continue
		}
		for _, state := range states {
			if s.State == state {
				keep = append(keep, m)
				break
			}
		}
	}
	return keep
}

func serveFile(dir, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		name := path.Join(dir, mux.Vars(req)[param]+".json")
		b, err := os.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{
				"errorMessages": []string{"Issue does not exist or you do not have permission to see it."},
				"errors":        map[string]string{},
			})
			return
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
