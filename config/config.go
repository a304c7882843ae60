// Package config loads compulsor's configuration,
// a YAML file holding service credentials and tool settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used if none is given,
// relative to the user's home directory.
const DefaultPath = "~/.canonicalrc"

// ErrInsecure is returned when the configuration file
// may be read by users other than its owner.
var ErrInsecure = errors.New("credentials file is not chmod 600")

const (
	TrackerJira   = "jira"
	TrackerGitHub = "github"
)

type Config struct {
	Services Services `yaml:"services"`
	Tools    struct {
		Compulsor Tool `yaml:"compulsor"`
	} `yaml:"tools"`
}

type Services struct {
	Jira      Jira                 `yaml:"jira"`
	GitHub    GitHub               `yaml:"github"`
	Discourse map[string]Discourse `yaml:"discourse"`
}

type Jira struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

type GitHub struct {
	Token string `yaml:"token"`
}

type Discourse struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Key      string `yaml:"key"`
}

// Tool holds the settings of compulsor itself.
type Tool struct {
	Tracker string   `yaml:"tracker"`
	Board   int      `yaml:"board"`
	Project string   `yaml:"project"`
	Repo    string   `yaml:"repo"`
	Fields  []string `yaml:"fields"`
	// Discourse holds the pulse topic settings of each forum,
	// keyed by the same names as the discourse services.
	Discourse map[string]Posting `yaml:"discourse"`
}

// Posting describes where and how pulse reports are posted on a forum.
type Posting struct {
	Topic   int      `yaml:"topic"`
	Keys    bool     `yaml:"keys"`
	Private bool     `yaml:"private"`
	Tags    []string `yaml:"tags"`
}

// Forum is a discourse service paired with its pulse topic.
type Forum struct {
	Name string
	Discourse
	Posting
}

// Path returns the configuration file to read:
// name if set, otherwise $COMPULSOR_CONFIG or DefaultPath.
// A leading ~ is expanded to the user's home directory.
func Path(name string) (string, error) {
	if name == "" {
		name = os.Getenv("COMPULSOR_CONFIG")
	}
	if name == "" {
		name = DefaultPath
	}
	if rest, ok := strings.CutPrefix(name, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("find home directory: %w", err)
		}
		name = filepath.Join(home, rest)
	}
	return name, nil
}

// Load reads the configuration file at name.
// The file must not be readable by group or others, unless it is a named pipe.
// Variables from a .env file in the current directory, if any,
// are loaded before secrets are overridden from the environment.
func Load(name string) (*Config, error) {
	if err := checkPerm(name); err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	conf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not load config file %s: %w", name, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	conf.applyEnv()
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", name, err)
	}
	return conf, nil
}

func checkPerm(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	if info.Mode()&0o044 != 0 && info.Mode()&os.ModeNamedPipe == 0 {
		return fmt.Errorf("%s: %w", name, ErrInsecure)
	}
	return nil
}

// Parse decodes a configuration from r.
// The file is shared with other tools, so only unknown keys
// under tools.compulsor are an error, as is an empty document.
// Environment overrides are not applied.
func Parse(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, errors.New("empty configuration")
	}
	var conf Config
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return nil, err
	}
	var doc struct {
		Tools map[string]yaml.Node `yaml:"tools"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if n, ok := doc.Tools["compulsor"]; ok {
		if err := decodeStrict(&n, &conf.Tools.Compulsor); err != nil {
			return nil, fmt.Errorf("tools.compulsor: %w", err)
		}
	}
	if conf.Tools.Compulsor.Tracker == "" {
		conf.Tools.Compulsor.Tracker = TrackerJira
	}
	return &conf, nil
}

func decodeStrict(n *yaml.Node, v any) error {
	b, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides secrets with JIRA_TOKEN, GITHUB_TOKEN
// and DISCOURSE_<NAME>_KEY from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("JIRA_TOKEN"); v != "" {
		c.Services.Jira.Token = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.Services.GitHub.Token = v
	}
	for name, d := range c.Services.Discourse {
		if v := os.Getenv(discourseKeyEnv(name)); v != "" {
			d.Key = v
			c.Services.Discourse[name] = d
		}
	}
}

func discourseKeyEnv(name string) string {
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
	return "DISCOURSE_" + name + "_KEY"
}

func (c *Config) validate() error {
	tool := c.Tools.Compulsor
	switch tool.Tracker {
	case TrackerJira:
		if c.Services.Jira.URL == "" {
			return errors.New("services.jira.url: missing")
		}
		if _, err := url.Parse(c.Services.Jira.URL); err != nil {
			return fmt.Errorf("services.jira.url: %w", err)
		}
		if tool.Board == 0 {
			return errors.New("tools.compulsor.board: missing")
		}
		if tool.Project == "" {
			return errors.New("tools.compulsor.project: missing")
		}
	case TrackerGitHub:
		if tool.Repo == "" {
			return errors.New("tools.compulsor.repo: missing")
		}
	default:
		return fmt.Errorf("tools.compulsor.tracker: unknown tracker %q", tool.Tracker)
	}
	return nil
}

// ForumNames returns the names of the forums with a pulse topic, sorted.
func (c *Config) ForumNames() []string {
	var names []string
	for name := range c.Tools.Compulsor.Discourse {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forum returns the named forum's service and topic settings.
func (c *Config) Forum(name string) (*Forum, error) {
	posting, ok := c.Tools.Compulsor.Discourse[name]
	if !ok {
		return nil, fmt.Errorf("no pulse topic configured for discourse %q", name)
	}
	svc, ok := c.Services.Discourse[name]
	if !ok {
		return nil, fmt.Errorf("no discourse service %q configured", name)
	}
	if svc.URL == "" {
		return nil, fmt.Errorf("services.discourse.%s.url: missing", name)
	}
	return &Forum{Name: name, Discourse: svc, Posting: posting}, nil
}
