package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file searched for from the working
// directory upwards.
const FileName = ".mythx.yml"

type IgnoreRule struct {
	SWC    string `yaml:"swc,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Reason string `yaml:"reason,omitempty"`
}

// Analyze holds defaults for the analyze command. Contracts is an older
// spelling of Include.
type Analyze struct {
	Mode            string   `yaml:"mode,omitempty"`
	Async           bool     `yaml:"async,omitempty"`
	CreateGroup     bool     `yaml:"create-group,omitempty"`
	GroupID         string   `yaml:"group-id,omitempty"`
	GroupName       string   `yaml:"group-name,omitempty"`
	MinSeverity     string   `yaml:"min-severity,omitempty"`
	Blacklist       string   `yaml:"blacklist,omitempty"`
	Whitelist       string   `yaml:"whitelist,omitempty"`
	Solc            string   `yaml:"solc,omitempty"`
	SolcPath        string   `yaml:"solc-path,omitempty"`
	Remappings      []string `yaml:"remappings,omitempty"`
	Scenario        string   `yaml:"scenario,omitempty"`
	CheckProperties bool     `yaml:"check-properties,omitempty"`
	EnableScribble  bool     `yaml:"enable-scribble,omitempty"`
	ScribblePath    string   `yaml:"scribble-path,omitempty"`
	Targets         []string `yaml:"targets,omitempty"`
	Include         []string `yaml:"include,omitempty"`
	Contracts       []string `yaml:"contracts,omitempty"`
	Baseline        string   `yaml:"baseline,omitempty"`
}

type Config struct {
	CI      bool         `yaml:"ci,omitempty"`
	Output  string       `yaml:"output,omitempty"`
	Format  string       `yaml:"format,omitempty"`
	Confirm bool         `yaml:"confirm,omitempty"`
	APIURL  string       `yaml:"api-url,omitempty"`
	Analyze Analyze      `yaml:"analyze,omitempty"`
	Ignore  []IgnoreRule `yaml:"ignore,omitempty"`
}

func Default() Config {
	return Config{
		Format: "table",
		Analyze: Analyze{
			Mode:        "quick",
			MinSeverity: "unknown",
		},
	}
}

// Load searches upwards from startDir for the config file and returns the
// parsed config together with its path. A missing file is not an error.
func Load(startDir string) (Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Default(), "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := LoadFile(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Default(), "", nil
}

// LoadFile parses a config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg at path, refusing to overwrite an existing file.
func Write(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Env is the credential and connection settings read from MYTHX_*
// variables.
type Env struct {
	APIKey   string
	Username string
	Password string
	APIURL   string
	Debug    bool
}

// LoadDotEnv loads a .env file from dir into the process environment.
// Variables already set win. A missing file is ignored.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func FromEnv() Env {
	debug, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("MYTHX_DEBUG")))
	return Env{
		APIKey:   os.Getenv("MYTHX_API_KEY"),
		Username: os.Getenv("MYTHX_USERNAME"),
		Password: os.Getenv("MYTHX_PASSWORD"),
		APIURL:   os.Getenv("MYTHX_API_URL"),
		Debug:    debug,
	}
}
