package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xab-mack/mythx-cli/internal/model"
)

// Scenario is the kind of input a target is analyzed as.
type Scenario string

const (
	ScenarioNone         Scenario = ""
	ScenarioTruffle      Scenario = "truffle"
	ScenarioSolidityFile Scenario = "solidity-file"
	ScenarioSolidityDir  Scenario = "solidity-dir"
)

// ForcedScenario maps the --scenario flag value. "solidity" forces both the
// file and directory flavors.
func ForcedScenario(s string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ScenarioNone, nil
	case "truffle":
		return ScenarioTruffle, nil
	case "solidity":
		return ScenarioSolidityFile, nil
	}
	return ScenarioNone, model.Usagef("Unknown scenario %q: expected truffle or solidity", s)
}

// Target is one classified analysis input.
type Target struct {
	Scenario Scenario
	Path     string
	// Contract is the optional ":Name" suffix of a Solidity file target.
	Contract string
}

var truffleConfigs = []string{"truffle-config.js", "truffle.js"}

func isTruffleDir(dir string) bool {
	for _, name := range truffleConfigs {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func hasSolidityFiles(dir string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.sol"))
	return len(matches) > 0
}

// SplitTarget separates "path:Contract". A colon inside the path part (as in
// Windows drive letters) is left alone when the remainder contains a path
// separator.
func SplitTarget(arg string) (path, contract string) {
	i := strings.LastIndex(arg, ":")
	if i < 0 {
		return arg, ""
	}
	rest := arg[i+1:]
	if rest == "" || strings.ContainsAny(rest, `/\`) {
		return arg, ""
	}
	return arg[:i], rest
}

// DetermineTargets classifies the command line targets. Without targets the
// working directory is inspected.
func DetermineTargets(args []string, forced Scenario, cwd string) ([]Target, error) {
	if len(args) == 0 {
		switch {
		case forced == ScenarioTruffle || (forced == ScenarioNone && isTruffleDir(cwd)):
			return []Target{{Scenario: ScenarioTruffle, Path: cwd}}, nil
		case forced == ScenarioSolidityFile || forced == ScenarioSolidityDir || hasSolidityFiles(cwd):
			return []Target{{Scenario: ScenarioSolidityDir, Path: cwd}}, nil
		}
		return nil, model.Usagef("No argument given and unable to detect Truffle project or Solidity files")
	}

	targets := make([]Target, 0, len(args))
	for _, arg := range args {
		path, contract := SplitTarget(arg)
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir() && (strings.HasSuffix(path, ".sol") || forced == ScenarioSolidityFile):
			targets = append(targets, Target{Scenario: ScenarioSolidityFile, Path: path, Contract: contract})
		case err == nil && info.IsDir():
			if forced == ScenarioTruffle || (forced == ScenarioNone && isTruffleDir(path)) {
				targets = append(targets, Target{Scenario: ScenarioTruffle, Path: path})
			} else {
				targets = append(targets, Target{Scenario: ScenarioSolidityDir, Path: path})
			}
		default:
			return nil, model.Usagef("Could not interpret argument %s as bytecode, Solidity file, or Truffle project", arg)
		}
	}
	return targets, nil
}
