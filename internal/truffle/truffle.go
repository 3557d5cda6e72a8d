// Package truffle builds analysis payloads from a compiled Truffle project.
package truffle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/model"
)

var (
	linkPlaceholder = regexp.MustCompile(`__\w{38}`)
	zeroAddress     = strings.Repeat("0", 40)
)

// Artifact is the part of a build/contracts/*.json file we read.
type Artifact struct {
	ContractName      string         `json:"contractName"`
	Bytecode          string         `json:"bytecode"`
	DeployedBytecode  string         `json:"deployedBytecode"`
	SourceMap         string         `json:"sourceMap"`
	DeployedSourceMap string         `json:"deployedSourceMap"`
	SourcePath        string         `json:"sourcePath"`
	Source            string         `json:"source"`
	AST               map[string]any `json:"ast"`
	LegacyAST         map[string]any `json:"legacyAST"`
	Compiler          struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"compiler"`
}

// ArtifactFiles lists the compiled artifact files of a project.
func ArtifactFiles(project string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(project, "build", "contracts", "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, model.Usagef("Could not find any truffle artifacts. Did you run truffle compile?")
	}
	sort.Strings(files)
	return files, nil
}

// LoadArtifacts reads and decodes every artifact of the project.
func LoadArtifacts(project string) ([]Artifact, error) {
	files, err := ArtifactFiles(project)
	if err != nil {
		return nil, err
	}
	arts := make([]Artifact, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		var a Artifact
		if err := json.Unmarshal(b, &a); err != nil {
			return nil, fmt.Errorf("decode artifact %s: %w", f, err)
		}
		arts = append(arts, a)
	}
	return arts, nil
}

// sourceIndex returns the file index from the root node's src field
// ("start:length:index").
func sourceIndex(a Artifact) (int, error) {
	node := a.AST
	if node == nil {
		node = a.LegacyAST
	}
	src, _ := node["src"].(string)
	parts := strings.Split(src, ":")
	if len(parts) < 3 {
		return 0, fmt.Errorf("artifact %s has no source location in its AST", a.ContractName)
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("artifact %s: bad source index %q", a.ContractName, parts[2])
	}
	return idx, nil
}

// SourceList orders the project's source paths by the compiler's file index.
func SourceList(arts []Artifact) ([]string, error) {
	byIndex := map[int]string{}
	for _, a := range arts {
		idx, err := sourceIndex(a)
		if err != nil {
			return nil, err
		}
		if a.SourcePath == "" {
			return nil, fmt.Errorf("artifact %s has no sourcePath", a.ContractName)
		}
		byIndex[idx] = a.SourcePath
	}
	idxs := make([]int, 0, len(byIndex))
	for i := range byIndex {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	list := make([]string, 0, len(idxs))
	for _, i := range idxs {
		list = append(list, byIndex[i])
	}
	return list, nil
}

// PatchBytecode replaces link placeholders with the zero address. A bare
// "0x" means the contract has no code and yields "".
func PatchBytecode(code string) string {
	if code == "0x" {
		return ""
	}
	return linkPlaceholder.ReplaceAllString(code, zeroAddress)
}

// JobFromArtifact builds the payload for one compiled contract. The job owns
// its copy of sourceList.
func JobFromArtifact(a Artifact, sourceList []string) model.Job {
	return model.Job{
		ContractName:      a.ContractName,
		Bytecode:          PatchBytecode(a.Bytecode),
		DeployedBytecode:  PatchBytecode(a.DeployedBytecode),
		SourceMap:         a.SourceMap,
		DeployedSourceMap: a.DeployedSourceMap,
		MainSource:        a.SourcePath,
		Sources: map[string]model.SourceEntry{
			a.SourcePath: {Source: a.Source, AST: a.AST, LegacyAST: a.LegacyAST},
		},
		SourceList:  append([]string(nil), sourceList...),
		SolcVersion: a.Compiler.Version,
	}
}

// Jobs returns one payload per artifact of the project.
func Jobs(project string, logger *zap.Logger) ([]model.Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	arts, err := LoadArtifacts(project)
	if err != nil {
		return nil, err
	}
	logger.Debug("found truffle artifacts", zap.String("project", project), zap.Int("count", len(arts)))
	list, err := SourceList(arts)
	if err != nil {
		return nil, err
	}
	jobs := make([]model.Job, 0, len(arts))
	for _, a := range arts {
		jobs = append(jobs, JobFromArtifact(a, list))
	}
	return jobs, nil
}
