package model

// SourceEntry is one source file of an analysis request. AST values stay
// generic maps so that path fields can be rewritten before submission.
type SourceEntry struct {
	Source    string         `json:"source,omitempty"`
	AST       map[string]any `json:"ast,omitempty"`
	LegacyAST map[string]any `json:"legacyAST,omitempty"`
}

// Job is the payload of a single analysis submission.
type Job struct {
	ContractName      string                 `json:"contractName,omitempty"`
	Bytecode          string                 `json:"bytecode,omitempty"`
	DeployedBytecode  string                 `json:"deployedBytecode,omitempty"`
	SourceMap         string                 `json:"sourceMap,omitempty"`
	DeployedSourceMap string                 `json:"deployedSourceMap,omitempty"`
	MainSource        string                 `json:"mainSource,omitempty"`
	Sources           map[string]SourceEntry `json:"sources,omitempty"`
	SourceList        []string               `json:"sourceList,omitempty"`
	SolcVersion       string                 `json:"solcVersion,omitempty"`
	AnalysisMode      string                 `json:"analysisMode,omitempty"`
}

// BytecodeOnly reports whether the job carries nothing but creation bytecode.
func (j Job) BytecodeOnly() bool {
	return j.Bytecode != "" && j.ContractName == "" && j.DeployedBytecode == "" &&
		j.SourceMap == "" && j.DeployedSourceMap == "" && j.MainSource == "" &&
		len(j.Sources) == 0 && len(j.SourceList) == 0 && j.SolcVersion == ""
}
