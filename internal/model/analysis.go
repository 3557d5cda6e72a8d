package model

import "time"

// Analysis status values.
const (
	StatusQueued   = "Queued"
	StatusInProg   = "In progress"
	StatusFinished = "Finished"
	StatusError    = "Error"
)

type Analysis struct {
	UUID           string    `json:"uuid"`
	APIVersion     string    `json:"apiVersion,omitempty"`
	MythrilVersion string    `json:"mythrilVersion,omitempty"`
	HarveyVersion  string    `json:"harveyVersion,omitempty"`
	MaruVersion    string    `json:"maruVersion,omitempty"`
	QueueTime      int64     `json:"queueTime"`
	RunTime        int64     `json:"runTime"`
	Status         string    `json:"status"`
	SubmittedAt    time.Time `json:"submittedAt"`
	SubmittedBy    string    `json:"submittedBy,omitempty"`
	ClientToolName string    `json:"clientToolName,omitempty"`
	MainSource     string    `json:"mainSource,omitempty"`
	AnalysisMode   string    `json:"analysisMode,omitempty"`
	GroupID        string    `json:"groupId,omitempty"`
	GroupName      string    `json:"groupName,omitempty"`
	Error          string    `json:"error,omitempty"`
}

type AnalysisList struct {
	Analyses []Analysis `json:"analyses"`
	Total    int        `json:"total"`
}

type AnalysisStatistics struct {
	Total    int `json:"total"`
	Queued   int `json:"queued"`
	Running  int `json:"running"`
	Failed   int `json:"failed"`
	Finished int `json:"finished"`
}

type VulnerabilityStatistics struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	None   int `json:"none"`
}

type Group struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	CreatedAt          time.Time               `json:"createdAt"`
	CreatedBy          string                  `json:"createdBy"`
	CompletedAt        *time.Time              `json:"completedAt,omitempty"`
	Progress           int                     `json:"progress"`
	Status             string                  `json:"status"`
	MainSourceFiles    []string                `json:"mainSourceFiles"`
	AnalysisStats      AnalysisStatistics      `json:"numAnalyses"`
	VulnerabilityStats VulnerabilityStatistics `json:"numVulnerabilities"`
}

type GroupList struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

type Version struct {
	API     string `json:"api"`
	Harvey  string `json:"harvey"`
	Maru    string `json:"maru"`
	Mythril string `json:"mythril"`
	Hash    string `json:"hash"`
}
