package client

import "github.com/xab-mack/mythx-cli/internal/model"

// Submission is the body of an analysis submission.
type Submission struct {
	ClientToolName   string    `json:"clientToolName,omitempty"`
	NoCacheLookup    bool      `json:"noCacheLookup,omitempty"`
	GroupID          string    `json:"groupId,omitempty"`
	GroupName        string    `json:"groupName,omitempty"`
	PropertyChecking bool      `json:"propertyChecking,omitempty"`
	Data             model.Job `json:"data"`
}

// Middleware mutates a submission before it is sent.
type Middleware func(s *Submission)

// ToolName tags submissions with the client tool name.
func ToolName(name string) Middleware {
	return func(s *Submission) { s.ClientToolName = name }
}

// GroupData attaches submissions to an analysis group.
func GroupData(id, name string) Middleware {
	return func(s *Submission) {
		if id != "" {
			s.GroupID = id
		}
		if name != "" {
			s.GroupName = name
		}
	}
}

// PropertyChecking enables assertion checking mode for scribble annotated
// sources.
func PropertyChecking(enabled bool) Middleware {
	return func(s *Submission) { s.PropertyChecking = enabled }
}

// NoCacheLookup makes the service analyze again instead of answering from
// its result cache.
func NoCacheLookup(enabled bool) Middleware {
	return func(s *Submission) { s.NoCacheLookup = enabled }
}
