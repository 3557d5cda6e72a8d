package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/xab-mack/mythx-cli/internal/model"
)

func emptyCode(s string) bool { return s == "" || s == "0x" }

// IsValidJob reports whether a job carries enough compiled artifacts to be
// analyzed. Interfaces and abstract contracts compile to empty bytecode.
func IsValidJob(job model.Job) bool {
	if job.BytecodeOnly() {
		return !emptyCode(job.Bytecode)
	}
	return job.ContractName != "" &&
		!emptyCode(job.Bytecode) &&
		!emptyCode(job.DeployedBytecode) &&
		!emptyCode(job.SourceMap) &&
		!emptyCode(job.DeployedSourceMap)
}

// ValidJobs drops invalid jobs, noting every skipped contract on w.
func ValidJobs(jobs []model.Job, w io.Writer) []model.Job {
	var out []model.Job
	for _, j := range jobs {
		if IsValidJob(j) {
			out = append(out, j)
			continue
		}
		if w != nil {
			fmt.Fprintf(w, "Skipping submission for contract %s because no bytecode was produced.\n", j.ContractName)
		}
	}
	return out
}

// FilterIncluded keeps the jobs of the named contracts. Every name must
// match at least one job.
func FilterIncluded(jobs []model.Job, include []string) ([]model.Job, error) {
	if len(include) == 0 {
		return jobs, nil
	}
	found := map[string]bool{}
	for _, j := range jobs {
		found[j.ContractName] = true
	}
	var missing []string
	for _, name := range include {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, model.Usagef("The following contracts could not be found: %s", strings.Join(missing, ", "))
	}
	want := map[string]bool{}
	for _, name := range include {
		want[name] = true
	}
	var out []model.Job
	for _, j := range jobs {
		if want[j.ContractName] {
			out = append(out, j)
		}
	}
	return out, nil
}
