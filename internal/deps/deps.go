package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary clipper shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional binaries are reported but never block a batch.
	Optional bool
}

// Status is the availability of one Requirement. Path holds the resolved
// executable when Available is true.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// LookPath resolves a command name; tests replace it.
var LookPath = exec.LookPath

// CheckBinaries resolves every requirement on PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		if status.Optional {
			status.Detail += " (optional)"
		}
		return status
	}
	status.Path = path
	status.Available = true
	return status
}
