package pipeline

import (
	"time"
)

// Pipeline names as recorded in the journal
const (
	NameBuild = "build"
	NameServe = "serve"
)

// Status of one executed step
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusWarning Status = "warning"
)

// Step is the record of one executed step
type Step struct {
	Name     string
	Status   Status
	Detail   string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Result collects the steps a pipeline run executed. Err is the error that
// halted the run, nil when every required step succeeded.
type Result struct {
	Pipeline string
	Started  time.Time
	Steps    []Step
	Err      error
}

// Failed reports whether the run halted on an error
func (r *Result) Failed() bool {
	return r.Err != nil
}

// StepNames lists the executed steps in order
func (r *Result) StepNames() []string {
	names := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		names = append(names, s.Name)
	}
	return names
}

// Step returns the record for name, if that step ran
func (r *Result) Step(name string) (Step, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}
