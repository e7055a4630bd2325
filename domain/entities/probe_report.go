package entities

import "time"

// ProbeReport is the outcome of probing a page type against a live session
type ProbeReport struct {
	Page       string        `json:"page" yaml:"page"`
	URL        string        `json:"url" yaml:"url"`
	Loaded     bool          `json:"loaded" yaml:"loaded"`
	ReadyState bool          `json:"ready_state" yaml:"ready_state"`
	Fields     []FieldReport `json:"fields" yaml:"fields"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Missing returns the names of top-level fields that were not present.
func (r *ProbeReport) Missing() []string {
	var names []string
	for _, f := range r.Fields {
		if !f.Present {
			names = append(names, f.Name)
		}
	}
	return names
}
