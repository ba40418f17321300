package conformance

import (
	"fmt"
	"io"
	"time"
)

type ScenarioResult struct {
	Name     string
	Failures []string
	// Err is set when the scenario could not complete its calls.
	Err      error
	Duration time.Duration
}

func (r ScenarioResult) Passed() bool {
	return r.Err == nil && len(r.Failures) == 0
}

type Report struct {
	Results []ScenarioResult
}

// Failed reports whether any scenario failed. An empty report has not failed.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return true
		}
	}
	return false
}

func (r Report) Write(w io.Writer) error {
	passed := 0
	for _, res := range r.Results {
		status := "PASS"
		if !res.Passed() {
			status = "FAIL"
		} else {
			passed++
		}
		if _, err := fmt.Fprintf(w, "%s  %-22s %s\n", status, res.Name, res.Duration.Round(time.Millisecond)); err != nil {
			return err
		}
		if res.Err != nil {
			if _, err := fmt.Fprintf(w, "      error: %v\n", res.Err); err != nil {
				return err
			}
		}
		for _, f := range res.Failures {
			if _, err := fmt.Fprintf(w, "      - %s\n", f); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d/%d scenarios passed\n", passed, len(r.Results))
	return err
}
