package check

import "fmt"

// Issue is a single quality finding tied to a source file and line.
type Issue struct {
	File     string
	Line     int
	Rule     string
	Severity Severity
	Detail   string
}

// Severity grades a finding. Errors always fail a run; warnings fail only
// when the run is configured to treat them as errors.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	// RuleSnippetSyntax flags fenced code blocks that fail to parse.
	RuleSnippetSyntax = "snippet-syntax"
	// RuleLinkTarget flags internal links whose route does not exist.
	RuleLinkTarget = "link-target"
	// RuleLinkAnchor flags fragment links whose anchor does not exist on the
	// target page.
	RuleLinkAnchor = "link-anchor"
)

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d: [%s] %s", i.File, i.Line, i.Rule, i.Detail)
	}
	return fmt.Sprintf("%s: [%s] %s", i.File, i.Rule, i.Detail)
}

// Report aggregates the outcome of a full check run.
type Report struct {
	PagesChecked    int
	SnippetsChecked int
	SnippetsSkipped int
	LinksChecked    int
	LinksSkipped    int
	Issues          []Issue
}

// OK reports whether the run finished without findings.
func (r *Report) OK() bool {
	return r == nil || len(r.Issues) == 0
}

// Warnings counts warning-severity findings.
func (r *Report) Warnings() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// Failed reports whether the run should fail. An issue with no severity
// counts as an error.
func (r *Report) Failed(failOnWarning bool) bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if failOnWarning || issue.Severity != SeverityWarning {
			return true
		}
	}
	return false
}

func (r *Report) add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}
