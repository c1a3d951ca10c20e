// api/schemas/issues.go
package schemas

import (
	"fmt"
	"strings"
)

// IssueKind enumerates the recoverable content-error categories.
type IssueKind string

const (
	IssueDimensionMismatch      IssueKind = "DimensionMismatch"
	IssueOverflow               IssueKind = "Overflow"
	IssueUnsupportedGradient    IssueKind = "UnsupportedGradient"
	IssueStyleOnTextElement     IssueKind = "StyleOnTextElement"
	IssueDuplicatePlaceholderID IssueKind = "DuplicatePlaceholderId"
)

// ValidationIssue is one content problem found during a conversion run.
// Issues are collected, never raised individually.
type ValidationIssue struct {
	Kind IssueKind `json:"kind"`
	// NodePath locates the offending node in the source tree
	// (e.g. "body/div[0]/p[1]"). Issues spanning several nodes, such as a
	// duplicated placeholder identifier, list every path joined by ", ".
	NodePath string `json:"node"`
	Detail   string `json:"detail"`
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s at %s: %s", v.Kind, v.NodePath, v.Detail)
}

// ConversionError is the aggregated failure of one run. It always carries
// the complete issue list found in that attempt, so an automated caller can
// fix every problem in a single edit-and-retry cycle.
type ConversionError struct {
	Issues []ValidationIssue `json:"issues"`
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "conversion failed with %d issue(s):", len(e.Issues))
	for _, is := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(is.String())
	}
	return b.String()
}
