// Package trailer implements the controlled-vocabulary commit trailer
// format: splitting a raw commit into header/body/trailers, type
// checking trailer values (C1 Trailer Parser), and applying the
// commit-format rules to emit diagnostics (C2 Validator).
package trailer

import "fmt"

// CommitType is one of the ten conventional-commit types this system
// recognizes.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeDocs     CommitType = "docs"
	TypeTest     CommitType = "test"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
)

var validTypes = map[CommitType]bool{
	TypeFeat: true, TypeFix: true, TypeRefactor: true, TypePerf: true,
	TypeDocs: true, TypeTest: true, TypeBuild: true, TypeCI: true,
	TypeChore: true, TypeRevert: true,
}

// Intent is one of the eight enumerated strategic motivations for a
// commit (see GLOSSARY).
type Intent string

const (
	IntentEnableCapability Intent = "enable-capability"
	IntentFixDefect        Intent = "fix-defect"
	IntentImproveQuality   Intent = "improve-quality"
	IntentRestructure      Intent = "restructure"
	IntentConfigureInfra   Intent = "configure-infra"
	IntentDocument         Intent = "document"
	IntentExplore          Intent = "explore"
	IntentResolveBlocker   Intent = "resolve-blocker"
)

var validIntents = map[Intent]bool{
	IntentEnableCapability: true, IntentFixDefect: true, IntentImproveQuality: true,
	IntentRestructure: true, IntentConfigureInfra: true, IntentDocument: true,
	IntentExplore: true, IntentResolveBlocker: true,
}

// AllIntents lists the controlled intent vocabulary in a fixed order,
// used by the sandbox system prompt (§6.3).
func AllIntents() []Intent {
	return []Intent{
		IntentEnableCapability, IntentFixDefect, IntentImproveQuality,
		IntentRestructure, IntentConfigureInfra, IntentDocument,
		IntentExplore, IntentResolveBlocker,
	}
}

// StructuredCommit is the parsed form of one commit (§3).
type StructuredCommit struct {
	Hash        string
	Date        string
	Type        CommitType
	HeaderScope string
	Subject     string
	Body        string

	Intent         Intent // "" means null/absent
	Scope          []string
	DecidedAgainst []string
	Session        string // "" means null
	Refs           []string
	Context        map[string]any // nil means null or absent
	Breaking       string         // "" means null
}

// Severity of a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single validator finding.
type Diagnostic struct {
	Severity Severity
	Rule     string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Rule, d.Message)
}

// ParseErrorKind names a C1 failure mode (§7).
type ParseErrorKind string

const (
	ErrMissingRequiredFields ParseErrorKind = "missing-required-fields"
	ErrNonConventionalSubject ParseErrorKind = "non-conventional-subject"
)

// ParseError is returned by ParseCommit on failure.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// knownTrailerKeys is the allow-list gating trailer-block detection
// (§4.1). Case-insensitive on the key.
var knownTrailerKeys = map[string]bool{
	"intent":          true,
	"scope":           true,
	"decided-against": true,
	"session":         true,
	"refs":            true,
	"context":         true,
	"breaking":        true,
	"signed-off-by":   true,
	"co-authored-by":  true,
}
