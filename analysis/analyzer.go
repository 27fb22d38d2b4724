// Package analysis implements the scoring aggregator: three independent
// analysis passes fan out over a code artifact and their results are
// joined into one weighted score, an issue list and a persisted report.
//
// The three built-in analyzers are deterministic, line-oriented stand-ins
// behind the Analyzer interface; real tooling can be substituted without
// touching aggregation logic.
package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
)

// Analysis stage names, used to tag issues by origin.
const (
	StageStatic     = "static"
	StageSemantic   = "semantic"
	StageSimulation = "simulation"
)

// ErrAnalysisFailed marks a transient run-level analysis failure. A single
// failed stage fails the whole run; the weighted formula would
// misrepresent risk if a stage silently defaulted to zero.
var ErrAnalysisFailed = errors.New("analysis failed")

// Artifact is the code payload under analysis.
type Artifact struct {
	SourceRef string
	Content   []byte

	lines []string
}

// NewArtifact builds an artifact and splits its content into lines once.
func NewArtifact(sourceRef string, content []byte) *Artifact {
	return &Artifact{
		SourceRef: sourceRef,
		Content:   content,
		lines:     strings.Split(string(content), "\n"),
	}
}

// Lines returns the artifact content split by newline.
func (a *Artifact) Lines() []string {
	return a.lines
}

// StageResult is the outcome of one analysis pass: a score in [0,100] and
// the issues found, tagged with the stage of origin.
type StageResult struct {
	Stage  string
	Score  int
	Issues []*issue.Issue
}

// Analyzer is one pluggable analysis strategy.
type Analyzer interface {
	// Stage returns the stage name this analyzer contributes to.
	Stage() string

	// Analyze runs the pass over the artifact. The score must stay in
	// [0,100]; issues carry file, line and snippet but no ids.
	Analyze(ctx context.Context, artifact *Artifact) (StageResult, error)
}

// DefaultAnalyzers returns the three built-in passes in stage order.
func DefaultAnalyzers() []Analyzer {
	return []Analyzer{
		NewStaticAnalyzer(),
		NewSemanticAnalyzer(),
		NewSimulationAnalyzer(),
	}
}

// clampScore keeps a derived score inside [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// snippetOf trims a source line for inclusion in an issue.
func snippetOf(line string) string {
	s := strings.TrimSpace(line)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
