package analysis

import (
	"context"
	"strings"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
)

// staticRule is one line-oriented vulnerability pattern.
type staticRule struct {
	pattern     string
	issueType   string
	severity    issue.Severity
	description string
}

// staticRules is the built-in pattern table. Matching is plain substring
// search per line; duplicate hits on the same line are kept by design.
var staticRules = []staticRule{
	{"tx.origin", "tx-origin-auth", issue.SeverityHigh,
		"authorization based on tx.origin can be bypassed by an intermediary contract"},
	{"delegatecall", "unsafe-delegatecall", issue.SeverityHigh,
		"delegatecall executes foreign code in the caller's storage context"},
	{"selfdestruct", "selfdestruct", issue.SeverityHigh,
		"selfdestruct can brick the contract and force-send funds"},
	{".call{value", "unchecked-call-value", issue.SeverityHigh,
		"low-level value transfer; reentrancy risk if state is written after the call"},
	{"block.timestamp", "timestamp-dependence", issue.SeverityMedium,
		"block.timestamp can be skewed by the block producer"},
	{"blockhash(", "weak-randomness", issue.SeverityMedium,
		"blockhash is a predictable entropy source"},
	{"assembly", "inline-assembly", issue.SeverityMedium,
		"inline assembly bypasses compiler safety checks"},
	{"pragma solidity ^", "floating-pragma", issue.SeverityLow,
		"floating pragma allows compilation with untested compiler versions"},
	{"block.number", "block-number-timing", issue.SeverityLow,
		"block.number used for timing assumptions"},
}

// severity deductions for the static score
const (
	staticHighPenalty   = 15
	staticMediumPenalty = 8
	staticLowPenalty    = 3
)

// StaticAnalyzer runs the pattern table over every line of the artifact.
type StaticAnalyzer struct{}

var _ Analyzer = (*StaticAnalyzer)(nil)

func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{}
}

func (a *StaticAnalyzer) Stage() string {
	return StageStatic
}

func (a *StaticAnalyzer) Analyze(ctx context.Context, artifact *Artifact) (StageResult, error) {
	result := StageResult{Stage: StageStatic, Score: 100}

	for i, line := range artifact.Lines() {
		if err := ctx.Err(); err != nil {
			return StageResult{}, err
		}

		for _, rule := range staticRules {
			if !strings.Contains(line, rule.pattern) {
				continue
			}

			result.Issues = append(result.Issues, &issue.Issue{
				Type:        rule.issueType,
				Severity:    rule.severity,
				Description: rule.description,
				File:        artifact.SourceRef,
				Line:        i + 1,
				Snippet:     snippetOf(line),
				Stage:       StageStatic,
			})

			switch rule.severity {
			case issue.SeverityHigh:
				result.Score -= staticHighPenalty
			case issue.SeverityMedium:
				result.Score -= staticMediumPenalty
			default:
				result.Score -= staticLowPenalty
			}
		}
	}

	result.Score = clampScore(result.Score)
	return result, nil
}
