package analysis

import (
	"context"
	"strings"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
)

const (
	semanticMaxLineLength  = 120
	semanticMediumPenalty  = 6
	semanticLowPenalty     = 2
	semanticLongFuncLines  = 60
)

// SemanticAnalyzer scores code quality: documentation, readability and
// structural hygiene. It is intentionally independent of the
// vulnerability patterns covered by the static pass.
type SemanticAnalyzer struct{}

var _ Analyzer = (*SemanticAnalyzer)(nil)

func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{}
}

func (a *SemanticAnalyzer) Stage() string {
	return StageSemantic
}

func (a *SemanticAnalyzer) Analyze(ctx context.Context, artifact *Artifact) (StageResult, error) {
	result := StageResult{Stage: StageSemantic, Score: 100}

	lines := artifact.Lines()
	funcStart := -1

	addIssue := func(lineNo int, issueType string, severity issue.Severity, description, snippet string) {
		result.Issues = append(result.Issues, &issue.Issue{
			Type:        issueType,
			Severity:    severity,
			Description: description,
			File:        artifact.SourceRef,
			Line:        lineNo,
			Snippet:     snippet,
			Stage:       StageSemantic,
		})
		if severity == issue.SeverityMedium {
			result.Score -= semanticMediumPenalty
		} else {
			result.Score -= semanticLowPenalty
		}
	}

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return StageResult{}, err
		}

		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.Contains(line, "TODO") || strings.Contains(line, "FIXME") {
			addIssue(lineNo, "unfinished-code", issue.SeverityLow,
				"unresolved TODO/FIXME marker left in production code", snippetOf(line))
		}

		if len(line) > semanticMaxLineLength {
			addIssue(lineNo, "long-line", issue.SeverityLow,
				"line exceeds readable length", snippetOf(line))
		}

		if strings.HasPrefix(trimmed, "function ") || strings.HasPrefix(trimmed, "func ") {
			if funcStart >= 0 && lineNo-funcStart > semanticLongFuncLines {
				addIssue(funcStart, "long-function", issue.SeverityMedium,
					"function body is too long to review reliably", "")
			}
			funcStart = lineNo

			if i == 0 || !isComment(lines[i-1]) {
				addIssue(lineNo, "undocumented-function", issue.SeverityLow,
					"externally visible function lacks a doc comment", snippetOf(line))
			}
		}

		if strings.Contains(trimmed, "catch {}") || strings.Contains(trimmed, "catch { }") {
			addIssue(lineNo, "swallowed-error", issue.SeverityMedium,
				"error swallowed by an empty catch block", snippetOf(line))
		}
	}

	result.Score = clampScore(result.Score)
	return result, nil
}

func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}
