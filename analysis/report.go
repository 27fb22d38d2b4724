package analysis

import (
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
)

// Risk tiers assigned to a completed audit, ordered from safest to worst.
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// Report is the persisted artifact of one analysis run. It is serialized
// as JSON and stored content-addressed; the audit record carries its ref.
type Report struct {
	AuditID         int64              `json:"audit_id"`
	SourceRef       string             `json:"source_ref"`
	FinalScore      int                `json:"final_score"`
	RiskTier        string             `json:"risk_tier"`
	StageScores     map[string]int     `json:"stage_scores"`
	Issues          []*issue.Issue     `json:"issues"`
	Recommendations []string           `json:"recommendations"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// RiskTier maps a final score and the count of high-severity findings to
// a tier. High findings dominate: a well-scoring artifact with several
// high-severity issues is still classified as risky.
func RiskTier(score, highCount int) string {
	switch {
	case score >= 90 && highCount == 0:
		return RiskLow
	case score >= 75 && highCount <= 1:
		return RiskMedium
	case score >= 50 || highCount <= 3:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// CountHigh returns the number of high-severity issues in the list.
func CountHigh(issues []*issue.Issue) int {
	n := 0
	for _, iss := range issues {
		if iss.Severity == issue.SeverityHigh {
			n++
		}
	}
	return n
}

// recommendations derives remediation advice from the issue set. One
// recommendation per distinct issue type, in first-seen order.
func recommendations(issues []*issue.Issue) []string {
	seen := make(map[string]bool)
	var out []string
	for _, iss := range issues {
		if seen[iss.Type] {
			continue
		}
		seen[iss.Type] = true
		if advice, ok := adviceByType[iss.Type]; ok {
			out = append(out, advice)
		}
	}
	return out
}

var adviceByType = map[string]string{
	"tx-origin-auth":        "replace tx.origin checks with msg.sender based authorization",
	"unsafe-delegatecall":   "restrict delegatecall targets to an allowlist of audited implementations",
	"selfdestruct":          "remove selfdestruct or gate it behind a timelocked multisig",
	"unchecked-call-value":  "apply the checks-effects-interactions pattern and verify call return values",
	"timestamp-dependence":  "avoid block.timestamp for critical logic; use block-count windows instead",
	"weak-randomness":       "source randomness from a verifiable oracle rather than blockhash",
	"inline-assembly":       "document and minimize inline assembly; cover it with targeted tests",
	"floating-pragma":       "pin the compiler to a single tested version",
	"block-number-timing":   "do not assume fixed block intervals",
	"unfinished-code":       "resolve TODO and FIXME markers before deployment",
	"long-line":             "reformat long lines for reviewability",
	"long-function":         "split long functions into reviewable units",
	"undocumented-function": "document externally visible functions",
	"swallowed-error":       "handle or propagate errors instead of swallowing them",
	"arithmetic-overflow":   "use checked arithmetic or widen the operand types",
	"unhandled-revert":      "guard external calls so a callee revert cannot strand partial state",
}
