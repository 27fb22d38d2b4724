package issue

// Severity classifies how dangerous a finding is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is a single finding produced by one analysis stage. Issues are
// owned by exactly one audit and are immutable once recorded. Duplicate
// findings on the same line are kept as-is; de-duplication is left to
// downstream consumers.
type Issue struct {
	ID          int64    `db:"id"`
	AuditID     int64    `db:"audit_id"`
	Type        string   `db:"type"`
	Severity    Severity `db:"severity"`
	Description string   `db:"description"`
	File        string   `db:"file"`
	Line        int      `db:"line"`
	Snippet     string   `db:"snippet"`
	Stage       string   `db:"stage"`
}
