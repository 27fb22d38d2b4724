package credential

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the non-transferable achievement record issued to the
// winning hunter when a bounty is resolved. It carries no value and is
// bound to the hunter identity it was issued for.
type Credential struct {
	ID           string    `db:"id"`
	AuditID      int64     `db:"audit_id"`
	BountyID     int64     `db:"bounty_id"`
	Hunter       string    `db:"hunter"`
	QualityScore int       `db:"quality_score"`
	EvidenceRef  string    `db:"evidence_ref"`
	IssuedAt     time.Time `db:"issued_at"`
}

func NewCredential(auditID, bountyID int64, hunter string, qualityScore int, evidenceRef string) *Credential {
	return &Credential{
		ID:           uuid.New().String(),
		AuditID:      auditID,
		BountyID:     bountyID,
		Hunter:       hunter,
		QualityScore: qualityScore,
		EvidenceRef:  evidenceRef,
		IssuedAt:     time.Now().UTC(),
	}
}
