package audit

type AuditStatus string

const (
	StatusRequested AuditStatus = "requested"
	StatusCompleted AuditStatus = "completed"
)
