package domain

// AuditRiskLevel is the severity reported for a single audit finding.
type AuditRiskLevel string

const (
	AuditRiskInfo    AuditRiskLevel = "info"
	AuditRiskWarning AuditRiskLevel = "warn"
	AuditRiskDanger  AuditRiskLevel = "danger"
)

// AuditRisk is a named risk finding from the contract audit service.
type AuditRisk struct {
	Name        string
	Description string
	Level       AuditRiskLevel
}

// AuditReport is the third-party contract-risk audit for the subject.
// Score is normalized so that higher means riskier. DeployerHint, when
// present, is the auditor's view of the deploying wallet and feeds the
// creator profile when authorities are revoked.
type AuditReport struct {
	Score        int
	Risks        []AuditRisk
	DeployerHint string
}
