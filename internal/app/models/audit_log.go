package models

// Audit actions recorded by the portal.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
)

// AuditLogEntry is one server-generated audit record.
// Timestamp is passed through as the server formats it.
type AuditLogEntry struct {
	ID          int64  `json:"id" db:"id"`
	Timestamp   string `json:"timestamp" db:"timestamp"`
	Action      string `json:"action" db:"action_type"`
	Table       string `json:"table" db:"table_name"`
	Description string `json:"description" db:"description"`
}

// AuditRecord is what a mutation appends to the audit log.
type AuditRecord struct {
	UserID      *int64
	Action      string
	Table       string
	RecordID    int64
	Description string
	IPAddress   string
}
