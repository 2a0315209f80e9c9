// internal/app/features/auditlog/types.go
package auditlog

import "time"

// listItem is one audit event as returned to admins.
type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ActorID       string            `json:"actorId,omitempty"`
	ActorName     string            `json:"actorName,omitempty"` // resolved from ActorID
	UserID        string            `json:"userId,omitempty"`
	UserName      string            `json:"userName,omitempty"` // resolved from UserID
	RequestID     string            `json:"requestId,omitempty"`
	ResourceID    string            `json:"resourceId,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}
