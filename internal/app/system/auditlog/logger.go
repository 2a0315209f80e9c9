// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	ToAll = "all" // MongoDB + zap
	ToDB  = "db"  // MongoDB only
	ToLog = "log" // zap only
	Off   = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// User controls logging for requester actions (request submission).
	User string
	// Admin controls logging for admin actions (status changes, fulfillment, catalog edits).
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and/or structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when every category
// logs to zap only.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// ValidSetting reports whether s is a recognised destination.
func ValidSetting(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ToAll, ToDB, ToLog, Off:
		return true
	}
	return false
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request context                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey struct{}

type origin struct {
	ip        string
	userAgent string
}

// CaptureRequest stores the caller's address and user agent in the request
// context so events logged further down the call chain carry them.
func CaptureRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), r)))
	})
}

// WithRequest returns ctx annotated with r's client IP and user agent.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, ctxKey{}, origin{ip: clientIP(r), userAgent: r.UserAgent()})
}

func fromContext(ctx context.Context) origin {
	o, _ := ctx.Value(ctxKey{}).(origin)
	return o
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

/*─────────────────────────────────────────────────────────────────────────────*
| Core                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.RequestID != nil {
		fields = append(fields, zap.String("request_id", event.RequestID.Hex()))
	}
	if event.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", event.ResourceID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryUser:
		setting = l.config.User
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ToAll
	}
	setting = strings.ToLower(strings.TrimSpace(setting))
	if setting == "" {
		setting = ToAll
	}
	if setting == Off {
		return
	}

	if event.IP == "" && event.UserAgent == "" {
		o := fromContext(ctx)
		event.IP, event.UserAgent = o.ip, o.userAgent
	}

	if setting == ToAll || setting == ToLog {
		l.logToZap(event)
	}

	if (setting == ToAll || setting == ToDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func idPtr(id primitive.ObjectID) *primitive.ObjectID {
	if id.IsZero() {
		return nil
	}
	return &id
}

// --- Requester events ---

// RequestSubmitted logs a new resource request.
func (l *Logger) RequestSubmitted(ctx context.Context, requesterID, requestID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryUser,
		EventType: audit.EventRequestSubmitted,
		UserID:    idPtr(requesterID),
		ActorID:   idPtr(requesterID),
		RequestID: idPtr(requestID),
		Success:   true,
		Details:   map[string]string{"title": title},
	})
}

// --- Admin events ---

// RequestStatusChanged logs an admin status update.
func (l *Logger) RequestStatusChanged(ctx context.Context, actorID, requesterID, requestID primitive.ObjectID, from, to string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventRequestStatusChanged,
		UserID:    idPtr(requesterID),
		ActorID:   idPtr(actorID),
		RequestID: idPtr(requestID),
		Success:   true,
		Details:   map[string]string{"from": from, "to": to},
	})
}

// RequestFulfilled logs a request linked to the resource created for it.
func (l *Logger) RequestFulfilled(ctx context.Context, actorID, requesterID, requestID, resourceID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventRequestFulfilled,
		UserID:     idPtr(requesterID),
		ActorID:    idPtr(actorID),
		RequestID:  idPtr(requestID),
		ResourceID: idPtr(resourceID),
		Success:    true,
	})
}

// RequestLinkFailed logs a fulfillment whose resource was created but whose
// request could not be updated. rawRequestID is kept verbatim since it may
// not be a valid ObjectID.
func (l *Logger) RequestLinkFailed(ctx context.Context, actorID, resourceID primitive.ObjectID, rawRequestID, reason string) {
	ev := audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventRequestLinkFailed,
		ActorID:       idPtr(actorID),
		ResourceID:    idPtr(resourceID),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"request_id": rawRequestID},
	}
	if oid, err := primitive.ObjectIDFromHex(rawRequestID); err == nil {
		ev.RequestID = &oid
	}
	l.Log(ctx, ev)
}

// ResourceCreated logs a new catalog entry.
func (l *Logger) ResourceCreated(ctx context.Context, actorID, resourceID primitive.ObjectID, title string) {
	l.resourceEvent(ctx, audit.EventResourceCreated, actorID, resourceID, title)
}

// ResourceUpdated logs an admin edit.
func (l *Logger) ResourceUpdated(ctx context.Context, actorID, resourceID primitive.ObjectID, title string) {
	l.resourceEvent(ctx, audit.EventResourceUpdated, actorID, resourceID, title)
}

// ResourceDeactivated logs a soft delete.
func (l *Logger) ResourceDeactivated(ctx context.Context, actorID, resourceID primitive.ObjectID, title string) {
	l.resourceEvent(ctx, audit.EventResourceDeactivated, actorID, resourceID, title)
}

// ResourceRestored logs a restore.
func (l *Logger) ResourceRestored(ctx context.Context, actorID, resourceID primitive.ObjectID, title string) {
	l.resourceEvent(ctx, audit.EventResourceRestored, actorID, resourceID, title)
}

func (l *Logger) resourceEvent(ctx context.Context, eventType string, actorID, resourceID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		ActorID:    idPtr(actorID),
		ResourceID: idPtr(resourceID),
		Success:    true,
		Details:    map[string]string{"title": title},
	})
}

// --- System events ---

// AdminBootstrapped logs creation of the configured bootstrap admin.
func (l *Logger) AdminBootstrapped(ctx context.Context, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventAdminBootstrapped,
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}
