package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

// Recorder writes the audit trail twice: a row in audit_logs and a line in
// the rotating commit log. Recording is best-effort and never fails the
// request that triggered it.
type Recorder struct {
	db *gorm.DB
	lg *zap.SugaredLogger
}

func New(db *gorm.DB, lg *zap.SugaredLogger) *Recorder {
	return &Recorder{db: db, lg: lg}
}

// Record logs an action committed by actorID with the changed fields.
func (r *Recorder) Record(ctx context.Context, actorID, actor, action string, fields map[string]any) {
	md, _ := json.Marshal(fields)
	var uid *string
	if actorID != "" {
		uid = &actorID
	}
	_ = r.db.WithContext(ctx).Create(&models.AuditLog{
		UserID:   uid,
		Action:   action,
		Metadata: models.JSONB(md),
	}).Error

	kv := make([]any, 0, 2*len(fields)+2)
	kv = append(kv, "committed_by", actor)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	r.lg.Infow(action, kv...)
}
