package sqlstore

import (
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/uptrace/bun"
)

type reportRequestRecord struct {
	bun.BaseModel `bun:"table:quantcast_report_requests,alias:qrr"`

	ID              string    `bun:"id,pk"`
	EntityType      string    `bun:"entity_type,notnull"`
	EntityID        int64     `bun:"entity_id,notnull"`
	ReportRequestID int64     `bun:"report_request_id,notnull"`
	FileName        string    `bun:"file_name,notnull"`
	Status          string    `bun:"status,notnull"`
	DownloadURL     string    `bun:"download_url,notnull"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newReportRequestRecord(entry core.ReportLedgerEntry) *reportRequestRecord {
	return &reportRequestRecord{
		ID:              entry.ID,
		EntityType:      string(entry.EntityType),
		EntityID:        entry.EntityID,
		ReportRequestID: entry.ReportRequestID,
		FileName:        entry.FileName,
		Status:          string(entry.Status),
		DownloadURL:     entry.DownloadURL,
		CreatedAt:       entry.CreatedAt.UTC(),
		UpdatedAt:       entry.UpdatedAt.UTC(),
	}
}

func (r *reportRequestRecord) toDomain() core.ReportLedgerEntry {
	if r == nil {
		return core.ReportLedgerEntry{}
	}
	return core.ReportLedgerEntry{
		ID:              r.ID,
		EntityType:      core.EntityType(r.EntityType),
		EntityID:        r.EntityID,
		ReportRequestID: r.ReportRequestID,
		FileName:        r.FileName,
		Status:          core.AsyncReportStatus(r.Status),
		DownloadURL:     r.DownloadURL,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}
