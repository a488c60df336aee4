package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReportStore is the SQL backed core.ReportLedger.
type ReportStore struct {
	db   *bun.DB
	repo repository.Repository[*reportRequestRecord]
	now  func() time.Time
}

func NewReportStore(db *bun.DB) (*ReportStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*reportRequestRecord](db, reportRequestHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid report request repository wiring: %w", err)
		}
	}
	return &ReportStore{
		db:   db,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *ReportStore) Record(ctx context.Context, entry core.ReportLedgerEntry) (core.ReportLedgerEntry, error) {
	if s == nil || s.repo == nil {
		return core.ReportLedgerEntry{}, fmt.Errorf("sqlstore: report store is not configured")
	}
	if entry.ReportRequestID <= 0 {
		return core.ReportLedgerEntry{}, fmt.Errorf("sqlstore: report request id is required")
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	now := s.now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	created, err := s.repo.Create(ctx, newReportRequestRecord(entry))
	if err != nil {
		return core.ReportLedgerEntry{}, err
	}
	return created.toDomain(), nil
}

func (s *ReportStore) UpdateStatus(
	ctx context.Context,
	reportRequestID int64,
	status core.AsyncReportStatus,
	downloadURL string,
) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: report store is not configured")
	}
	record, err := s.find(ctx, reportRequestID)
	if err != nil {
		return err
	}
	record.Status = strings.TrimSpace(string(status))
	if url := strings.TrimSpace(downloadURL); url != "" {
		record.DownloadURL = url
	}
	record.UpdatedAt = s.now()

	_, err = s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	return err
}

func (s *ReportStore) Get(ctx context.Context, reportRequestID int64) (core.ReportLedgerEntry, error) {
	if s == nil || s.db == nil {
		return core.ReportLedgerEntry{}, fmt.Errorf("sqlstore: report store is not configured")
	}
	record, err := s.find(ctx, reportRequestID)
	if err != nil {
		return core.ReportLedgerEntry{}, err
	}
	return record.toDomain(), nil
}

func (s *ReportStore) List(ctx context.Context, entityID int64) ([]core.ReportLedgerEntry, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: report store is not configured")
	}
	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
	}
	if entityID > 0 {
		selectors = append(selectors, repository.SelectBy("entity_id", "=", strconv.FormatInt(entityID, 10)))
	}
	records, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}
	out := make([]core.ReportLedgerEntry, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (s *ReportStore) find(ctx context.Context, reportRequestID int64) (*reportRequestRecord, error) {
	record := &reportRequestRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.report_request_id = ?", reportRequestID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", core.ErrReportRequestNotFound, reportRequestID)
		}
		return nil, err
	}
	return record, nil
}

var _ core.ReportLedger = (*ReportStore)(nil)
