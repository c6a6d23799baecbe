package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// ObjectUploader is the archive sink report exports are written to
type ObjectUploader interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

// ViolationReport - audit snapshot uploaded to the archive bucket
type ViolationReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	WindowDays  int             `json:"window_days"`
	Violations  []Violation     `json:"violations"`
	Stats       *ViolationStats `json:"stats"`
}

// Exporter writes violation audit reports to object storage
type Exporter struct {
	store    Store
	uploader ObjectUploader
	now      func() time.Time
}

func NewExporter(store Store, uploader ObjectUploader) *Exporter {
	return &Exporter{store: store, uploader: uploader, now: time.Now}
}

// ExportViolationReport gathers the violations of the last windowDays days
// plus aggregate statistics, serializes them and uploads the snapshot.
// Returns the object key of the uploaded report.
func (e *Exporter) ExportViolationReport(ctx context.Context, windowDays int) (string, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	now := e.now()
	since := now.AddDate(0, 0, -windowDays)

	violations, err := e.store.ListViolations(ctx, ViolationFilter{Since: &since})
	if err != nil {
		return "", fmt.Errorf("failed to gather violations: %w", err)
	}

	stats, err := e.store.GetViolationStats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to gather stats: %w", err)
	}

	report := ViolationReport{
		GeneratedAt: now,
		WindowDays:  windowDays,
		Violations:  violations,
		Stats:       stats,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	key := fmt.Sprintf("reports/violations_%s.json", now.Format("20060102_150405"))
	if err := e.uploader.PutObject(ctx, key, data, "application/json"); err != nil {
		return "", err
	}

	log.Printf("📦 [EXPORT] Violation report uploaded: %s (%d violations)", key, len(violations))
	return key, nil
}
