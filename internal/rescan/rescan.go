// Package rescan re-scores persisted records that never received a security
// verdict, in popularity order so high-visibility records come first.
package rescan

import (
	"context"
	"fmt"

	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/security"
)

// DefaultPageSize is how many records one page of the job processes.
const DefaultPageSize = 100

// maxLoggedErrors caps per-row error logging; further failures are only
// counted.
const maxLoggedErrors = 10

// sampleSize is how many candidate IDs a dry run reports.
const sampleSize = 10

// Store is the primary-store surface the job reads and writes.
type Store interface {
	CountEligibleForRescan() (int64, error)
	EligibleForRescan(limit, offset int) ([]models.SkillRecord, error)
	UpdateSecurityScore(id string, score int, status models.SecurityStatus) error
}

// Summary reports one rescan run.
type Summary struct {
	Eligible int64
	Scanned  int
	Failed   int
	// AvgScore is the mean security score over scanned rows, 0 when no row
	// was scanned.
	AvgScore float64
	ByStatus map[models.SecurityStatus]int
	// Sample holds candidate IDs; populated on dry runs only.
	Sample []string
}

// Job runs the batch security rescan.
type Job struct {
	store    Store
	scanner  *security.Scanner
	log      *log.Logger
	PageSize int
	// DryRun reports the candidate set without writing anything.
	DryRun bool
}

// New creates a rescan job with the default page size.
func New(store Store, logger *log.Logger) *Job {
	return &Job{
		store:    store,
		scanner:  security.NewScanner(),
		log:      logger,
		PageSize: DefaultPageSize,
	}
}

// Run executes the job. Scored rows drop out of the eligibility query, so
// each iteration re-queries the first page; an interrupted run resumes
// naturally on the next invocation. Per-row failures are counted and, up to
// a cap, logged; they never abort the batch.
func (j *Job) Run(ctx context.Context) (*Summary, error) {
	eligible, err := j.store.CountEligibleForRescan()
	if err != nil {
		return nil, fmt.Errorf("count eligible: %w", err)
	}
	summary := &Summary{
		Eligible: eligible,
		ByStatus: make(map[models.SecurityStatus]int),
	}

	if j.DryRun {
		rows, err := j.store.EligibleForRescan(sampleSize, 0)
		if err != nil {
			return nil, fmt.Errorf("sample eligible: %w", err)
		}
		for _, row := range rows {
			summary.Sample = append(summary.Sample, row.ID)
		}
		return summary, nil
	}

	totalScore := 0
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		// Scored rows drop out of eligibility; failed rows stay in and sort
		// ahead of everything unseen, so offsetting by the failure count
		// skips exactly them and each row is visited once.
		rows, err := j.store.EligibleForRescan(j.PageSize, summary.Failed)
		if err != nil {
			return summary, fmt.Errorf("load page: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		for i := range rows {
			score, status, err := j.scanRow(&rows[i])
			if err != nil {
				summary.Failed++
				if summary.Failed <= maxLoggedErrors {
					j.log.Errorf("rescan %s: %v", rows[i].ID, err)
				}
				continue
			}
			summary.Scanned++
			summary.ByStatus[status]++
			totalScore += score
		}
	}

	if summary.Scanned > 0 {
		summary.AvgScore = float64(totalScore) / float64(summary.Scanned)
	}
	return summary, nil
}

// scanRow scores one record and persists the verdict. A panicking pattern is
// reported as a scan failure for this row only.
func (j *Job) scanRow(row *models.SkillRecord) (score int, status models.SecurityStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panicked: %v", r)
		}
	}()

	report := j.scanner.Scan(row.Content, nil)
	if err := j.store.UpdateSecurityScore(row.ID, report.Score, report.Status); err != nil {
		return 0, "", err
	}
	return report.Score, report.Status, nil
}
