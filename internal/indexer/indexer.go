// Package indexer turns discovered skill sources into persisted records. The
// primary store is authoritative; search sync, request resolution and
// category linking are best-effort side effects.
package indexer

import (
	"context"
	"errors"

	"github.com/skillscout/skillscout/internal/analyze"
	"github.com/skillscout/skillscout/internal/fetch"
	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/notify"
	"github.com/skillscout/skillscout/internal/scraper"
)

// Store is the primary-store surface the indexer writes through.
type Store interface {
	GetSkill(id string) (*models.SkillRecord, error)
	UpsertSkill(skill *models.SkillRecord) error
	LinkCategories(skillID, name, description string) error
	FindApprovedRequestsByRepo(owner, repo string) ([]models.AddRequest, error)
	UpdateRequestStatus(id string, status models.RequestStatus, indexedSkillID string) error
}

// ContentFetcher resolves a source to instruction content.
type ContentFetcher interface {
	Fetch(ctx context.Context, src models.SkillSource) (*fetch.Result, error)
}

// SearchSync mirrors records into the secondary search index.
type SearchSync interface {
	SyncSkill(ctx context.Context, skill *models.SkillRecord) error
}

// Indexer runs the per-source indexing flow.
type Indexer struct {
	api      scraper.API
	fetcher  ContentFetcher
	analyzer *analyze.Analyzer
	store    Store
	search   SearchSync
	notifier notify.Notifier
	log      *log.Logger
}

// New wires the indexing orchestrator onto its collaborators.
func New(api scraper.API, fetcher ContentFetcher, store Store, search SearchSync, notifier notify.Notifier, logger *log.Logger) *Indexer {
	return &Indexer{
		api:      api,
		fetcher:  fetcher,
		analyzer: analyze.New(),
		store:    store,
		search:   search,
		notifier: notifier,
		log:      logger,
	}
}

// IndexOne processes a single source. It returns the record ID, or "" when
// the source was validly skipped (invalid content, blocked record, unchanged
// fingerprint without force). Errors cover fetch and primary-store failures
// only; best-effort side effects never fail an index.
func (ix *Indexer) IndexOne(ctx context.Context, src models.SkillSource, force bool) (string, error) {
	repo, err := ix.api.GetRepositoryInfo(ctx, src.Owner, src.Repo)
	if err != nil {
		// Quality scoring degrades without repo metadata; fetching can
		// still proceed on the source's recorded branch.
		ix.log.Errorf("index %s: repo metadata: %v", src.RepoName(), err)
		repo = nil
	}
	if src.Branch == "" && repo != nil {
		src.Branch = repo.DefaultBranch
	}

	result, err := ix.fetcher.Fetch(ctx, src)
	if err != nil {
		return "", err
	}

	analysis := ix.analyzer.Analyze(result.Content, src, repo, result.Scripts)
	if !analysis.Validation.IsValid {
		ix.log.Printf("index %s: invalid content: %v\n", src.RepoName(), analysis.Validation.Problems)
		return "", nil
	}

	id := models.SkillID(src.Owner, src.Repo, analyze.Slugify(analysis.Meta.Name), src.Convention)

	existing, err := ix.store.GetSkill(id)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.IsBlocked {
			ix.log.Printf("index %s: blocked, skipping\n", id)
			return "", nil
		}
		// If repo metadata failed and no branch was recorded on the
		// source, inherit the stored branch rather than letting an
		// empty value read as a branch change.
		if src.Branch == "" {
			src.Branch = existing.Branch
		}
		unchanged := existing.ContentFingerprint == analysis.Fingerprint
		moved := existing.Path != result.Path || existing.Branch != src.Branch
		if !force && unchanged && !moved {
			return "", nil
		}
	}

	record := ix.buildRecord(id, src, result, analysis, repo)
	if err := ix.store.UpsertSkill(record); err != nil {
		return "", err
	}

	// From here on the index has succeeded; side-effect failures are logged
	// and swallowed.
	if err := ix.search.SyncSkill(ctx, record); err != nil {
		ix.log.Errorf("index %s: search sync: %v", id, err)
	}
	ix.resolveRequests(ctx, record)
	if err := ix.store.LinkCategories(id, record.Name, record.Description); err != nil {
		ix.log.Errorf("index %s: link categories: %v", id, err)
	}

	return id, nil
}

func (ix *Indexer) buildRecord(id string, src models.SkillSource, result *fetch.Result, analysis *analyze.Analysis, repo *scraper.RepoInfo) *models.SkillRecord {
	record := &models.SkillRecord{
		ID:          id,
		Name:        analysis.Meta.Name,
		Description: analysis.Meta.Description,
		Content:     result.Content,

		Owner:      src.Owner,
		Repo:       src.Repo,
		Path:       result.Path,
		Branch:     src.Branch,
		Convention: src.Convention,

		ContentFingerprint: analysis.Fingerprint,

		SecurityScore:  analysis.SecurityScore,
		SecurityStatus: analysis.SecurityStatus,
		ReviewStatus:   models.ReviewStatusAuto,

		QualityScore:     analysis.Quality.Total,
		DocsScore:        analysis.Quality.Docs,
		MaintenanceScore: analysis.Quality.Maintenance,
		PopularityScore:  analysis.Quality.Popularity,
	}
	if repo != nil {
		record.StarCount = repo.Stars
		record.ForkCount = repo.Forks
	}
	return record
}

// resolveRequests transitions approved add requests for this repository to
// indexed and fires their notifications.
func (ix *Indexer) resolveRequests(ctx context.Context, record *models.SkillRecord) {
	requests, err := ix.store.FindApprovedRequestsByRepo(record.Owner, record.Repo)
	if err != nil {
		ix.log.Errorf("index %s: find requests: %v", record.ID, err)
		return
	}

	for _, req := range requests {
		if err := ix.store.UpdateRequestStatus(req.ID, models.RequestStatusIndexed, record.ID); err != nil {
			ix.log.Errorf("index %s: resolve request %s: %v", record.ID, req.ID, err)
			continue
		}
		if req.Email == "" {
			continue
		}
		err := ix.notifier.SendIndexedNotification(ctx, req.Email, req.Locale, notify.IndexedSkill{
			ID:      record.ID,
			Name:    record.Name,
			RepoURL: record.RepoURL(),
		})
		if err != nil {
			ix.log.Errorf("index %s: notify %s: %v", record.ID, req.ID, err)
		}
	}
}

// Summary aggregates one batch indexing run.
type Summary struct {
	Indexed int
	Skipped int
	Failed  int
	IDs     []string
}

// IndexAll runs IndexOne over every source, catching per-source failures so
// the batch keeps progressing. Rate-limit exhaustion stops the batch early;
// retrying sources with no usable credential only burns time.
func (ix *Indexer) IndexAll(ctx context.Context, sources []models.SkillSource, force bool) Summary {
	var sum Summary
	for _, src := range sources {
		id, err := ix.IndexOne(ctx, src, force)
		if err != nil {
			sum.Failed++
			ix.log.Errorf("index %s: %v", src.RepoName(), err)
			if scraper.IsRateLimitExhausted(err) || errors.Is(err, context.Canceled) {
				break
			}
			continue
		}
		if id == "" {
			sum.Skipped++
			continue
		}
		sum.Indexed++
		sum.IDs = append(sum.IDs, id)
	}
	return sum
}
