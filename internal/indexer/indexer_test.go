package indexer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillscout/skillscout/internal/fetch"
	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
	"github.com/skillscout/skillscout/internal/notify"
	"github.com/skillscout/skillscout/internal/scraper"
)

const skillContent = `---
name: Deploy Helper
description: Automates deployment steps for the project pipeline.
---

# Deploy Helper

Automates deployment steps for the project pipeline.
`

type fakeAPI struct {
	repos map[string]*scraper.RepoInfo
}

func (f *fakeAPI) GetRepositoryInfo(_ context.Context, owner, repo string) (*scraper.RepoInfo, error) {
	if info, ok := f.repos[owner+"/"+repo]; ok {
		return info, nil
	}
	return nil, scraper.ErrNotFound
}

func (f *fakeAPI) GetFileContent(context.Context, string, string, string, string) (string, error) {
	return "", scraper.ErrNotFound
}

func (f *fakeAPI) ListDirectory(context.Context, string, string, string, string) ([]scraper.DirEntry, error) {
	return nil, scraper.ErrNotFound
}

func (f *fakeAPI) ListForks(context.Context, string, string) ([]*scraper.RepoInfo, error) {
	return nil, nil
}

func (f *fakeAPI) SearchRepositories(context.Context, string, int) ([]*scraper.RepoInfo, error) {
	return nil, nil
}

type fakeFetcher struct {
	results map[string]*fetch.Result
	err     error
}

func (f *fakeFetcher) Fetch(_ context.Context, src models.SkillSource) (*fetch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if result, ok := f.results[src.RepoName()]; ok {
		return result, nil
	}
	return nil, &fetch.NotFoundError{Attempts: 1}
}

type fakeStore struct {
	skills   map[string]*models.SkillRecord
	requests []models.AddRequest

	upserts     int
	linked      []string
	linkErr     error
	transitions map[string]models.RequestStatus
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		skills:      make(map[string]*models.SkillRecord),
		transitions: make(map[string]models.RequestStatus),
	}
}

func (s *fakeStore) GetSkill(id string) (*models.SkillRecord, error) {
	if skill, ok := s.skills[id]; ok {
		copied := *skill
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeStore) UpsertSkill(skill *models.SkillRecord) error {
	s.upserts++
	copied := *skill
	s.skills[skill.ID] = &copied
	return nil
}

func (s *fakeStore) LinkCategories(skillID, _, _ string) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	s.linked = append(s.linked, skillID)
	return nil
}

func (s *fakeStore) FindApprovedRequestsByRepo(owner, repo string) ([]models.AddRequest, error) {
	var out []models.AddRequest
	for _, req := range s.requests {
		if req.Owner == owner && req.Repo == repo && req.Status == models.RequestStatusApproved {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateRequestStatus(id string, status models.RequestStatus, _ string) error {
	s.transitions[id] = status
	return nil
}

type fakeSearch struct {
	synced []string
	err    error
}

func (f *fakeSearch) SyncSkill(_ context.Context, skill *models.SkillRecord) error {
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, skill.ID)
	return nil
}

type fakeNotifier struct {
	sent []notify.IndexedSkill
}

func (f *fakeNotifier) SendIndexedNotification(_ context.Context, _, _ string, skill notify.IndexedSkill) error {
	f.sent = append(f.sent, skill)
	return nil
}

func newTestIndexer(store *fakeStore, search *fakeSearch, notifier notify.Notifier) *Indexer {
	api := &fakeAPI{repos: map[string]*scraper.RepoInfo{
		"alice/kit": {Owner: "alice", Repo: "kit", Stars: 42, Forks: 3, DefaultBranch: "main"},
	}}
	fetcher := &fakeFetcher{results: map[string]*fetch.Result{
		"alice/kit": {Via: fetch.ViaAPI, Path: "skills/deploy/SKILL.md", Content: skillContent},
	}}
	return New(api, fetcher, store, search, notifier, log.NewConsole(io.Discard))
}

func deploySource() models.SkillSource {
	return models.SkillSource{
		Owner:      "alice",
		Repo:       "kit",
		Path:       "skills/deploy",
		Convention: models.ConventionSkill,
	}
}

func TestIndexOneCreatesRecord(t *testing.T) {
	store := newFakeStore()
	search := &fakeSearch{}
	ix := newTestIndexer(store, search, notify.Noop{})

	id, err := ix.IndexOne(context.Background(), deploySource(), false)
	require.NoError(t, err)
	assert.Equal(t, "alice/kit/deploy-helper", id)

	record := store.skills[id]
	require.NotNil(t, record)
	assert.Equal(t, "Deploy Helper", record.Name)
	assert.Equal(t, "skills/deploy/SKILL.md", record.Path)
	assert.Equal(t, "main", record.Branch)
	assert.Equal(t, models.SecurityStatusPass, record.SecurityStatus)
	assert.Equal(t, models.ReviewStatusAuto, record.ReviewStatus)
	assert.Equal(t, 42, record.StarCount)
	assert.NotEmpty(t, record.ContentFingerprint)

	assert.Equal(t, []string{id}, search.synced)
	assert.Equal(t, []string{id}, store.linked)
}

func TestIndexOneUnchangedIsPureSkip(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ctx := context.Background()

	id, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, store.upserts)

	id, err = ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 1, store.upserts, "unchanged source must not write")
}

func TestIndexOneForceRewrites(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ctx := context.Background()

	_, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)

	id, err := ix.IndexOne(ctx, deploySource(), true)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 2, store.upserts)
}

func TestIndexOneDetectsLayoutMove(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ctx := context.Background()

	id, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)

	// Same content, new location. The fingerprint matches but the path
	// moved, so the record must be rewritten.
	ix.fetcher.(*fakeFetcher).results["alice/kit"] = &fetch.Result{
		Via:     fetch.ViaAPI,
		Path:    ".claude/skills/deploy/SKILL.md",
		Content: skillContent,
	}

	got, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, 2, store.upserts)
	assert.Equal(t, ".claude/skills/deploy/SKILL.md", store.skills[id].Path)
}

func TestIndexOneKeepsStoredBranchWhenMetadataFails(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ctx := context.Background()

	id, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)
	require.Equal(t, "main", store.skills[id].Branch)

	// Repo metadata becomes unavailable. The source carries no branch of
	// its own, which must not read as a move off the recorded branch.
	delete(ix.api.(*fakeAPI).repos, "alice/kit")

	got, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)
	assert.Empty(t, got, "unchanged content must stay a skip")
	assert.Equal(t, 1, store.upserts)
	assert.Equal(t, "main", store.skills[id].Branch)
}

func TestIndexOneSkipsBlockedRecord(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ctx := context.Background()

	id, err := ix.IndexOne(ctx, deploySource(), false)
	require.NoError(t, err)
	store.skills[id].IsBlocked = true

	got, err := ix.IndexOne(ctx, deploySource(), true)
	require.NoError(t, err)
	assert.Empty(t, got, "blocked records stay blocked even under force")
	assert.Equal(t, 1, store.upserts)
}

func TestIndexOneInvalidContentIsSkipNotError(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ix.fetcher.(*fakeFetcher).results["alice/kit"] = &fetch.Result{
		Via:     fetch.ViaAPI,
		Path:    "skills/deploy/SKILL.md",
		Content: "   \n",
	}

	id, err := ix.IndexOne(context.Background(), deploySource(), false)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Zero(t, store.upserts)
}

func TestIndexOneSideEffectFailuresDoNotFailIndex(t *testing.T) {
	store := newFakeStore()
	store.linkErr = errors.New("taxonomy offline")
	search := &fakeSearch{err: errors.New("index offline")}
	ix := newTestIndexer(store, search, notify.Noop{})

	id, err := ix.IndexOne(context.Background(), deploySource(), false)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.upserts)
}

func TestIndexOneResolvesApprovedRequests(t *testing.T) {
	store := newFakeStore()
	store.requests = []models.AddRequest{
		{ID: "req-1", Owner: "alice", Repo: "kit", Status: models.RequestStatusApproved, Email: "a@example.com", Locale: "en"},
		{ID: "req-2", Owner: "alice", Repo: "kit", Status: models.RequestStatusPending, Email: "b@example.com"},
	}
	notifier := &fakeNotifier{}
	ix := newTestIndexer(store, &fakeSearch{}, notifier)

	id, err := ix.IndexOne(context.Background(), deploySource(), false)
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusIndexed, store.transitions["req-1"])
	_, touched := store.transitions["req-2"]
	assert.False(t, touched, "pending requests are left alone")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, id, notifier.sent[0].ID)
	assert.Equal(t, "https://github.com/alice/kit", notifier.sent[0].RepoURL)
}

func TestIndexAllIsolatesPerSourceFailures(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})

	sources := []models.SkillSource{
		{Owner: "gone", Repo: "deleted", Convention: models.ConventionSkill},
		deploySource(),
	}
	sum := ix.IndexAll(context.Background(), sources, false)

	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Indexed)
	assert.Equal(t, []string{"alice/kit/deploy-helper"}, sum.IDs)
}

func TestIndexAllStopsOnRateLimitExhaustion(t *testing.T) {
	store := newFakeStore()
	ix := newTestIndexer(store, &fakeSearch{}, notify.Noop{})
	ix.fetcher.(*fakeFetcher).err = &scraper.RateLimitExhaustedError{}

	sources := []models.SkillSource{deploySource(), deploySource(), deploySource()}
	sum := ix.IndexAll(context.Background(), sources, false)

	assert.Equal(t, 1, sum.Failed, "batch stops at the first exhaustion")
	assert.Zero(t, sum.Indexed)
}
