package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillscout/skillscout/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func sampleSkill(id string) *models.SkillRecord {
	return &models.SkillRecord{
		ID:                 id,
		Name:               "pdf-extraction",
		Description:        "Extract text from pdf files",
		Content:            "# PDF Extraction\n\nInstructions here.",
		Owner:              "anthropics",
		Repo:               "skills",
		Path:               "pdf",
		Branch:             "main",
		Convention:         models.ConventionSkill,
		ContentFingerprint: "fp-1",
		StarCount:          42,
	}
}

func TestUpsertSkillCreateAndUpdate(t *testing.T) {
	database := newTestDB(t)

	skill := sampleSkill("anthropics/skills/pdf-extraction")
	require.NoError(t, database.UpsertSkill(skill))

	got, err := database.GetSkill(skill.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pdf-extraction", got.Name)
	assert.False(t, got.IndexedAt.IsZero())

	skill.Description = "updated"
	skill.ContentFingerprint = "fp-2"
	require.NoError(t, database.UpsertSkill(skill))

	got, err = database.GetSkill(skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)
	assert.Equal(t, "fp-2", got.ContentFingerprint)
}

func TestUpsertSkillPreservesModerationState(t *testing.T) {
	database := newTestDB(t)

	skill := sampleSkill("anthropics/skills/pdf-extraction")
	require.NoError(t, database.UpsertSkill(skill))
	require.NoError(t, database.SetBlocked(skill.ID, true))
	require.NoError(t, database.SetDuplicate(skill.ID, true))

	// Re-index attempt with fresh moderation defaults must not un-retire.
	fresh := sampleSkill(skill.ID)
	fresh.ReviewStatus = models.ReviewStatusNone
	require.NoError(t, database.UpsertSkill(fresh))

	got, err := database.GetSkill(skill.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBlocked)
	assert.True(t, got.IsDuplicate)
}

func TestGetSkillNotFoundReturnsNil(t *testing.T) {
	database := newTestDB(t)

	got, err := database.GetSkill("missing/skill/id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBrowseReadyFiltersRetiredRecords(t *testing.T) {
	database := newTestDB(t)

	visible := sampleSkill("a/r/visible")
	blocked := sampleSkill("a/r/blocked")
	duplicate := sampleSkill("a/r/duplicate")
	for _, s := range []*models.SkillRecord{visible, blocked, duplicate} {
		require.NoError(t, database.UpsertSkill(s))
	}
	require.NoError(t, database.SetBlocked(blocked.ID, true))
	require.NoError(t, database.SetDuplicate(duplicate.ID, true))

	skills, err := database.BrowseReady(10, 0)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, visible.ID, skills[0].ID)
}

func TestAddRequestLifecycle(t *testing.T) {
	database := newTestDB(t)

	req := &models.AddRequest{Owner: "Anthropics", Repo: "Skills", UserID: "u1", Email: "u1@example.com"}
	require.NoError(t, database.CreateAddRequest(req))
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	// Pending requests are not picked up by the indexer.
	approved, err := database.FindApprovedRequestsByRepo("anthropics", "skills")
	require.NoError(t, err)
	assert.Empty(t, approved)

	require.NoError(t, database.ApproveRequest(req.ID))

	// Lookup is case-insensitive on owner/repo.
	approved, err = database.FindApprovedRequestsByRepo("anthropics", "skills")
	require.NoError(t, err)
	require.Len(t, approved, 1)

	require.NoError(t, database.UpdateRequestStatus(req.ID, models.RequestStatusIndexed, "anthropics/skills/pdf"))

	got, err := database.GetAddRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusIndexed, got.Status)
	assert.Equal(t, "anthropics/skills/pdf", got.IndexedSkillID)
}

func TestApproveRequestRequiresPending(t *testing.T) {
	database := newTestDB(t)

	req := &models.AddRequest{Owner: "o", Repo: "r", Status: models.RequestStatusApproved}
	require.NoError(t, database.CreateAddRequest(req))

	assert.Error(t, database.ApproveRequest(req.ID))
}

func TestLinkCategoriesKeywordMatch(t *testing.T) {
	database := newTestDB(t)

	skill := sampleSkill("anthropics/skills/pdf-extraction")
	require.NoError(t, database.UpsertSkill(skill))

	require.NoError(t, database.LinkCategories(skill.ID, skill.Name, skill.Description))

	categories, err := database.GetSkillCategories(skill.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "documents", categories[0].ID)

	// Relinking with different text replaces the association set.
	require.NoError(t, database.LinkCategories(skill.ID, "sql-helper", "run sql against a database"))
	categories, err = database.GetSkillCategories(skill.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "data", categories[0].ID)
}

func TestRescanEligibility(t *testing.T) {
	database := newTestDB(t)

	eligible := sampleSkill("a/r/eligible")
	eligible.StarCount = 5
	popular := sampleSkill("a/r/popular")
	popular.StarCount = 500
	scored := sampleSkill("a/r/scored")
	scored.SecurityStatus = models.SecurityStatusPass
	blocked := sampleSkill("a/r/blocked")
	empty := sampleSkill("a/r/empty")
	empty.Content = ""

	for _, s := range []*models.SkillRecord{eligible, popular, scored, blocked, empty} {
		require.NoError(t, database.UpsertSkill(s))
	}
	require.NoError(t, database.SetBlocked(blocked.ID, true))

	count, err := database.CountEligibleForRescan()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	page, err := database.EligibleForRescan(10, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// Popularity-descending so high-visibility rows go first.
	assert.Equal(t, popular.ID, page[0].ID)
	assert.Equal(t, eligible.ID, page[1].ID)

	rest, err := database.EligibleForRescan(10, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, eligible.ID, rest[0].ID)
}

func TestUpdateSecurityScoreSetsAutoReviewOnlyWhenUnset(t *testing.T) {
	database := newTestDB(t)

	auto := sampleSkill("a/r/auto")
	require.NoError(t, database.UpsertSkill(auto))
	require.NoError(t, database.UpdateSecurityScore(auto.ID, 4, models.SecurityStatusWarning))

	got, err := database.GetSkill(auto.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SecurityStatusWarning, got.SecurityStatus)
	assert.Equal(t, 4, got.SecurityScore)
	assert.Equal(t, models.ReviewStatusAuto, got.ReviewStatus)

	// A manual review decision is left untouched.
	manual := sampleSkill("a/r/manual")
	require.NoError(t, database.UpsertSkill(manual))
	require.NoError(t, database.Model(&models.SkillRecord{}).
		Where("id = ?", manual.ID).
		Update("review_status", models.ReviewStatusManual).Error)

	require.NoError(t, database.UpdateSecurityScore(manual.ID, 0, models.SecurityStatusPass))
	got, err = database.GetSkill(manual.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusManual, got.ReviewStatus)
}

func TestSyncMetaRoundTrip(t *testing.T) {
	database := newTestDB(t)

	val, err := database.GetSyncMeta(SyncMetaLastIndex)
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, database.SetSyncMeta(SyncMetaLastIndex, "2026-08-31T00:00:00Z"))
	require.NoError(t, database.SetSyncMeta(SyncMetaLastIndex, "2026-08-31T01:00:00Z"))

	val, err = database.GetSyncMeta(SyncMetaLastIndex)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31T01:00:00Z", val)
}
