package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillscout/skillscout/internal/models"
)

// UpsertSkill creates or updates a skill record. Only pipeline-owned fields
// are updated on conflict; moderation state (is_blocked, is_duplicate,
// review_status) is preserved so re-indexing never un-retires a record.
func (db *DB) UpsertSkill(skill *models.SkillRecord) error {
	skill.IndexedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "content",
			"owner", "repo", "path", "branch", "convention",
			"content_fingerprint",
			"security_score", "security_status",
			"quality_score", "docs_score", "maintenance_score", "popularity_score",
			"star_count", "fork_count",
			"indexed_at", "updated_at",
			// NOT updated: is_blocked, is_duplicate, review_status
		}),
	}).Create(skill).Error
}

// GetSkill retrieves a skill by ID. Returns nil when not found.
func (db *DB) GetSkill(id string) (*models.SkillRecord, error) {
	var skill models.SkillRecord
	err := db.First(&skill, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

// BrowseReady returns records eligible for downstream listing: not blocked,
// not duplicate. Ordered by popularity.
func (db *DB) BrowseReady(limit, offset int) ([]models.SkillRecord, error) {
	var skills []models.SkillRecord
	err := db.Where("is_blocked = ? AND is_duplicate = ?", false, false).
		Order("star_count DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&skills).Error
	return skills, err
}

// GetSkillsByRepo returns all records indexed from one repository.
func (db *DB) GetSkillsByRepo(owner, repo string) ([]models.SkillRecord, error) {
	var skills []models.SkillRecord
	err := db.Where("LOWER(owner) = LOWER(?) AND LOWER(repo) = LOWER(?)", owner, repo).
		Order("id ASC").
		Find(&skills).Error
	return skills, err
}

// ListSkillsPage returns one stable-ordered page of all records, for bulk
// resynchronization of the secondary index.
func (db *DB) ListSkillsPage(limit, offset int) ([]models.SkillRecord, error) {
	var skills []models.SkillRecord
	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&skills).Error
	return skills, err
}

// CountSkills returns the total record count.
func (db *DB) CountSkills() (int64, error) {
	var count int64
	err := db.Model(&models.SkillRecord{}).Count(&count).Error
	return count, err
}

// SetBlocked flips the blocked moderation flag.
func (db *DB) SetBlocked(id string, blocked bool) error {
	return db.Model(&models.SkillRecord{}).
		Where("id = ?", id).
		Update("is_blocked", blocked).Error
}

// SetDuplicate flips the duplicate moderation flag.
func (db *DB) SetDuplicate(id string, duplicate bool) error {
	return db.Model(&models.SkillRecord{}).
		Where("id = ?", id).
		Update("is_duplicate", duplicate).Error
}
