package db

import (
	"gorm.io/gorm"

	"github.com/skillscout/skillscout/internal/models"
)

// rescanEligible scopes records the batch rescan targets: browse-visible
// moderation state, a known convention, content present, and no security
// verdict yet.
func (db *DB) rescanEligible() *gorm.DB {
	return db.Model(&models.SkillRecord{}).
		Where("is_blocked = ? AND is_duplicate = ?", false, false).
		Where("convention IN ?", models.AllConventions()).
		Where("security_status = ? OR security_status IS NULL", "").
		Where("content <> ''")
}

// EligibleForRescan returns one page of records awaiting a security verdict,
// ordered by popularity descending so high-visibility records are scored
// first. offset skips rows that stayed eligible after a failed scan; scored
// rows drop out of the query on their own.
func (db *DB) EligibleForRescan(limit, offset int) ([]models.SkillRecord, error) {
	var skills []models.SkillRecord
	err := db.rescanEligible().
		Order("star_count DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&skills).Error
	return skills, err
}

// CountEligibleForRescan counts records awaiting a security verdict.
func (db *DB) CountEligibleForRescan() (int64, error) {
	var count int64
	err := db.rescanEligible().Count(&count).Error
	return count, err
}

// UpdateSecurityScore writes a rescan verdict. review_status moves to auto
// only when previously unset, so manual review decisions survive rescans.
func (db *DB) UpdateSecurityScore(id string, score int, status models.SecurityStatus) error {
	err := db.Model(&models.SkillRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"security_score":  score,
			"security_status": status,
		}).Error
	if err != nil {
		return err
	}
	return db.Model(&models.SkillRecord{}).
		Where("id = ? AND (review_status = ? OR review_status IS NULL)", id, "").
		Update("review_status", models.ReviewStatusAuto).Error
}
