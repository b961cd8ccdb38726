package db

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillscout/skillscout/internal/models"
)

// CreateAddRequest stores a new add request in pending state.
func (db *DB) CreateAddRequest(req *models.AddRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.RequestStatusPending
	}
	return db.Create(req).Error
}

// GetAddRequest retrieves a request by ID. Returns nil when not found.
func (db *DB) GetAddRequest(id string) (*models.AddRequest, error) {
	var req models.AddRequest
	err := db.First(&req, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// FindApprovedRequestsByRepo returns approved requests referencing a repo.
// The indexer resolves these to indexed when it successfully indexes a skill
// from the repository.
func (db *DB) FindApprovedRequestsByRepo(owner, repo string) ([]models.AddRequest, error) {
	var requests []models.AddRequest
	err := db.Where("status = ? AND LOWER(owner) = LOWER(?) AND LOWER(repo) = LOWER(?)",
		models.RequestStatusApproved, owner, repo).
		Find(&requests).Error
	return requests, err
}

// UpdateRequestStatus transitions a request and attaches the resulting
// skill ID when it reaches indexed.
func (db *DB) UpdateRequestStatus(id string, status models.RequestStatus, indexedSkillID string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid request status %q", status)
	}
	updates := map[string]interface{}{"status": status}
	if indexedSkillID != "" {
		updates["indexed_skill_id"] = indexedSkillID
	}
	return db.Model(&models.AddRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ApproveRequest moves a pending request to approved.
func (db *DB) ApproveRequest(id string) error {
	result := db.Model(&models.AddRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Update("status", models.RequestStatusApproved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("request %s is not pending", id)
	}
	return nil
}

// ListRequests returns requests filtered by status; empty status means all.
func (db *DB) ListRequests(status models.RequestStatus) ([]models.AddRequest, error) {
	var requests []models.AddRequest
	query := db.Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&requests).Error
	return requests, err
}
