package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"talknest/internal/models"

	"gorm.io/gorm"
)

// FriendRepository is the Relationship Store: directed friend request
// edges whose status is pending or accepted.
type FriendRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	FindPending(ctx context.Context, senderID, recipientID uint) (*models.FriendRequest, error)
	FindAccepted(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.FriendRequest, error)
	ListIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListOutgoing(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListFriends(ctx context.Context, userID uint, search string) ([]models.User, error)
	Accept(ctx context.Context, id, recipientID uint) (*models.FriendRequest, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteAcceptedBetween(ctx context.Context, userID1, userID2 uint) (int64, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// publicUserColumns limits preloaded counterparts to their public fields.
func publicUserColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "full_name", "profile_pic")
}

const pairClause = "((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))"

// Create inserts a pending edge. The storage constraints turn lost races
// and self requests into typed errors.
func (r *friendRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		switch {
		case isUniqueConstraintError(err):
			return models.NewConflictError(models.ReasonDuplicatePending, "Friend request already sent")
		case isCheckConstraintError(err):
			return models.NewSelfReferenceError("You cannot send a friend request to yourself")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

// FindPending returns the pending edge sender→recipient, or nil.
func (r *friendRepository) FindPending(ctx context.Context, senderID, recipientID uint) (*models.FriendRequest, error) {
	return r.first(ctx, r.db.WithContext(ctx).
		Where("sender_id = ? AND recipient_id = ? AND status = ?", senderID, recipientID, models.FriendRequestStatusPending))
}

// FindAccepted returns the accepted edge between the pair in either direction, or nil.
func (r *friendRepository) FindAccepted(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	return r.first(ctx, r.db.WithContext(ctx).
		Where(pairClause, userID1, userID2, userID2, userID1).
		Where("status = ?", models.FriendRequestStatusAccepted))
}

func (r *friendRepository) first(_ context.Context, q *gorm.DB) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := q.First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

// GetBetweenUsers returns every edge between the pair, oldest first.
func (r *friendRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where(pairClause, userID1, userID2, userID2, userID1).
		Order("id ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *friendRepository) ListIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Preload("Sender", publicUserColumns).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *friendRepository) ListOutgoing(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Preload("Recipient", publicUserColumns).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// ListFriends resolves accepted edges touching userID to the other party,
// sorted by name and optionally filtered by a case-insensitive name or
// email substring. Case folding uses strings.ToLower, not SQL LOWER.
func (r *friendRepository) ListFriends(ctx context.Context, userID uint, search string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN friend_requests f ON ((f.sender_id = ? AND f.recipient_id = users.id) OR (f.recipient_id = ? AND f.sender_id = users.id))", userID, userID).
		Where("f.status = ?", models.FriendRequestStatusAccepted).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	term := strings.ToLower(strings.TrimSpace(search))
	friends := make([]models.User, 0, len(users))
	for _, u := range users {
		if term == "" ||
			strings.Contains(strings.ToLower(u.FullName), term) ||
			strings.Contains(strings.ToLower(u.Email), term) {
			friends = append(friends, u)
		}
	}

	sort.SliceStable(friends, func(i, j int) bool {
		a, b := strings.ToLower(friends[i].FullName), strings.ToLower(friends[j].FullName)
		if a != b {
			return a < b
		}
		return friends[i].ID < friends[j].ID
	})
	return friends, nil
}

// Accept moves a pending edge addressed to recipientID to accepted and
// drops the mutual pending edge in the opposite direction, in one
// transaction. No matching pending row yields NotFound.
func (r *friendRepository) Accept(ctx context.Context, id, recipientID uint) (*models.FriendRequest, error) {
	var accepted models.FriendRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND recipient_id = ? AND status = ?", id, recipientID, models.FriendRequestStatusPending).
			Update("status", models.FriendRequestStatusAccepted)
		if result.Error != nil {
			if isUniqueConstraintError(result.Error) {
				return models.NewConflictError(models.ReasonAlreadyFriends, "You are already friends with this user")
			}
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Friend request", id)
		}

		if err := tx.First(&accepted, id).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.
			Where("sender_id = ? AND recipient_id = ? AND status = ?", accepted.RecipientID, accepted.SenderID, models.FriendRequestStatusPending).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &accepted, nil
}

// Delete removes the edge whatever its status and reports whether a row went away.
func (r *friendRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAcceptedBetween removes the accepted edge between the pair in a
// single statement and returns the number of rows deleted.
func (r *friendRepository) DeleteAcceptedBetween(ctx context.Context, userID1, userID2 uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where(pairClause, userID1, userID2, userID2, userID1).
		Where("status = ?", models.FriendRequestStatusAccepted).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
