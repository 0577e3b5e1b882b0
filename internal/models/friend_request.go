package models

import (
	"time"
)

// FriendRequestStatus represents the status of a friend request edge.
type FriendRequestStatus string

const (
	// FriendRequestStatusPending indicates a request awaiting the recipient's decision.
	FriendRequestStatusPending FriendRequestStatus = "pending"
	// FriendRequestStatusAccepted indicates a confirmed friendship.
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is a directed edge between two users. Rejected or cancelled
// requests are deleted rather than stored with a terminal status.
//
// Storage enforces: sender_id <> recipient_id, one pending edge per ordered
// pair, and one accepted edge per unordered pair (see database.EnsureConstraints).
type FriendRequest struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	SenderID    uint                `gorm:"not null;index;uniqueIndex:idx_friend_requests_pending_pair,where:status = 'pending';check:chk_friend_requests_not_self,sender_id <> recipient_id" json:"sender_id"`
	RecipientID uint                `gorm:"not null;index;uniqueIndex:idx_friend_requests_pending_pair,where:status = 'pending'" json:"recipient_id"`
	Status      FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_friend_requests_status" json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Relationships
	Sender    User `gorm:"foreignKey:SenderID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Involves reports whether userID is the sender or the recipient.
func (f *FriendRequest) Involves(userID uint) bool {
	return f.SenderID == userID || f.RecipientID == userID
}

// Counterpart returns the id of the party that is not userID.
func (f *FriendRequest) Counterpart(userID uint) uint {
	if f.SenderID == userID {
		return f.RecipientID
	}
	return f.SenderID
}

// FriendRequestView is a request as listed to one of its parties, with the
// other party's public profile attached.
type FriendRequestView struct {
	ID          uint                `json:"id"`
	SenderID    uint                `json:"sender_id"`
	RecipientID uint                `json:"recipient_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Sender      *PublicProfile      `json:"sender,omitempty"`
	Recipient   *PublicProfile      `json:"recipient,omitempty"`
}

// IncomingView renders f for its recipient: only the sender profile is set.
func (f *FriendRequest) IncomingView() FriendRequestView {
	v := f.baseView()
	sender := f.Sender.Public()
	v.Sender = &sender
	return v
}

// OutgoingView renders f for its sender: only the recipient profile is set.
func (f *FriendRequest) OutgoingView() FriendRequestView {
	v := f.baseView()
	recipient := f.Recipient.Public()
	v.Recipient = &recipient
	return v
}

func (f *FriendRequest) baseView() FriendRequestView {
	return FriendRequestView{
		ID:          f.ID,
		SenderID:    f.SenderID,
		RecipientID: f.RecipientID,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// FriendshipState is the relationship between the caller and another user.
type FriendshipState string

const (
	FriendshipStateNone            FriendshipState = "none"
	FriendshipStatePendingSent     FriendshipState = "pending_sent"
	FriendshipStatePendingReceived FriendshipState = "pending_received"
	FriendshipStateFriends         FriendshipState = "friends"
)
