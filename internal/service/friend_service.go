// Package service holds the business rules that sit between HTTP handlers
// and the repositories.
package service

import (
	"context"
	"errors"
	"log/slog"

	"talknest/internal/middleware"
	"talknest/internal/models"
	"talknest/internal/observability"
	"talknest/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FriendService runs the friend request state machine. Every operation
// takes the authenticated actor as self.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest creates a pending edge self→recipientID. A pending edge in
// the opposite direction does not block it.
func (s *FriendService) SendRequest(ctx context.Context, self, recipientID uint) (req *models.FriendRequest, err error) {
	ctx, span := observability.StartSpan(ctx, "FriendService", "SendRequest",
		attribute.Int64("user.id", int64(self)), attribute.Int64("recipient.id", int64(recipientID)))
	defer func() { observability.EndSpan(span, err) }()

	if recipientID == 0 {
		return nil, models.NewMissingFieldError("Recipient ID is required")
	}
	if recipientID == self {
		return nil, models.NewSelfReferenceError("You can't send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.FindPending(ctx, self, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(models.ReasonDuplicatePending, "Friend request already sent")
	}

	accepted, err := s.friendRepo.FindAccepted(ctx, self, recipientID)
	if err != nil {
		return nil, err
	}
	if accepted != nil {
		return nil, models.NewConflictError(models.ReasonAlreadyFriends, "You are already friends with this user")
	}

	req = &models.FriendRequest{
		SenderID:    self,
		RecipientID: recipientID,
		Status:      models.FriendRequestStatusPending,
	}
	if err := s.friendRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	observability.FriendTransitions.WithLabelValues("send").Inc()
	return req, nil
}

// AcceptRequest accepts a pending request addressed to self. Requests that
// do not exist or are addressed to someone else are both NotFound.
func (s *FriendService) AcceptRequest(ctx context.Context, self, requestID uint) (req *models.FriendRequest, err error) {
	ctx, span := observability.StartSpan(ctx, "FriendService", "AcceptRequest",
		attribute.Int64("user.id", int64(self)), attribute.Int64("request.id", int64(requestID)))
	defer func() { observability.EndSpan(span, err) }()

	if requestID == 0 {
		return nil, models.NewMissingFieldError("Request ID is required")
	}

	existing, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing.RecipientID != self {
		return nil, models.NewNotFoundError("Friend request", requestID)
	}
	if existing.Status != models.FriendRequestStatusPending {
		return nil, models.NewConflictError(models.ReasonNotPending, "Friend request is not pending")
	}

	friends, err := s.friendRepo.FindAccepted(ctx, existing.SenderID, existing.RecipientID)
	if err != nil {
		return nil, err
	}
	if friends != nil {
		return nil, models.NewConflictError(models.ReasonAlreadyFriends, "You are already friends with this user")
	}

	req, err = s.friendRepo.Accept(ctx, requestID, self)
	if err != nil {
		return nil, err
	}

	s.logCacheError(ctx, "accept", errors.Join(
		s.userRepo.AddFriendLink(ctx, req.SenderID, req.RecipientID),
		s.userRepo.AddFriendLink(ctx, req.RecipientID, req.SenderID),
	))

	observability.FriendTransitions.WithLabelValues("accept").Inc()
	return req, nil
}

// RejectOrCancel deletes a request self is party to, whatever its status.
// Deleting an accepted edge ends the friendship.
func (s *FriendService) RejectOrCancel(ctx context.Context, self, requestID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "FriendService", "RejectOrCancel",
		attribute.Int64("user.id", int64(self)), attribute.Int64("request.id", int64(requestID)))
	defer func() { observability.EndSpan(span, err) }()

	if requestID == 0 {
		return models.NewMissingFieldError("Request ID is required")
	}

	req, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.Involves(self) {
		return models.NewForbiddenError("Not authorized to reject this request")
	}

	deleted, err := s.friendRepo.Delete(ctx, requestID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Friend request", requestID)
	}

	if req.Status == models.FriendRequestStatusAccepted {
		s.logCacheError(ctx, "reject", errors.Join(
			s.userRepo.RemoveFriendLink(ctx, req.SenderID, req.RecipientID),
			s.userRepo.RemoveFriendLink(ctx, req.RecipientID, req.SenderID),
		))
	}

	observability.FriendTransitions.WithLabelValues("reject").Inc()
	return nil
}

// RemoveFriend deletes the accepted edge between self and friendID. Both
// friends-list entries are dropped even when no edge existed.
func (s *FriendService) RemoveFriend(ctx context.Context, self, friendID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "FriendService", "RemoveFriend",
		attribute.Int64("user.id", int64(self)), attribute.Int64("friend.id", int64(friendID)))
	defer func() { observability.EndSpan(span, err) }()

	if friendID == 0 {
		return models.NewMissingFieldError("Friend ID is required")
	}

	removed, err := s.friendRepo.DeleteAcceptedBetween(ctx, self, friendID)
	if err != nil {
		return err
	}

	s.logCacheError(ctx, "remove", errors.Join(
		s.userRepo.RemoveFriendLink(ctx, self, friendID),
		s.userRepo.RemoveFriendLink(ctx, friendID, self),
	))

	if removed == 0 {
		return models.NewNotFoundError("Friendship", friendID)
	}

	observability.FriendTransitions.WithLabelValues("remove").Inc()
	return nil
}

// ListIncoming returns pending requests addressed to self, newest first.
func (s *FriendService) ListIncoming(ctx context.Context, self uint) ([]models.FriendRequestView, error) {
	reqs, err := s.friendRepo.ListIncoming(ctx, self)
	if err != nil {
		return nil, err
	}
	views := make([]models.FriendRequestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, reqs[i].IncomingView())
	}
	return views, nil
}

// ListOutgoing returns pending requests sent by self, newest first.
func (s *FriendService) ListOutgoing(ctx context.Context, self uint) ([]models.FriendRequestView, error) {
	reqs, err := s.friendRepo.ListOutgoing(ctx, self)
	if err != nil {
		return nil, err
	}
	views := make([]models.FriendRequestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, reqs[i].OutgoingView())
	}
	return views, nil
}

// ListFriends returns self's friends sorted by name, filtered by search.
func (s *FriendService) ListFriends(ctx context.Context, self uint, search string) ([]models.PublicProfile, error) {
	users, err := s.friendRepo.ListFriends(ctx, self, search)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.PublicWithEmail())
	}
	return profiles, nil
}

// FriendshipStatus reports how self relates to otherID. The request id is
// set for pending states; a received request wins over a sent one so the
// caller can act on it.
func (s *FriendService) FriendshipStatus(ctx context.Context, self, otherID uint) (models.FriendshipState, uint, error) {
	if otherID == 0 {
		return "", 0, models.NewMissingFieldError("User ID is required")
	}
	if otherID == self {
		return "", 0, models.NewSelfReferenceError("Cannot check friendship status with yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return "", 0, err
	}

	edges, err := s.friendRepo.GetBetweenUsers(ctx, self, otherID)
	if err != nil {
		return "", 0, err
	}

	state, requestID := models.FriendshipStateNone, uint(0)
	for _, e := range edges {
		switch {
		case e.Status == models.FriendRequestStatusAccepted:
			return models.FriendshipStateFriends, 0, nil
		case e.RecipientID == self:
			state, requestID = models.FriendshipStatePendingReceived, e.ID
		case state == models.FriendshipStateNone:
			state, requestID = models.FriendshipStatePendingSent, e.ID
		}
	}
	return state, requestID, nil
}

func (s *FriendService) logCacheError(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	middleware.Logger.WarnContext(ctx, "friends list cache update failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
