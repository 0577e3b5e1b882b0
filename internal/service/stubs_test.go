package service

import (
	"context"
	"errors"
	"sync"

	"talknest/internal/chat"
	"talknest/internal/models"
)

type friendRepoStub struct {
	createFn                func(context.Context, *models.FriendRequest) error
	getByIDFn               func(context.Context, uint) (*models.FriendRequest, error)
	findPendingFn           func(context.Context, uint, uint) (*models.FriendRequest, error)
	findAcceptedFn          func(context.Context, uint, uint) (*models.FriendRequest, error)
	getBetweenUsersFn       func(context.Context, uint, uint) ([]models.FriendRequest, error)
	listIncomingFn          func(context.Context, uint) ([]models.FriendRequest, error)
	listOutgoingFn          func(context.Context, uint) ([]models.FriendRequest, error)
	listFriendsFn           func(context.Context, uint, string) ([]models.User, error)
	acceptFn                func(context.Context, uint, uint) (*models.FriendRequest, error)
	deleteFn                func(context.Context, uint) (bool, error)
	deleteAcceptedBetweenFn func(context.Context, uint, uint) (int64, error)
}

func (s *friendRepoStub) Create(ctx context.Context, req *models.FriendRequest) error {
	return s.createFn(ctx, req)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) FindPending(ctx context.Context, senderID, recipientID uint) (*models.FriendRequest, error) {
	return s.findPendingFn(ctx, senderID, recipientID)
}
func (s *friendRepoStub) FindAccepted(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	return s.findAcceptedFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) ([]models.FriendRequest, error) {
	return s.getBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) ListIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.listIncomingFn(ctx, userID)
}
func (s *friendRepoStub) ListOutgoing(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.listOutgoingFn(ctx, userID)
}
func (s *friendRepoStub) ListFriends(ctx context.Context, userID uint, search string) ([]models.User, error) {
	return s.listFriendsFn(ctx, userID, search)
}
func (s *friendRepoStub) Accept(ctx context.Context, id, recipientID uint) (*models.FriendRequest, error) {
	return s.acceptFn(ctx, id, recipientID)
}
func (s *friendRepoStub) Delete(ctx context.Context, id uint) (bool, error) {
	return s.deleteFn(ctx, id)
}
func (s *friendRepoStub) DeleteAcceptedBetween(ctx context.Context, userID1, userID2 uint) (int64, error) {
	return s.deleteAcceptedBetweenFn(ctx, userID1, userID2)
}

type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, uint, map[string]interface{}) (*models.User, error)
	addFriendLinkFn    func(context.Context, uint, uint) error
	removeFriendLinkFn func(context.Context, uint, uint) error
	getFriendIDsFn     func(context.Context, uint) ([]uint, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.User, error) {
	return s.updateFn(ctx, id, fields)
}
func (s *userRepoStub) AddFriendLink(ctx context.Context, userID, friendID uint) error {
	return s.addFriendLinkFn(ctx, userID, friendID)
}
func (s *userRepoStub) RemoveFriendLink(ctx context.Context, userID, friendID uint) error {
	return s.removeFriendLinkFn(ctx, userID, friendID)
}
func (s *userRepoStub) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.getFriendIDsFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:          func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:       func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:           func(context.Context, *models.User) error { return nil },
		updateFn:           func(_ context.Context, id uint, _ map[string]interface{}) (*models.User, error) { return &models.User{ID: id}, nil },
		addFriendLinkFn:    func(context.Context, uint, uint) error { return nil },
		removeFriendLinkFn: func(context.Context, uint, uint) error { return nil },
		getFriendIDsFn:     func(context.Context, uint) ([]uint, error) { return []uint{}, nil },
	}
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn:                func(context.Context, *models.FriendRequest) error { return nil },
		getByIDFn:               func(context.Context, uint) (*models.FriendRequest, error) { return &models.FriendRequest{}, nil },
		findPendingFn:           func(context.Context, uint, uint) (*models.FriendRequest, error) { return nil, nil },
		findAcceptedFn:          func(context.Context, uint, uint) (*models.FriendRequest, error) { return nil, nil },
		getBetweenUsersFn:       func(context.Context, uint, uint) ([]models.FriendRequest, error) { return nil, nil },
		listIncomingFn:          func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
		listOutgoingFn:          func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
		listFriendsFn:           func(context.Context, uint, string) ([]models.User, error) { return nil, nil },
		acceptFn:                func(context.Context, uint, uint) (*models.FriendRequest, error) { return &models.FriendRequest{}, nil },
		deleteFn:                func(context.Context, uint) (bool, error) { return true, nil },
		deleteAcceptedBetweenFn: func(context.Context, uint, uint) (int64, error) { return 1, nil },
	}
}

// recordingBridge remembers upserted users and can be told to fail.
type recordingBridge struct {
	mu    sync.Mutex
	users []chat.User
	fail  bool
}

func (b *recordingBridge) UpsertUser(_ context.Context, u chat.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = append(b.users, u)
	if b.fail {
		return errors.New("chat service unavailable")
	}
	return nil
}

func (b *recordingBridge) calls() []chat.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]chat.User(nil), b.users...)
}
