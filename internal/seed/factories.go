// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"

	"talknest/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded user can log in with.
const DemoPassword = "password123"

var languages = []string{
	"english", "spanish", "french", "german", "italian", "portuguese",
	"japanese", "korean", "mandarin", "arabic", "hindi", "russian",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	hash  string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	return &Factory{db: db, opts: opts, faker: gofakeit.New(opts.RandomSeed)}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	if f.opts.SkipBcrypt {
		f.hash = DemoPassword
		return f.hash, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash demo password: %w", err)
	}
	f.hash = string(hashed)
	return f.hash, nil
}

// CreateUser constructs and persists an onboarded `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	native := languages[f.faker.Number(0, len(languages)-1)]
	learning := native
	for learning == native {
		learning = languages[f.faker.Number(0, len(languages)-1)]
	}

	user := &models.User{
		Email:            fmt.Sprintf("%s.%d@talknest.dev", f.faker.Username(), f.faker.Number(1000, 9999)),
		Password:         hash,
		FullName:         f.faker.Name(),
		ProfilePic:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Bio:              f.faker.Sentence(10),
		Location:         fmt.Sprintf("%s, %s", f.faker.City(), f.faker.Country()),
		NativeLanguage:   native,
		LearningLanguage: learning,
		IsOnboarded:      true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendRequest persists a pending request from sender to recipient.
func (f *Factory) CreateFriendRequest(sender, recipient *models.User) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Status:      models.FriendRequestStatusPending,
	}
	if err := f.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// MakeFriends records an accepted edge and both friend list entries.
func (f *Factory) MakeFriends(a, b *models.User) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		edge := &models.FriendRequest{
			SenderID:    a.ID,
			RecipientID: b.ID,
			Status:      models.FriendRequestStatusAccepted,
		}
		if err := tx.Create(edge).Error; err != nil {
			return err
		}
		links := []models.UserFriend{
			{UserID: a.ID, FriendID: b.ID},
			{UserID: b.ID, FriendID: a.ID},
		}
		return tx.Create(&links).Error
	})
}
