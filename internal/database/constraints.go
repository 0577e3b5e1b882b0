package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// acceptedPairIndexSQL allows one accepted edge per unordered pair. CASE is
// used instead of LEAST/GREATEST so the same statement runs on SQLite.
const acceptedPairIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_requests_accepted_pair ON friend_requests (
	(CASE WHEN sender_id < recipient_id THEN sender_id ELSE recipient_id END),
	(CASE WHEN sender_id < recipient_id THEN recipient_id ELSE sender_id END)
) WHERE status = 'accepted'`

// EnsureConstraints creates the constraints GORM struct tags cannot express.
func EnsureConstraints(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(acceptedPairIndexSQL).Error; err != nil {
		return fmt.Errorf("create accepted pair index: %w", err)
	}
	return nil
}
