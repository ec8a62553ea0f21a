// Package session tracks the single active token of each user. A token is
// valid only while its id is the one recorded for its user.
package session

import (
	"context"
	"time"
)

type Store interface {
	// Activate records tokenID as the only live session of userID,
	// replacing any earlier one.
	Activate(ctx context.Context, userID uint, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, userID uint, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uint) error
}
