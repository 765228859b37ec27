// internal/repository/cache/progress_repo.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const progressTTL = 30 * 24 * time.Hour

// ProgressRepository keeps procedure checklist progress in Redis sets
type ProgressRepository struct {
	client redis.UniversalClient
}

func NewProgressRepository(client redis.UniversalClient) *ProgressRepository {
	return &ProgressRepository{client: client}
}

// Completed returns the completed step ids (unordered)
func (r *ProgressRepository) Completed(ctx context.Context, userID, procedureID string) ([]string, error) {
	steps, err := r.client.SMembers(ctx, progressKey(userID, procedureID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return steps, nil
}

// Toggle flips a step and reports whether it is now completed
func (r *ProgressRepository) Toggle(ctx context.Context, userID, procedureID, stepID string) (bool, error) {
	key := progressKey(userID, procedureID)

	removed, err := r.client.SRem(ctx, key, stepID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to toggle step: %w", err)
	}

	completed := removed == 0
	if completed {
		if err := r.client.SAdd(ctx, key, stepID).Err(); err != nil {
			return false, fmt.Errorf("failed to toggle step: %w", err)
		}
	}

	r.client.Expire(ctx, key, progressTTL)
	return completed, nil
}

func (r *ProgressRepository) Reset(ctx context.Context, userID, procedureID string) error {
	if err := r.client.Del(ctx, progressKey(userID, procedureID)).Err(); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

func progressKey(userID, procedureID string) string {
	return fmt.Sprintf("procedure:progress:%s:%s", userID, procedureID)
}
