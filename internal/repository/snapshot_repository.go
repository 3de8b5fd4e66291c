package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uniplan/timetable-api/internal/models"
)

const snapshotKey = "timetable:latest"

// SnapshotRepository stores the latest timetable snapshot behind the opaque
// load/save persistence boundary. An absent key means no prior schedule.
type SnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository creates a redis-backed snapshot store. A zero TTL
// keeps snapshots until they are replaced or cleared.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{client: client, ttl: ttl}
}

// Save serialises and stores the snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *models.TimetableSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, snapshotKey, payload, r.ttl).Err()
}

// Load returns the stored snapshot, or nil when none exists.
func (r *SnapshotRepository) Load(ctx context.Context) (*models.TimetableSnapshot, error) {
	payload, err := r.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snapshot models.TimetableSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Delete removes the stored snapshot.
func (r *SnapshotRepository) Delete(ctx context.Context) error {
	return r.client.Del(ctx, snapshotKey).Err()
}
