package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
)

// FreshnessWindow is how long a cached snapshot is trusted without refetching.
const FreshnessWindow = 5 * time.Minute

const keyPrefix = "sp:dataset:"

// Key returns the fixed cache key of a dataset family.
func Key(datasetName string) string {
	return keyPrefix + datasetName
}

// Envelope is what every store persists: the snapshot and when it was written.
type Envelope struct {
	Data      dataset.Snapshot `json:"data"`
	Timestamp int64            `json:"timestamp"`
}

// NewEnvelope stamps snapshot with now in epoch milliseconds.
func NewEnvelope(snapshot dataset.Snapshot, now time.Time) Envelope {
	return Envelope{Data: snapshot, Timestamp: now.UnixMilli()}
}

// StoredAt converts the timestamp back into a time.
func (e Envelope) StoredAt() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// Age is how long ago the envelope was written.
func (e Envelope) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.Timestamp) * time.Millisecond
}

// IsFresh reports whether the envelope is younger than window.
func (e Envelope) IsFresh(now time.Time, window time.Duration) bool {
	return e.Age(now) < window
}

// Store is the cache port the fetch orchestrator depends on. Read reports a
// missing, unreachable or undecodable entry as absent. Write errors are the
// caller's to log; they never fail a fetch.
type Store interface {
	Read(ctx context.Context, key string) (Envelope, bool)
	Write(ctx context.Context, key string, env Envelope) error
}

func encode(env Envelope) ([]byte, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return body, nil
}

func decode(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
