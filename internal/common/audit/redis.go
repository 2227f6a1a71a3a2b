// internal/common/audit/redis.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"application-intake-bot/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisSink keeps the most recent entries in a capped list, plus the full
// history of each record under its own key.
type RedisSink struct {
	client     *redis.Client
	prefix     string
	maxEntries int64
}

func NewRedisSink(client *redis.Client, prefix string, maxEntries int64) *RedisSink {
	return &RedisSink{client: client, prefix: prefix, maxEntries: maxEntries}
}

func (s *RedisSink) recentKey() string { return s.prefix + ":recent" }

func (s *RedisSink) recordKey(recordID string) string { return s.prefix + ":record:" + recordID }

func (s *RedisSink) Record(ctx context.Context, e models.AuditEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, s.recentKey(), payload)
		if s.maxEntries > 0 {
			p.LTrim(ctx, s.recentKey(), 0, s.maxEntries-1)
		}
		p.RPush(ctx, s.recordKey(e.RecordID), payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push audit entry %s: %w", e.ID, err)
	}
	return nil
}

// History returns every entry written for recordID, oldest first.
func (s *RedisSink) History(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	return s.read(ctx, s.recordKey(recordID), -1)
}

// Recent returns up to n entries, newest first.
func (s *RedisSink) Recent(ctx context.Context, n int64) ([]models.AuditEntry, error) {
	return s.read(ctx, s.recentKey(), n-1)
}

func (s *RedisSink) read(ctx context.Context, key string, stop int64) ([]models.AuditEntry, error) {
	raw, err := s.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	out := make([]models.AuditEntry, 0, len(raw))
	for _, item := range raw {
		var e models.AuditEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode audit entry from %s: %w", key, err)
		}
		out = append(out, e)
	}
	return out, nil
}
