package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Keys for the rendered views that must be refreshed after writes.
func HistoryKey(userID string) string  { return "dashboard:history:" + userID }
func SettingsKey(userID string) string { return "settings:profile:" + userID }
