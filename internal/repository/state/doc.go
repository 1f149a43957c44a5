// Package state persists the alarm configuration.
//
// The record is a flat JSON document:
//
//	{"version": 1, "enabled": true, "hour": 7, "minute": 30, "week_days": 42}
//
// where bit i of week_days enables weekday i (Sunday = 0). FileRepository
// stores it in a single file replaced atomically on save; SQLiteRepository
// stores the same document in a key/value table. Both implement Repository.
package state
