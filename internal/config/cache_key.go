package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LeaderboardKey returns the cache key for an exam's ranked leaderboard.
// Invalidated on every submit and manual grade for that exam.
func (r *CacheKeyStruct) LeaderboardKey(examID string) string {
	return fmt.Sprintf("exam:%s:leaderboard", examID)
}

// SubmissionChannel returns the Redis PubSub channel carrying submission
// events for an exam, consumed by the teacher monitor stream.
func (r *CacheKeyStruct) SubmissionChannel(examID string) string {
	return fmt.Sprintf("exam:%s:submissions", examID)
}

var CacheKey = NewCacheKeyStruct()
