package quizsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

// CachedSource caches quiz metadata in Redis. Participation lists always go to
// the underlying source so aggregates are computed from fresh data.
type CachedSource struct {
	next   Source
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger
}

// NewCachedSource wraps next. A nil cache disables caching but keeps
// concurrent GetQuiz calls for the same quiz collapsed.
func NewCachedSource(next Source, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "quiz_source_cache").Logger(),
	}
}

// ListQuizzes is not cached: the list changes whenever a quiz is created.
func (s *CachedSource) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.next.ListQuizzes(ctx)
}

// ListParticipations always reads through.
func (s *CachedSource) ListParticipations(ctx context.Context, quizID string) ([]models.Participation, error) {
	return s.next.ListParticipations(ctx, quizID)
}

// GetQuiz serves quiz metadata from the cache when present. Entries are scoped
// to the caller so one professor never sees another's cached quiz.
func (s *CachedSource) GetQuiz(ctx context.Context, quizID string) (models.Quiz, error) {
	key := fmt.Sprintf("quizsource:quiz:%s:%s", callerScope(ctx), quizID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var quiz models.Quiz
			if unmarshalErr := json.Unmarshal(cached, &quiz); unmarshalErr == nil {
				return quiz, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("failed to read quiz cache")
		}
	}

	// The shared call outlives any single caller; waiters must not inherit the
	// first caller's cancellation.
	shared := context.WithoutCancel(ctx)
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		quiz, err := s.next.GetQuiz(shared, quizID)
		if err != nil {
			return models.Quiz{}, err
		}
		s.store(shared, key, quiz)
		return quiz, nil
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return value.(models.Quiz), nil
}

func (s *CachedSource) store(ctx context.Context, key string, quiz models.Quiz) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store quiz cache")
	}
}

func callerScope(ctx context.Context) string {
	if id, ok := ProfessorID(ctx); ok {
		return "user-" + strconv.FormatUint(uint64(id), 10)
	}
	if token := BearerToken(ctx); token != "" {
		sum := sha256.Sum256([]byte(token))
		return "token-" + hex.EncodeToString(sum[:8])
	}
	return "anonymous"
}
