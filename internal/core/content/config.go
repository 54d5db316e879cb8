package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config validation errors
var (
	// ErrInvalidCapacity is returned when a collection capacity is not positive
	ErrInvalidCapacity = errors.New("capacity must be positive")
	// ErrInvalidAttempts is returned when a slug attempt budget is not positive
	ErrInvalidAttempts = errors.New("slug attempts must be positive")
	// ErrInvalidPageLimit is returned when page limits are not positive or default exceeds max
	ErrInvalidPageLimit = errors.New("page limits must be positive and default must not exceed max")
	// ErrInvalidCounterTimeout is returned when CounterTimeout is not positive
	ErrInvalidCounterTimeout = errors.New("CounterTimeout must be positive")
)

// Config holds the tunables of the content service
type Config struct {
	// ReplyCapacity is the maximum number of replies embedded in one comment
	ReplyCapacity int

	// ReactionCapacity is the maximum number of users in one post's reaction set
	ReactionCapacity int

	// PostSlugAttempts bounds slug allocation for posts
	PostSlugAttempts int

	// TopicSlugAttempts bounds slug allocation for topics
	TopicSlugAttempts int

	// PageDefaultLimit is used when a list request gives no limit
	PageDefaultLimit int

	// PageMaxLimit caps the limit of any list request
	PageMaxLimit int

	// CounterTimeout bounds each counter adjustment
	CounterTimeout time.Duration
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if c.ReplyCapacity <= 0 {
		return fmt.Errorf("%w: ReplyCapacity got %d", ErrInvalidCapacity, c.ReplyCapacity)
	}
	if c.ReactionCapacity <= 0 {
		return fmt.Errorf("%w: ReactionCapacity got %d", ErrInvalidCapacity, c.ReactionCapacity)
	}
	if c.PostSlugAttempts <= 0 {
		return fmt.Errorf("%w: PostSlugAttempts got %d", ErrInvalidAttempts, c.PostSlugAttempts)
	}
	if c.TopicSlugAttempts <= 0 {
		return fmt.Errorf("%w: TopicSlugAttempts got %d", ErrInvalidAttempts, c.TopicSlugAttempts)
	}
	if c.PageDefaultLimit <= 0 || c.PageMaxLimit <= 0 || c.PageDefaultLimit > c.PageMaxLimit {
		return fmt.Errorf("%w: default %d, max %d", ErrInvalidPageLimit, c.PageDefaultLimit, c.PageMaxLimit)
	}
	if c.CounterTimeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCounterTimeout, c.CounterTimeout)
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ReplyCapacity:     100,
		ReactionCapacity:  100,
		PostSlugAttempts:  10,
		TopicSlugAttempts: 20,
		PageDefaultLimit:  20,
		PageMaxLimit:      100,
		CounterTimeout:    5 * time.Second,
	}
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid environment variables.
//
// Environment variables:
//   - REPLY_CAPACITY: max replies per comment (default: 100)
//   - REACTION_CAPACITY: max reacting users per post (default: 100)
//   - POST_SLUG_ATTEMPTS: slug attempts for posts (default: 10)
//   - TOPIC_SLUG_ATTEMPTS: slug attempts for topics (default: 20)
//   - PAGE_DEFAULT_LIMIT: default page size (default: 20)
//   - PAGE_MAX_LIMIT: max page size (default: 100)
//   - COUNTER_TIMEOUT_SECONDS: timeout for each counter update (default: 5)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	positiveInt("REPLY_CAPACITY", &cfg.ReplyCapacity)
	positiveInt("REACTION_CAPACITY", &cfg.ReactionCapacity)
	positiveInt("POST_SLUG_ATTEMPTS", &cfg.PostSlugAttempts)
	positiveInt("TOPIC_SLUG_ATTEMPTS", &cfg.TopicSlugAttempts)
	positiveInt("PAGE_DEFAULT_LIMIT", &cfg.PageDefaultLimit)
	positiveInt("PAGE_MAX_LIMIT", &cfg.PageMaxLimit)

	if v := os.Getenv("COUNTER_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CounterTimeout = time.Duration(n) * time.Second
		} else {
			slog.Warn("[CONTENT] invalid COUNTER_TIMEOUT_SECONDS value, using default",
				"value", v,
				"default_seconds", int(cfg.CounterTimeout.Seconds()),
				"error", err,
			)
		}
	}

	return cfg
}

func positiveInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err == nil && n > 0 {
		*dst = n
		return
	}
	slog.Warn("[CONTENT] invalid "+key+" value, using default",
		"value", v,
		"default", *dst,
		"error", err,
	)
}
