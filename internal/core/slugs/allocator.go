package slugs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/gosimple/slug"
)

const (
	// DefaultMaxAttempts is the attempt budget used when none is configured
	DefaultMaxAttempts = 10

	// suffixAlphabet is the character set for random suffixes.
	// Lowercase and digits only so suffixed candidates stay valid slugs.
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// suffixBaseLength is added to the attempt index to get the suffix length
	suffixBaseLength = 2
)

// CommitFunc performs the conditional write that claims a candidate.
// It must return ErrTaken (possibly wrapped) when the candidate violates the
// uniqueness constraint. Any other error aborts the allocation.
type CommitFunc func(ctx context.Context, candidate string) error

// SuffixFunc returns a random suffix of the requested length
type SuffixFunc func(length int) string

// Allocator claims human-readable unique slugs by probing suffixed candidates.
// The store's unique constraint is the only arbiter: two callers racing on the
// same base text both attempt a conditional write and exactly one wins each candidate.
type Allocator struct {
	suffix      SuffixFunc
	logger      *slog.Logger
	maxAttempts int
}

// NewAllocator creates an allocator with the given attempt budget
func NewAllocator(maxAttempts int, logger *slog.Logger) *Allocator {
	return NewAllocatorWithSuffix(maxAttempts, RandomSuffix, logger)
}

// NewAllocatorWithSuffix creates an allocator with a custom suffix source.
// Tests use it to force deterministic collisions.
func NewAllocatorWithSuffix(maxAttempts int, suffix SuffixFunc, logger *slog.Logger) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if suffix == nil {
		suffix = RandomSuffix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{
		maxAttempts: maxAttempts,
		suffix:      suffix,
		logger:      logger,
	}
}

// Allocate normalizes text and commits candidates until one sticks.
// Returns the committed slug, ErrAllocationFailed when the budget runs out,
// or the first non-collision error returned by commit.
func (a *Allocator) Allocate(ctx context.Context, text string, commit CommitFunc) (string, error) {
	base := Normalize(text)

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := Candidate(base, attempt, a.suffix)

		err := commit(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrTaken) {
			return "", err
		}

		a.logger.Info("slug collision, retrying",
			"candidate", candidate,
			"attempt", attempt,
			"max_attempts", a.maxAttempts)
	}

	return "", fmt.Errorf("%w: %q exhausted %d attempts", ErrAllocationFailed, base, a.maxAttempts)
}

// Normalize derives the bare candidate from free text: lowercase,
// dash-separated, reserved characters stripped. May return "".
func Normalize(text string) string {
	return slug.Make(strings.TrimSpace(text))
}

// Candidate returns the slug to try on the given 1-based attempt.
// Attempt 1 is the bare base; later attempts append a suffix that grows
// with the attempt index. An empty base always gets a suffix so the
// allocator never commits an empty unique key.
func Candidate(base string, attempt int, suffix SuffixFunc) string {
	if attempt <= 1 && base != "" {
		return base
	}

	s := suffix(SuffixLength(attempt))
	if base == "" {
		return s
	}
	return base + "-" + s
}

// SuffixLength is the random suffix length used on the given attempt
func SuffixLength(attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	return suffixBaseLength + attempt
}

// RandomSuffix returns length random characters from the slug alphabet
func RandomSuffix(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return b.String()
}
