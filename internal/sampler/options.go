package sampler

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/wonny/tripsampler/internal/timeparse"
)

// Defaults carried over from the original batch script.
const (
	DefaultColumn = "tpep_pickup_datetime"
	DefaultSize   = 1
	DefaultSeed   = 42
)

// SeedMode decides how the per-bucket random generators relate to the run seed.
type SeedMode string

const (
	// SeedReset gives every bucket a fresh generator seeded with the run seed.
	SeedReset SeedMode = "reset"

	// SeedHashed seeds each bucket with xxhash(seed, bucket key); draws do not depend
	// on which buckets were visited before.
	SeedHashed SeedMode = "hashed"

	// SeedSequential shares one generator across all buckets in bucket order.
	SeedSequential SeedMode = "sequential"
)

// ParseSeedMode parses a seed mode name. Empty means SeedReset.
func ParseSeedMode(s string) (SeedMode, error) {
	switch SeedMode(s) {
	case "", SeedReset:
		return SeedReset, nil
	case SeedHashed, SeedSequential:
		return SeedMode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown seed mode %q", ErrInvalidOptions, s)
	}
}

// MalformedPolicy decides what happens to rows whose timestamp does not parse.
type MalformedPolicy string

const (
	MalformedReject MalformedPolicy = "reject" // whole run fails
	MalformedSkip   MalformedPolicy = "skip"   // row dropped and counted
)

// ParseMalformedPolicy parses a policy name. Empty means MalformedReject.
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(s) {
	case "", MalformedReject:
		return MalformedReject, nil
	case MalformedSkip:
		return MalformedSkip, nil
	default:
		return "", fmt.Errorf("%w: unknown malformed policy %q", ErrInvalidOptions, s)
	}
}

// Options configures a sampling run.
type Options struct {
	Column    string
	Size      int
	Seed      int64
	SeedMode  SeedMode
	Malformed MalformedPolicy
	Parser    *timeparse.Parser
}

// DefaultOptions returns the original script's behavior.
func DefaultOptions() Options {
	return Options{
		Column:    DefaultColumn,
		Size:      DefaultSize,
		Seed:      DefaultSeed,
		SeedMode:  SeedReset,
		Malformed: MalformedReject,
		Parser:    timeparse.Default(),
	}
}

func (o Options) validate() error {
	if o.Column == "" {
		return fmt.Errorf("%w: timestamp column is empty", ErrInvalidOptions)
	}
	if o.Size < 1 {
		return fmt.Errorf("%w: sample size must be >= 1, got %d", ErrInvalidOptions, o.Size)
	}
	if _, err := ParseSeedMode(string(o.SeedMode)); err != nil {
		return err
	}
	if _, err := ParseMalformedPolicy(string(o.Malformed)); err != nil {
		return err
	}
	return nil
}

// generatorFor returns the random generator used for each bucket under the options'
// seed mode.
func (o Options) generatorFor() func(BucketKey) *rand.Rand {
	switch o.SeedMode {
	case SeedSequential:
		shared := rand.New(rand.NewSource(o.Seed))
		return func(BucketKey) *rand.Rand { return shared }
	case SeedHashed:
		return func(k BucketKey) *rand.Rand {
			return rand.New(rand.NewSource(BucketSeed(o.Seed, k)))
		}
	default:
		return func(BucketKey) *rand.Rand {
			return rand.New(rand.NewSource(o.Seed))
		}
	}
}

// BucketSeed derives a bucket's seed from the run seed and the bucket key.
func BucketSeed(seed int64, k BucketKey) int64 {
	return int64(xxhash.Sum64String(strconv.FormatInt(seed, 10) + "/" + k.String()))
}
