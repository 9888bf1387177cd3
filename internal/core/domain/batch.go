package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Item is one unit of input: a key and the delta to add to its count.
type Item[K comparable] struct {
	Key   K
	Delta int64
}

// Strategy selects how input items are split between workers.
type Strategy string

const (
	// StrategyContiguous gives each worker one contiguous range. The
	// remainder goes to the first workers, one item each.
	StrategyContiguous Strategy = "contiguous"

	// StrategyRoundRobin gives worker w the items w, w+W, w+2W, ...
	StrategyRoundRobin Strategy = "round_robin"
)

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case StrategyContiguous, "":
		return StrategyContiguous, nil
	case StrategyRoundRobin, "round-robin", "roundrobin":
		return StrategyRoundRobin, nil
	default:
		return "", ErrInvalidArgument.WithDetails("unknown strategy " + s)
	}
}

// Routing selects how workers deliver updates to shards.
type Routing string

const (
	// RoutingDirect applies every update to its owning shard immediately.
	RoutingDirect Routing = "direct"

	// RoutingStaged applies home-shard updates immediately and stages the
	// rest in per-shard aggregators that are merged after the scan.
	RoutingStaged Routing = "staged"
)

// ParseRouting converts a configuration string into a Routing.
func ParseRouting(s string) (Routing, error) {
	switch Routing(strings.ToLower(s)) {
	case RoutingStaged, "":
		return RoutingStaged, nil
	case RoutingDirect:
		return RoutingDirect, nil
	default:
		return "", ErrInvalidArgument.WithDetails("unknown routing " + s)
	}
}

// WorkerState is the lifecycle state of a batch worker.
type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerScanning
	WorkerUpdatingHome
	WorkerStagingForeign
	WorkerDone
)

// String returns the state name.
func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerScanning:
		return "scanning"
	case WorkerUpdatingHome:
		return "updating_home"
	case WorkerStagingForeign:
		return "staging_foreign"
	case WorkerDone:
		return "done"
	default:
		return "unknown"
	}
}

// NoHomeShard marks a worker without a home shard.
const NoHomeShard = -1

// WorkerReport summarizes one worker's pass.
type WorkerReport struct {
	ID       int           `json:"id" yaml:"id"`
	Home     int           `json:"home" yaml:"home"`
	State    WorkerState   `json:"-" yaml:"-"`
	Items    uint64        `json:"items" yaml:"items"`
	Direct   uint64        `json:"direct" yaml:"direct"`
	Staged   uint64        `json:"staged" yaml:"staged"`
	Flushes  uint64        `json:"flushes" yaml:"flushes"`
	Failed   uint64        `json:"failed" yaml:"failed"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// MaxFailedKeys bounds the number of keys listed in Stats.FailedKeys.
const MaxFailedKeys = 64

// Stats is the outcome of one ProcessBatch call.
//
// Inserted, Updated and Failed count table operations. With staging and
// pre-aggregation one table operation can carry many items, so these do not
// sum to Items.
type Stats struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Items      uint64         `json:"items" yaml:"items"`
	Direct     uint64         `json:"direct" yaml:"direct"`
	Staged     uint64         `json:"staged" yaml:"staged"`
	Merged     uint64         `json:"merged" yaml:"merged"`
	Inserted   uint64         `json:"inserted" yaml:"inserted"`
	Updated    uint64         `json:"updated" yaml:"updated"`
	Failed     uint64         `json:"failed" yaml:"failed"`
	FailedKeys []string       `json:"failed_keys,omitempty" yaml:"failed_keys,omitempty"`
	Workers    []WorkerReport `json:"workers,omitempty" yaml:"workers,omitempty"`
	Duration   time.Duration  `json:"duration" yaml:"duration"`
	Merge      time.Duration  `json:"merge" yaml:"merge"`
}

// AddFailedKey records a key that could not be stored, up to MaxFailedKeys.
func (s *Stats) AddFailedKey(key string) {
	if len(s.FailedKeys) < MaxFailedKeys {
		s.FailedKeys = append(s.FailedKeys, key)
	}
}

// RunIDPrefix prefixes every run ID.
const RunIDPrefix = "cmrun-"

// GenerateRunID generates a new run ID using ULID.
// Format: cmrun-{ulid_lowercase}, 32 characters total.
func GenerateRunID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return RunIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidRunID reports whether id has the run ID format.
func IsValidRunID(id string) bool {
	if !strings.HasPrefix(id, RunIDPrefix) || len(id) != len(RunIDPrefix)+26 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(RunIDPrefix):]))
	return err == nil
}
