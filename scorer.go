package waged

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/waged/constraint"
	"github.com/arloliu/waged/internal/hash"
	"github.com/arloliu/waged/internal/logging"
	"github.com/arloliu/waged/internal/metrics"
	"github.com/puzpuzpuz/xsync/v4"
)

// Candidate kinds reported through RecordInvalidCandidate.
const (
	invalidKindNode    = "node"
	invalidKindReplica = "replica"
	invalidKindContext = "context"
)

// unitRange bounds every normalized constraint score.
var unitRange = constraint.ScoreRange{Min: 0, Max: 1}

type weightedConstraint struct {
	constraint SoftConstraint
	weight     float64
}

// NodeScore is the aggregated score of one candidate node.
type NodeScore struct {
	Node  Node
	Score float64
}

// ReplicaRanking is the ranked candidate list of one replica.
type ReplicaRanking struct {
	Replica Replica
	Nodes   []NodeScore
}

// Scorer combines the normalized scores of weighted soft constraints into a
// single preference per candidate node.
//
// A Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	constraints []weightedConstraint
	totalWeight float64
	workers     int
	tieBreaker  hash.TieBreaker

	logger  Logger
	metrics MetricsCollector
}

// NewScorer creates a Scorer from configuration and options.
//
// Built-in constraints are created from cfg.Constraints; constraints added with
// WithConstraint are appended after them.
//
// Parameters:
//   - cfg: Configuration (defaults are applied to a copy, cfg is not modified)
//   - opts: Optional configuration (WithLogger, WithMetrics, WithConstraint)
//
// Returns:
//   - *Scorer: Initialized scorer
//   - error: ErrInvalidConfig or ErrNoConstraints if the configuration is invalid
//
// Example:
//
//	cfg := waged.DefaultConfig()
//	scorer, err := waged.NewScorer(&cfg, waged.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	ranked, err := scorer.Rank(nodes, replica, cc)
func NewScorer(cfg *Config, opts ...Option) (*Scorer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	options := scorerOptions{
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	for _, wc := range options.constraints {
		if err := validateCustomWeight(wc); err != nil {
			return nil, err
		}
	}

	c := *cfg
	c.Constraints = maps.Clone(cfg.Constraints)
	SetDefaults(&c)

	if err := c.Validate(); err != nil {
		// custom constraints alone are enough to score with
		if !errors.Is(err, ErrNoConstraints) || !hasPositiveWeight(options.constraints) {
			return nil, err
		}
	}

	s := &Scorer{
		workers:    c.Workers,
		tieBreaker: hash.NewTieBreaker(c.TieBreakSeed),
		logger:     options.logger,
		metrics:    options.metrics,
	}

	for _, name := range constraint.Names() {
		weight := c.Constraints[name]
		if weight <= 0 {
			continue
		}
		sc, err := constraint.New(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		s.constraints = append(s.constraints, weightedConstraint{constraint: sc, weight: weight})
	}

	for _, wc := range options.constraints {
		if wc.constraint == nil || wc.weight <= 0 {
			continue
		}
		s.constraints = append(s.constraints, wc)
	}

	for _, wc := range s.constraints {
		s.totalWeight += wc.weight
	}

	s.logger.Info("scorer created", "constraints", s.ConstraintNames(), "workers", s.workers)

	return s, nil
}

func validateCustomWeight(wc weightedConstraint) error {
	if !math.IsNaN(wc.weight) && !math.IsInf(wc.weight, 0) && wc.weight <= maxWeight {
		return nil
	}
	name := "<nil>"
	if wc.constraint != nil {
		name = wc.constraint.Name()
	}

	return fmt.Errorf("%w: constraint %s weight must be finite and at most %g, got %v",
		ErrInvalidConfig, name, maxWeight, wc.weight)
}

func hasPositiveWeight(constraints []weightedConstraint) bool {
	return slices.ContainsFunc(constraints, func(wc weightedConstraint) bool {
		return wc.constraint != nil && wc.weight > 0
	})
}

// ConstraintNames returns the names of the active constraints in evaluation order.
func (s *Scorer) ConstraintNames() []string {
	names := make([]string, 0, len(s.constraints))
	for _, wc := range s.constraints {
		names = append(names, wc.constraint.Name())
	}

	return names
}

// Evaluate returns the aggregated score of placing replica on node.
//
// The aggregated score is the weighted mean of the normalized constraint
// scores. Each score is clamped to [0, 1] first, NaN counting as 0, so the
// result lies in [0, 1].
//
// Parameters:
//   - node: Candidate node
//   - replica: Replica to place
//   - cc: Read-only cluster context
//
// Returns:
//   - float64: Aggregated score in [0, 1]
//   - error: ErrInvalidInput if node, replica or cc is malformed
func (s *Scorer) Evaluate(node Node, replica Replica, cc *ClusterContext) (float64, error) {
	if err := s.validateContext(cc); err != nil {
		return 0, err
	}
	if err := replica.Validate(); err != nil {
		s.metrics.RecordInvalidCandidate(invalidKindReplica)
		return 0, err
	}
	if err := node.Validate(); err != nil {
		s.metrics.RecordInvalidCandidate(invalidKindNode)
		return 0, err
	}

	return s.evaluate(node, replica, cc), nil
}

// evaluate assumes validated inputs.
func (s *Scorer) evaluate(node Node, replica Replica, cc *ClusterContext) float64 {
	var sum float64
	for _, wc := range s.constraints {
		score := unitRange.Clamp(wc.constraint.AssignmentNormalizedScore(node, replica, cc))
		s.metrics.RecordConstraintScore(wc.constraint.Name(), score)
		sum += wc.weight * score
	}

	return sum / s.totalWeight
}

// Rank scores every candidate node for replica, best first.
//
// Equal scores are ordered by a hash of the (replica, node) pair, so ties are
// spread across nodes yet stable for identical inputs. Invalid or duplicate
// nodes are skipped and reported through the logger and metrics.
//
// Parameters:
//   - nodes: Candidate nodes
//   - replica: Replica to place
//   - cc: Read-only cluster context
//
// Returns:
//   - []NodeScore: Candidates in descending score order (empty if nodes is empty)
//   - error: ErrInvalidInput if replica or cc is malformed
func (s *Scorer) Rank(nodes []Node, replica Replica, cc *ClusterContext) ([]NodeScore, error) {
	if err := s.validateContext(cc); err != nil {
		return nil, err
	}
	if err := replica.Validate(); err != nil {
		s.metrics.RecordInvalidCandidate(invalidKindReplica)
		return nil, err
	}

	start := time.Now()
	ranked := s.rank(nodes, replica, cc)
	s.metrics.RecordRankDuration(time.Since(start).Seconds(), len(ranked))

	s.logger.Debug("ranked candidates", "replica", replica.String(), "candidates", len(ranked))

	return ranked, nil
}

// rank assumes a validated replica and context.
func (s *Scorer) rank(nodes []Node, replica Replica, cc *ClusterContext) []NodeScore {
	ranked := make([]NodeScore, 0, len(nodes))
	seen := make(map[string]struct{}, len(nodes))

	for _, node := range nodes {
		if err := node.Validate(); err != nil {
			s.metrics.RecordInvalidCandidate(invalidKindNode)
			s.logger.Warn("skipping invalid candidate node", "replica", replica.String(), "error", err)

			continue
		}
		if _, dup := seen[node.Identity()]; dup {
			s.metrics.RecordInvalidCandidate(invalidKindNode)
			s.logger.Warn("skipping duplicate candidate node", "replica", replica.String(), "node", node.Identity())

			continue
		}
		seen[node.Identity()] = struct{}{}

		ranked = append(ranked, NodeScore{Node: node, Score: s.evaluate(node, replica, cc)})
	}

	replicaKey := replica.Key()
	slices.SortFunc(ranked, func(a, b NodeScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		ai, bi := a.Node.Identity(), b.Node.Identity()
		switch {
		case ai == bi:
			return 0
		case s.tieBreaker.Less(replicaKey, ai, bi):
			return -1
		default:
			return 1
		}
	})

	return ranked
}

// Best returns the highest scored candidate node for replica.
//
// Parameters:
//   - nodes: Candidate nodes
//   - replica: Replica to place
//   - cc: Read-only cluster context
//
// Returns:
//   - NodeScore: Best candidate
//   - error: ErrInvalidInput for malformed input, ErrNoCandidates if no valid node remains
func (s *Scorer) Best(nodes []Node, replica Replica, cc *ClusterContext) (NodeScore, error) {
	ranked, err := s.Rank(nodes, replica, cc)
	if err != nil {
		return NodeScore{}, err
	}
	if len(ranked) == 0 {
		return NodeScore{}, fmt.Errorf("%w: replica %s", ErrNoCandidates, replica)
	}

	return ranked[0], nil
}

// RankAll ranks the candidate nodes of every replica using a bounded worker pool.
//
// Replicas are validated before any work starts. Replicas sharing the same
// resource, partition and state are ranked once per call. The context is
// checked between replicas; on cancellation the partial result is discarded.
//
// Parameters:
//   - ctx: Context for cancellation
//   - nodes: Candidate nodes, shared by all replicas
//   - replicas: Replicas to place
//   - cc: Read-only cluster context
//
// Returns:
//   - []ReplicaRanking: One ranking per replica, in input order
//   - error: ErrInvalidInput for malformed input, or the context error
//
// Example:
//
//	rankings, err := scorer.RankAll(ctx, nodes, replicas, cc)
//	if err != nil {
//	    return err
//	}
//	for _, r := range rankings {
//	    place(r.Replica, r.Nodes[0].Node)
//	}
func (s *Scorer) RankAll(ctx context.Context, nodes []Node, replicas []Replica, cc *ClusterContext) ([]ReplicaRanking, error) {
	if err := s.validateContext(cc); err != nil {
		return nil, err
	}
	for i, replica := range replicas {
		if err := replica.Validate(); err != nil {
			s.metrics.RecordInvalidCandidate(invalidKindReplica)
			return nil, fmt.Errorf("replica %d: %w", i, err)
		}
	}

	start := time.Now()
	results := make([]ReplicaRanking, len(replicas))
	memo := xsync.NewMap[Replica, []NodeScore]()
	var candidates atomic.Int64

	jobs := make(chan int)
	workers := min(s.workers, len(replicas))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				replica := replicas[i]
				ranked, ok := memo.Load(replica)
				if !ok {
					ranked = s.rank(nodes, replica, cc)
					memo.Store(replica, ranked)
					candidates.Add(int64(len(ranked)))
				}
				results[i] = ReplicaRanking{Replica: replica, Nodes: slices.Clone(ranked)}
			}
		}()
	}

	var err error
dispatch:
	for i := range replicas {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		s.logger.Debug("ranking cancelled", "replicas", len(replicas), "error", err)
		return nil, err
	}

	s.metrics.RecordRankDuration(time.Since(start).Seconds(), int(candidates.Load()))
	s.logger.Debug("ranked replicas", "replicas", len(replicas), "distinct", memo.Size(), "nodes", len(nodes))

	return results, nil
}

func (s *Scorer) validateContext(cc *ClusterContext) error {
	if cc == nil {
		s.metrics.RecordInvalidCandidate(invalidKindContext)
		return fmt.Errorf("%w: cluster context is nil", ErrInvalidInput)
	}

	return nil
}
