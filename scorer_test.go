package waged

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	wagedtest "github.com/arloliu/waged/testing"
	"github.com/arloliu/waged/types"
	"github.com/stretchr/testify/require"
)

type recordingMetrics struct {
	mu          sync.Mutex
	scores      map[string]int
	invalid     map[string]int
	rankCalls   int
	candidates  int
	snapshotOps int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{scores: map[string]int{}, invalid: map[string]int{}}
}

func (m *recordingMetrics) RecordConstraintScore(constraint string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[constraint]++
}

func (m *recordingMetrics) RecordRankDuration(_ float64, candidates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankCalls++
	m.candidates += candidates
}

func (m *recordingMetrics) RecordInvalidCandidate(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalid[kind]++
}

func (m *recordingMetrics) RecordSnapshotLoad(_ string, _ int, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotOps++
}

type constantConstraint struct {
	name  string
	score float64
}

func (c constantConstraint) Name() string { return c.name }

func (c constantConstraint) AssignmentScore(types.Node, types.Replica, *types.ClusterContext) float64 {
	return c.score
}

func (c constantConstraint) AssignmentNormalizedScore(types.Node, types.Replica, *types.ClusterContext) float64 {
	return c.score
}

// movementContext places "db/db_0" so that nodes a..d earn 1.0, 0.5, 0.25 and 0
// for a MASTER replica.
func movementContext(t *testing.T) *ClusterContext {
	t.Helper()

	return wagedtest.NewContextBuilder(t).
		BestPossible("db", "db_0", "node-a", "MASTER").
		BestPossible("db", "db_0", "node-b", "SLAVE").
		Baseline("db", "db_0", "node-c", "SLAVE").
		Build()
}

func newTestScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()

	cfg := TestConfig()
	s, err := NewScorer(&cfg, append([]Option{WithLogger(wagedtest.NewTestLogger(t))}, opts...)...)
	require.NoError(t, err)

	return s
}

func nodeNames(ranked []NodeScore) []string {
	names := make([]string, 0, len(ranked))
	for _, ns := range ranked {
		names = append(names, ns.Node.Identity())
	}

	return names
}

func TestNewScorer(t *testing.T) {
	t.Run("rejects nil config", func(t *testing.T) {
		_, err := NewScorer(nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("creates built-in constraints from default config", func(t *testing.T) {
		cfg := DefaultConfig()
		s, err := NewScorer(&cfg)
		require.NoError(t, err)
		require.Equal(t, []string{"InstancePartitionsCount", "PartitionMovement"}, s.ConstraintNames())
	})

	t.Run("applies defaults without modifying the caller config", func(t *testing.T) {
		cfg := Config{}
		s, err := NewScorer(&cfg)
		require.NoError(t, err)
		require.Len(t, s.ConstraintNames(), 2)
		require.Empty(t, cfg.Constraints)
		require.Zero(t, cfg.Workers)
	})

	t.Run("skips zero weighted constraints", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Constraints["InstancePartitionsCount"] = 0
		s, err := NewScorer(&cfg)
		require.NoError(t, err)
		require.Equal(t, []string{"PartitionMovement"}, s.ConstraintNames())
	})

	t.Run("rejects unknown constraint", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Constraints["Unknown"] = 1
		_, err := NewScorer(&cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects config without enabled constraints", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Constraints = map[string]float64{"PartitionMovement": 0}
		_, err := NewScorer(&cfg)
		require.ErrorIs(t, err, ErrNoConstraints)
	})

	t.Run("accepts custom constraint as the only enabled constraint", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Constraints = map[string]float64{"PartitionMovement": 0}
		s, err := NewScorer(&cfg, WithConstraint(constantConstraint{name: "Constant", score: 0.3}, 1))
		require.NoError(t, err)
		require.Equal(t, []string{"Constant"}, s.ConstraintNames())
	})

	t.Run("rejects custom constraint weight that is not finite or too large", func(t *testing.T) {
		for _, weight := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 2e6} {
			cfg := TestConfig()
			_, err := NewScorer(&cfg, WithConstraint(constantConstraint{name: "Constant", score: 0.3}, weight))
			require.ErrorIs(t, err, ErrInvalidConfig, "weight %v", weight)
		}
	})

	t.Run("keeps no-op logger and metrics for nil options", func(t *testing.T) {
		cfg := TestConfig()
		s, err := NewScorer(&cfg, WithLogger(nil), WithMetrics(nil))
		require.NoError(t, err)

		cc := movementContext(t)
		replica := wagedtest.NewReplica("db", "db_0", "MASTER")
		require.NotPanics(t, func() {
			ranked, err := s.Rank([]Node{wagedtest.NewNode("node-a"), {}}, replica, cc)
			require.NoError(t, err)
			require.Len(t, ranked, 1)

			_, err = s.Evaluate(wagedtest.NewNode("node-a"), replica, nil)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	})
}

func TestScorer_Evaluate(t *testing.T) {
	cc := movementContext(t)
	s := newTestScorer(t)
	replica := wagedtest.NewReplica("db", "db_0", "MASTER")

	t.Run("scores each movement tier", func(t *testing.T) {
		for node, want := range map[string]float64{"node-a": 1.0, "node-b": 0.5, "node-c": 0.25, "node-d": 0.0} {
			score, err := s.Evaluate(wagedtest.NewNode(node), replica, cc)
			require.NoError(t, err)
			require.Equal(t, want, score, node)
		}
	})

	t.Run("rejects nil cluster context", func(t *testing.T) {
		_, err := s.Evaluate(wagedtest.NewNode("node-a"), replica, nil)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects node without identity", func(t *testing.T) {
		_, err := s.Evaluate(types.Node{}, replica, cc)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects replica without state", func(t *testing.T) {
		_, err := s.Evaluate(wagedtest.NewNode("node-a"), wagedtest.NewReplica("db", "db_0", ""), cc)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestScorer_EvaluateWeighted(t *testing.T) {
	cc := wagedtest.NewContextBuilder(t).
		BestPossible("db", "db_0", "node-a", "MASTER").
		EstimatedMaxPartitionCount(10).
		Build()
	m := newRecordingMetrics()

	cfg := DefaultConfig()
	s, err := NewScorer(&cfg, WithMetrics(m))
	require.NoError(t, err)

	node := types.Node{InstanceName: "node-a", AssignedReplicaCount: 5}
	score, err := s.Evaluate(node, wagedtest.NewReplica("db", "db_0", "MASTER"), cc)
	require.NoError(t, err)

	// movement 1.0 and load 0.5, equally weighted
	require.Equal(t, 0.75, score)
	require.Equal(t, 1, m.scores["PartitionMovement"])
	require.Equal(t, 1, m.scores["InstancePartitionsCount"])

	t.Run("weights change the mix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Constraints["PartitionMovement"] = 3
		s, err := NewScorer(&cfg)
		require.NoError(t, err)

		score, err := s.Evaluate(node, wagedtest.NewReplica("db", "db_0", "MASTER"), cc)
		require.NoError(t, err)
		require.Equal(t, 0.875, score)
	})

	t.Run("custom constraint joins the weighted mean", func(t *testing.T) {
		cfg := TestConfig()
		s, err := NewScorer(&cfg, WithConstraint(constantConstraint{name: "Constant", score: 0}, 1))
		require.NoError(t, err)

		score, err := s.Evaluate(node, wagedtest.NewReplica("db", "db_0", "MASTER"), cc)
		require.NoError(t, err)
		require.Equal(t, 0.5, score)
	})

	t.Run("custom scores are clamped to the unit range", func(t *testing.T) {
		cases := []struct {
			raw  float64
			want float64
		}{
			{raw: 2, want: 1},
			{raw: -3, want: 0.5},
			{raw: math.NaN(), want: 0.5},
			{raw: math.Inf(1), want: 1},
		}
		for _, tc := range cases {
			cfg := TestConfig()
			s, err := NewScorer(&cfg, WithConstraint(constantConstraint{name: "Constant", score: tc.raw}, 1))
			require.NoError(t, err)

			score, err := s.Evaluate(node, wagedtest.NewReplica("db", "db_0", "MASTER"), cc)
			require.NoError(t, err)
			require.Equal(t, tc.want, score, "raw %v", tc.raw)
		}
	})
}

func TestScorer_Rank(t *testing.T) {
	cc := movementContext(t)
	replica := wagedtest.NewReplica("db", "db_0", "MASTER")

	t.Run("orders candidates by descending score", func(t *testing.T) {
		s := newTestScorer(t)
		nodes := []Node{
			wagedtest.NewNode("node-d"),
			wagedtest.NewNode("node-c"),
			wagedtest.NewNode("node-a"),
			wagedtest.NewNode("node-b"),
		}

		ranked, err := s.Rank(nodes, replica, cc)
		require.NoError(t, err)
		require.Equal(t, []string{"node-a", "node-b", "node-c", "node-d"}, nodeNames(ranked))
		require.Equal(t, 1.0, ranked[0].Score)
		require.Equal(t, 0.0, ranked[3].Score)
	})

	t.Run("skips invalid and duplicate nodes", func(t *testing.T) {
		m := newRecordingMetrics()
		s := newTestScorer(t, WithMetrics(m))
		nodes := []Node{
			wagedtest.NewNode("node-a"),
			{},
			{InstanceName: "node-x", AssignedReplicaCount: -1},
			wagedtest.NewNode("node-a"),
			wagedtest.NewNode("node-b"),
		}

		ranked, err := s.Rank(nodes, replica, cc)
		require.NoError(t, err)
		require.Equal(t, []string{"node-a", "node-b"}, nodeNames(ranked))
		require.Equal(t, 3, m.invalid["node"])
		require.Equal(t, 1, m.rankCalls)
	})

	t.Run("returns empty ranking without candidates", func(t *testing.T) {
		s := newTestScorer(t)

		ranked, err := s.Rank(nil, replica, cc)
		require.NoError(t, err)
		require.Empty(t, ranked)
	})

	t.Run("rejects malformed replica", func(t *testing.T) {
		m := newRecordingMetrics()
		s := newTestScorer(t, WithMetrics(m))

		_, err := s.Rank([]Node{wagedtest.NewNode("node-a")}, wagedtest.NewReplica("", "db_0", "MASTER"), cc)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.Equal(t, 1, m.invalid["replica"])
	})

	t.Run("rejects nil cluster context", func(t *testing.T) {
		m := newRecordingMetrics()
		s := newTestScorer(t, WithMetrics(m))

		_, err := s.Rank([]Node{wagedtest.NewNode("node-a")}, replica, nil)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.Equal(t, 1, m.invalid["context"])
	})
}

func TestScorer_RankTieBreak(t *testing.T) {
	cc := wagedtest.NewContextBuilder(t).Build()
	s := newTestScorer(t)

	nodes := make([]Node, 0, 8)
	for i := range 8 {
		nodes = append(nodes, wagedtest.NewNode(fmt.Sprintf("node-%d", i)))
	}
	reversed := make([]Node, len(nodes))
	for i, n := range nodes {
		reversed[len(nodes)-1-i] = n
	}

	t.Run("tie order does not depend on input order", func(t *testing.T) {
		replica := wagedtest.NewReplica("db", "db_0", "MASTER")

		first, err := s.Rank(nodes, replica, cc)
		require.NoError(t, err)
		second, err := s.Rank(reversed, replica, cc)
		require.NoError(t, err)

		require.Equal(t, nodeNames(first), nodeNames(second))
	})

	t.Run("ties are spread across replicas", func(t *testing.T) {
		leaders := map[string]struct{}{}
		for p := range 32 {
			best, err := s.Best(nodes, wagedtest.NewReplica("db", fmt.Sprintf("db_%d", p), "MASTER"), cc)
			require.NoError(t, err)
			leaders[best.Node.Identity()] = struct{}{}
		}

		require.Greater(t, len(leaders), 1)
	})

	t.Run("seed changes tie order but not scores", func(t *testing.T) {
		replica := wagedtest.NewReplica("db", "db_0", "MASTER")
		cfg := TestConfig()
		changed := false
		base, err := s.Rank(nodes, replica, cc)
		require.NoError(t, err)

		for seed := uint64(1); seed <= 8 && !changed; seed++ {
			cfg.TieBreakSeed = seed
			seeded, err := NewScorer(&cfg)
			require.NoError(t, err)

			ranked, err := seeded.Rank(nodes, replica, cc)
			require.NoError(t, err)
			require.Len(t, ranked, len(base))
			for _, ns := range ranked {
				require.Equal(t, 0.0, ns.Score)
			}
			changed = fmt.Sprint(nodeNames(ranked)) != fmt.Sprint(nodeNames(base))
		}

		require.True(t, changed)
	})
}

func TestScorer_Best(t *testing.T) {
	cc := movementContext(t)
	s := newTestScorer(t)
	replica := wagedtest.NewReplica("db", "db_0", "MASTER")

	t.Run("returns the top candidate", func(t *testing.T) {
		best, err := s.Best([]Node{wagedtest.NewNode("node-c"), wagedtest.NewNode("node-a")}, replica, cc)
		require.NoError(t, err)
		require.Equal(t, "node-a", best.Node.Identity())
		require.Equal(t, 1.0, best.Score)
	})

	t.Run("fails without valid candidates", func(t *testing.T) {
		_, err := s.Best([]Node{{}}, replica, cc)
		require.ErrorIs(t, err, ErrNoCandidates)
	})
}

func TestScorer_RankAll(t *testing.T) {
	b := wagedtest.NewContextBuilder(t)
	for p := range 20 {
		partition := fmt.Sprintf("db_%d", p)
		b.BestPossible("db", partition, fmt.Sprintf("node-%d", p%4), "MASTER")
		b.BestPossible("db", partition, fmt.Sprintf("node-%d", (p+1)%4), "SLAVE")
		b.Baseline("db", partition, fmt.Sprintf("node-%d", (p+2)%4), "MASTER")
	}
	cc := b.Build()

	nodes := make([]Node, 0, 5)
	for i := range 5 {
		nodes = append(nodes, wagedtest.NewNode(fmt.Sprintf("node-%d", i)))
	}

	replicas := make([]Replica, 0, 60)
	for p := range 20 {
		partition := fmt.Sprintf("db_%d", p)
		replicas = append(replicas,
			wagedtest.NewReplica("db", partition, "MASTER"),
			wagedtest.NewReplica("db", partition, "SLAVE"),
			wagedtest.NewReplica("db", partition, "SLAVE"),
		)
	}

	cfg := DefaultConfig()
	cfg.Workers = 4
	s, err := NewScorer(&cfg, WithLogger(wagedtest.NewTestLogger(t)))
	require.NoError(t, err)

	t.Run("matches sequential ranking in input order", func(t *testing.T) {
		rankings, err := s.RankAll(context.Background(), nodes, replicas, cc)
		require.NoError(t, err)
		require.Len(t, rankings, len(replicas))

		for i, replica := range replicas {
			want, err := s.Rank(nodes, replica, cc)
			require.NoError(t, err)
			require.Equal(t, replica, rankings[i].Replica)
			require.Equal(t, want, rankings[i].Nodes)
		}
	})

	t.Run("identical replicas get independent rankings", func(t *testing.T) {
		rankings, err := s.RankAll(context.Background(), nodes, replicas[:3], cc)
		require.NoError(t, err)
		require.Equal(t, rankings[1].Nodes, rankings[2].Nodes)

		rankings[1].Nodes[0].Score = -1
		require.NotEqual(t, rankings[1].Nodes[0].Score, rankings[2].Nodes[0].Score)
	})

	t.Run("replicas whose names contain a slash are ranked independently", func(t *testing.T) {
		cc := wagedtest.NewContextBuilder(t).
			BestPossible("a/b", "c", "n1", "M").
			BestPossible("a", "b/c", "n2", "M").
			Build()
		candidates := []Node{wagedtest.NewNode("n1"), wagedtest.NewNode("n2")}
		slashed := []Replica{
			wagedtest.NewReplica("a/b", "c", "M"),
			wagedtest.NewReplica("a", "b/c", "M"),
		}

		cfg := TestConfig()
		sequential, err := NewScorer(&cfg)
		require.NoError(t, err)

		rankings, err := sequential.RankAll(context.Background(), candidates, slashed, cc)
		require.NoError(t, err)
		require.Equal(t, "n1", rankings[0].Nodes[0].Node.Identity())
		require.Equal(t, "n2", rankings[1].Nodes[0].Node.Identity())

		for i, replica := range slashed {
			want, err := sequential.Rank(candidates, replica, cc)
			require.NoError(t, err)
			require.Equal(t, want, rankings[i].Nodes)
		}
	})

	t.Run("reports only the candidates actually ranked", func(t *testing.T) {
		m := newRecordingMetrics()
		cfg := DefaultConfig()
		cfg.Workers = 1
		counted, err := NewScorer(&cfg, WithMetrics(m))
		require.NoError(t, err)

		// one invalid node, and two identical SLAVE replicas sharing a ranking
		withInvalid := append([]Node{{}}, nodes...)
		_, err = counted.RankAll(context.Background(), withInvalid, replicas[:3], cc)
		require.NoError(t, err)

		require.Equal(t, 1, m.rankCalls)
		require.Equal(t, 2*len(nodes), m.candidates)
		require.Equal(t, 2, m.invalid["node"])
	})

	t.Run("returns empty result for no replicas", func(t *testing.T) {
		rankings, err := s.RankAll(context.Background(), nodes, nil, cc)
		require.NoError(t, err)
		require.Empty(t, rankings)
	})

	t.Run("rejects malformed replica before ranking", func(t *testing.T) {
		bad := append([]Replica{}, replicas[:2]...)
		bad = append(bad, wagedtest.NewReplica("db", "", "MASTER"))

		_, err := s.RankAll(context.Background(), nodes, bad, cc)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.ErrorContains(t, err, "replica 2")
	})

	t.Run("rejects nil cluster context", func(t *testing.T) {
		_, err := s.RankAll(context.Background(), nodes, replicas, nil)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rankings, err := s.RankAll(ctx, nodes, replicas, cc)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, rankings)
	})
}
