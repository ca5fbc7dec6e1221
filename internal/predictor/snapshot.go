package predictor

import (
	"fmt"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
)

// SnapshotFormat is bumped whenever the Snapshot layout changes. Restore
// rejects snapshots of any other format.
const SnapshotFormat = 1

// ErrSnapshotFormat is returned by Restore for snapshots written by an
// incompatible build.
const ErrSnapshotFormat = constError("unsupported model snapshot format")

const (
	kindForest  = "forest"
	kindBoosted = "boosted"
	kindLinear  = "linear"
)

// Snapshot is the serializable form of a Bundle and the report of the run
// that produced it.
type Snapshot struct {
	Format       int                       `json:"format"`
	ID           string                    `json:"id"`
	TrainedAt    time.Time                 `json:"trained_at"`
	FeatureNames []string                  `json:"feature_names"`
	Encoders     map[string]LabelEncoder   `json:"encoders"`
	Scaler       StandardScaler            `json:"scaler"`
	Models       map[Variant]ModelSnapshot `json:"models"`
	Report       Report                    `json:"report"`
}

// ModelSnapshot holds the fitted parameters of one regressor.
type ModelSnapshot struct {
	Kind         string           `json:"kind"`
	Base         float64          `json:"base,omitempty"`
	LearningRate float64          `json:"learning_rate,omitempty"`
	Intercept    float64          `json:"intercept,omitempty"`
	Coef         []float64        `json:"coef,omitempty"`
	Importances  []float64        `json:"importances,omitempty"`
	Trees        [][]NodeSnapshot `json:"trees,omitempty"`
}

// NodeSnapshot is one tree node. Leaves only carry Value.
type NodeSnapshot struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// Snapshot captures b and report for persistence.
func (b *Bundle) Snapshot(report Report) (Snapshot, error) {
	if !b.Ready() {
		return Snapshot{}, ErrNotTrained
	}
	s := Snapshot{
		Format:       SnapshotFormat,
		ID:           b.ID.String(),
		TrainedAt:    b.TrainedAt,
		FeatureNames: slices.Clone(b.FeatureNames),
		Encoders:     make(map[string]LabelEncoder, len(b.Encoders)),
		Scaler:       b.Scaler,
		Models:       make(map[Variant]ModelSnapshot, len(b.Models)),
		Report:       report,
	}
	for field, enc := range b.Encoders {
		s.Encoders[field] = enc
	}
	for v, m := range b.Models {
		ms, err := snapshotModel(m)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%s: %w", v, err)
		}
		s.Models[v] = ms
	}
	return s, nil
}

// Restore rebuilds the bundle captured by s.
func Restore(s Snapshot) (*Bundle, error) {
	if s.Format != SnapshotFormat {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSnapshotFormat, s.Format, SnapshotFormat)
	}
	id, err := ulid.Parse(s.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle id: %w", err)
	}
	b := &Bundle{
		ID:           id,
		TrainedAt:    s.TrainedAt,
		FeatureNames: slices.Clone(s.FeatureNames),
		Encoders:     make(map[string]LabelEncoder, len(s.Encoders)),
		Scaler:       s.Scaler,
		Models:       make(map[Variant]Regressor, len(s.Models)),
	}
	for field, enc := range s.Encoders {
		b.Encoders[field] = enc
	}
	width := len(b.FeatureNames)
	for v, ms := range s.Models {
		if _, err = ParseVariant(string(v)); err != nil {
			return nil, err
		}
		m, restoreErr := restoreModel(ms, width)
		if restoreErr != nil {
			return nil, fmt.Errorf("%s: %w", v, restoreErr)
		}
		b.Models[v] = m
	}
	if !b.Ready() {
		return nil, fmt.Errorf("%w: incomplete snapshot", ErrNotTrained)
	}
	return b, nil
}

func snapshotModel(m Regressor) (ModelSnapshot, error) {
	switch m := m.(type) {
	case *forest:
		return ModelSnapshot{
			Kind:        kindForest,
			Importances: slices.Clone(m.importances),
			Trees:       snapshotTrees(m.trees),
		}, nil
	case *boosted:
		return ModelSnapshot{
			Kind:         kindBoosted,
			Base:         m.base,
			LearningRate: m.learningRate,
			Importances:  slices.Clone(m.importances),
			Trees:        snapshotTrees(m.trees),
		}, nil
	case *linear:
		return ModelSnapshot{Kind: kindLinear, Intercept: m.intercept, Coef: slices.Clone(m.coef)}, nil
	default:
		return ModelSnapshot{}, fmt.Errorf("cannot snapshot regressor %T", m)
	}
}

func restoreModel(ms ModelSnapshot, width int) (Regressor, error) {
	switch ms.Kind {
	case kindForest:
		trees, err := restoreTrees(ms.Trees, width)
		if err != nil {
			return nil, err
		}
		return &forest{trees: trees, importances: slices.Clone(ms.Importances)}, nil
	case kindBoosted:
		trees, err := restoreTrees(ms.Trees, width)
		if err != nil {
			return nil, err
		}
		return &boosted{
			base:         ms.Base,
			learningRate: ms.LearningRate,
			trees:        trees,
			importances:  slices.Clone(ms.Importances),
		}, nil
	case kindLinear:
		if len(ms.Coef) != width {
			return nil, fmt.Errorf("linear model has %d coefficients, want %d", len(ms.Coef), width)
		}
		return &linear{intercept: ms.Intercept, coef: slices.Clone(ms.Coef)}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", ms.Kind)
	}
}

func snapshotTrees(trees []regressionTree) [][]NodeSnapshot {
	out := make([][]NodeSnapshot, len(trees))
	for i, t := range trees {
		nodes := make([]NodeSnapshot, len(t.nodes))
		for j, n := range t.nodes {
			nodes[j] = NodeSnapshot{
				Leaf:      n.leaf,
				Feature:   n.feature,
				Threshold: n.threshold,
				Left:      n.left,
				Right:     n.right,
				Value:     n.value,
			}
		}
		out[i] = nodes
	}
	return out
}

// restoreTrees rebuilds trees, checking that every split points at a known
// feature and at child nodes after it.
func restoreTrees(in [][]NodeSnapshot, width int) ([]regressionTree, error) {
	trees := make([]regressionTree, len(in))
	for i, nodes := range in {
		if len(nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", i)
		}
		t := regressionTree{nodes: make([]treeNode, len(nodes))}
		for j, n := range nodes {
			if !n.Leaf {
				if n.Feature < 0 || n.Feature >= width {
					return nil, fmt.Errorf("tree %d node %d: feature %d out of range", i, j, n.Feature)
				}
				if n.Left <= j || n.Right <= j || n.Left >= len(nodes) || n.Right >= len(nodes) {
					return nil, fmt.Errorf("tree %d node %d: invalid children", i, j)
				}
			}
			t.nodes[j] = treeNode{
				feature:   n.Feature,
				threshold: n.Threshold,
				left:      n.Left,
				right:     n.Right,
				value:     n.Value,
				leaf:      n.Leaf,
			}
		}
		trees[i] = t
	}
	return trees, nil
}
