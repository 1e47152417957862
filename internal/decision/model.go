package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Model artifact kinds.
const (
	KindSoftmax = "softmax"
	KindForest  = "forest"
)

// ErrInvalidArtifact indicates a model artifact failed structural validation.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Artifact is the JSON document a trained classifier is exported to.
type Artifact struct {
	Name       string      `json:"name"`
	Version    string      `json:"version"`
	Kind       string      `json:"kind"`
	Labels     []int       `json:"labels,omitempty"`
	Scaler     *Scaler     `json:"scaler,omitempty"`
	Weights    [][]float64 `json:"weights,omitempty"`
	Intercepts []float64   `json:"intercepts,omitempty"`
	Trees      []Tree      `json:"trees,omitempty"`
}

// LoadBundleFile reads a model artifact from path.
func LoadBundleFile(path string) (*ModelBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	return LoadBundle(f)
}

// LoadBundle decodes and validates a model artifact.
func LoadBundle(r io.Reader) (*ModelBundle, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return a.Bundle()
}

// Bundle validates the artifact and builds an immutable ModelBundle.
func (a *Artifact) Bundle() (*ModelBundle, error) {
	var (
		c   Classifier
		err error
	)

	switch a.Kind {
	case KindSoftmax:
		c, err = newSoftmax(a.Weights, a.Intercepts)
	case KindForest:
		c, err = newForest(a.Trees)
	default:
		err = fmt.Errorf("unknown kind %q", a.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	if a.Labels == nil && c.Classes() != ActionCount {
		return nil, fmt.Errorf(
			"%w: %d classes without labels, want %d",
			ErrInvalidArtifact, c.Classes(), ActionCount,
		)
	}

	if a.Labels != nil {
		if len(a.Labels) != c.Classes() {
			return nil, fmt.Errorf(
				"%w: %d labels for %d classes",
				ErrInvalidArtifact, len(a.Labels), c.Classes(),
			)
		}
		for _, l := range a.Labels {
			if l < 0 || l >= ActionCount {
				return nil, fmt.Errorf("%w: label %d out of range", ErrInvalidArtifact, l)
			}
		}
	}

	return &ModelBundle{
		Name:       a.Name,
		Version:    a.Version,
		Scaler:     a.Scaler,
		Classifier: c,
		Labels:     a.Labels,
	}, nil
}

// softmax is a multinomial logistic regression.
type softmax struct {
	weights    [][]float64
	intercepts []float64
}

func newSoftmax(weights [][]float64, intercepts []float64) (*softmax, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("softmax: no weights")
	}
	if len(intercepts) != len(weights) {
		return nil, fmt.Errorf("softmax: %d intercepts for %d classes", len(intercepts), len(weights))
	}
	return &softmax{weights: weights, intercepts: intercepts}, nil
}

func (m *softmax) Classes() int { return len(m.weights) }

func (m *softmax) PredictProba(x []float64) ([]float64, error) {
	logits := make([]float64, len(m.weights))
	peak := math.Inf(-1)

	for k, w := range m.weights {
		if len(w) != len(x) {
			return nil, fmt.Errorf("%w: class %d has %d weights, got %d features", ErrShapeMismatch, k, len(w), len(x))
		}
		z := m.intercepts[k]
		for i, xi := range x {
			z += w[i] * xi
		}
		logits[k] = z
		peak = max(peak, z)
	}

	var sum float64
	for k, z := range logits {
		logits[k] = math.Exp(z - peak)
		sum += logits[k]
	}
	for k := range logits {
		logits[k] /= sum
	}
	return logits, nil
}

// Tree is a binary decision tree in flat node form. Node 0 is the root; a node
// with Left == -1 is a leaf whose Value holds per-class weights.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a single split or leaf.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

func (t Tree) leaf(x []float64) ([]float64, error) {
	i := 0
	for range len(t.Nodes) {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return nil, fmt.Errorf("%w: split on feature %d of %d", ErrShapeMismatch, n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return nil, fmt.Errorf("tree did not reach a leaf")
}

// forest averages normalized leaf distributions across trees.
type forest struct {
	trees   []Tree
	classes int
}

func newForest(trees []Tree) (*forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest: no trees")
	}

	classes := 0
	for ti, t := range trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("forest: tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Left < 0 {
				if classes == 0 {
					classes = len(n.Value)
				}
				if len(n.Value) == 0 || len(n.Value) != classes {
					return nil, fmt.Errorf("forest: tree %d leaf %d has %d classes, want %d", ti, ni, len(n.Value), classes)
				}
				continue
			}
			if n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
				return nil, fmt.Errorf("forest: tree %d node %d has dangling child", ti, ni)
			}
		}
	}

	return &forest{trees: trees, classes: classes}, nil
}

func (f *forest) Classes() int { return f.classes }

func (f *forest) PredictProba(x []float64) ([]float64, error) {
	probs := make([]float64, f.classes)

	for _, t := range f.trees {
		value, err := t.leaf(x)
		if err != nil {
			return nil, err
		}

		var total float64
		for _, v := range value {
			total += v
		}
		if total <= 0 {
			continue
		}
		for k, v := range value {
			probs[k] += v / total
		}
	}

	n := float64(len(f.trees))
	for k := range probs {
		probs[k] /= n
	}
	return probs, nil
}
