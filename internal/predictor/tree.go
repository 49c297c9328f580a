package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// TreeNode is one node of a binary decision tree. Internal nodes send a
// sample left when features[FeatureIdx] <= Threshold.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

// TreeModel is the on-disk decision tree artifact. Node 0 is the root.
type TreeModel struct {
	Name         string     `json:"name"`
	Version      string     `json:"version"`
	FeatureNames []string   `json:"feature_names,omitempty"`
	Nodes        []TreeNode `json:"nodes"`
}

// Tree is a pure Go decision tree predictor.
type Tree struct {
	model TreeModel
	info  ModelInfo
}

// LoadTree reads and validates a decision tree artifact.
func LoadTree(path string) (*Tree, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("predictor").
			Category(errors.CategoryModelLoad).
			ModelContext(path, conf.ModelTypeTree).
			Build()
	}

	var model TreeModel
	if err := json.Unmarshal(payload, &model); err != nil {
		return nil, errors.New(fmt.Errorf("decode decision tree: %w", err)).
			Component("predictor").
			Category(errors.CategoryModelLoad).
			ModelContext(path, conf.ModelTypeTree).
			Build()
	}

	tree, err := NewTree(model)
	if err != nil {
		return nil, errors.New(err).
			Component("predictor").
			Category(errors.CategoryModelInit).
			ModelContext(path, conf.ModelTypeTree).
			Build()
	}
	tree.info.Path = path
	if tree.info.Name == "" {
		tree.info.Name = filepath.Base(path)
	}
	return tree, nil
}

// NewTree validates model and returns a predictor for it.
func NewTree(model TreeModel) (*Tree, error) {
	if err := validateTree(model); err != nil {
		return nil, err
	}
	return &Tree{
		model: model,
		info: ModelInfo{
			Backend:  conf.ModelTypeTree,
			Name:     model.Name,
			Inputs:   waterquality.FeatureCount,
			Outputs:  1,
			LoadedAt: time.Now(),
		},
	}, nil
}

func validateTree(model TreeModel) error {
	if len(model.Nodes) == 0 {
		return fmt.Errorf("decision tree has no nodes")
	}
	if n := len(model.FeatureNames); n > 0 {
		if n != waterquality.FeatureCount {
			return fmt.Errorf("decision tree expects %d features, service provides %d", n, waterquality.FeatureCount)
		}
		for i, name := range model.FeatureNames {
			if name != waterquality.FeatureNames[i] {
				return fmt.Errorf("decision tree feature %d is %q, expected %q", i, name, waterquality.FeatureNames[i])
			}
		}
	}

	for i, node := range model.Nodes {
		if node.IsLeaf {
			if !waterquality.Potability(node.ClassLabel).Valid() {
				return fmt.Errorf("node %d: class label %d is not 0 or 1", i, node.ClassLabel)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= waterquality.FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(model.Nodes) {
				return fmt.Errorf("node %d: child %d must come after its parent and exist", i, child)
			}
		}
	}
	return nil
}

// Predict walks the tree from the root. Children always follow their parent,
// so the walk terminates.
func (t *Tree) Predict(ctx context.Context, m waterquality.Measurements) (waterquality.Potability, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	label, err := t.predictVector(m.Vector())
	if err != nil {
		return 0, predictionError(err, conf.ModelTypeTree)
	}
	return label, nil
}

func (t *Tree) predictVector(features []float64) (waterquality.Potability, error) {
	if len(features) != waterquality.FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", waterquality.FeatureCount, len(features))
	}
	idx := 0
	for {
		node := t.model.Nodes[idx]
		if node.IsLeaf {
			return waterquality.Potability(node.ClassLabel), nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

// Info returns model metadata.
func (t *Tree) Info() ModelInfo {
	return t.info
}

// Close is a no-op for the tree backend.
func (t *Tree) Close() error {
	return nil
}
