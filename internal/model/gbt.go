package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

// treeArtifact mirrors scikit-learn's tree_ arrays. Leaves have
// children_left == children_right == -1.
type treeArtifact struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

type gradientBoostingArtifact struct {
	NFeatures    int            `json:"n_features"`
	Init         float64        `json:"init"`
	LearningRate float64        `json:"learning_rate"`
	Trees        []treeArtifact `json:"trees"`
}

type treeNode struct {
	left, right int
	feature     int
	threshold   float64
	value       float64
}

// GradientBoosting is a binary log-loss gradient-boosted tree ensemble.
// The class-1 probability is sigmoid(init + learning_rate * Σ tree(x)).
type GradientBoosting struct {
	init         float64
	learningRate float64
	trees        [][]treeNode
}

// LoadGradientBoosting reads and validates a tree ensemble artifact.
func LoadGradientBoosting(path string) (*GradientBoosting, error) {
	a, err := loadJSON[gradientBoostingArtifact](path)
	if err != nil {
		return nil, err
	}
	return newGradientBoosting(a)
}

func newGradientBoosting(a gradientBoostingArtifact) (*GradientBoosting, error) {
	if a.NFeatures != domain.FeatureCount {
		return nil, fmt.Errorf("expected %d features, artifact has %d", domain.FeatureCount, a.NFeatures)
	}
	if len(a.Trees) == 0 {
		return nil, errors.New("no trees")
	}
	if err := checkFinite("init/learning_rate", a.Init, a.LearningRate); err != nil {
		return nil, err
	}

	g := &GradientBoosting{
		init:         a.Init,
		learningRate: a.LearningRate,
		trees:        make([][]treeNode, len(a.Trees)),
	}
	for i, t := range a.Trees {
		nodes, err := buildTree(t)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		g.trees[i] = nodes
	}
	return g, nil
}

// buildTree validates the flat arrays. Children must come after their parent,
// which rules out cycles and guarantees every walk terminates.
func buildTree(t treeArtifact) ([]treeNode, error) {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return nil, errors.New("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return nil, errors.New("array lengths differ")
	}

	nodes := make([]treeNode, n)
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		node := treeNode{left: l, right: r, feature: t.Feature[i], threshold: t.Threshold[i], value: t.Value[i]}

		switch {
		case l == -1 && r == -1:
			if err := checkFinite("leaf value", node.value); err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
		case l > i && r > i && l < n && r < n:
			if node.feature < 0 || node.feature >= domain.FeatureCount {
				return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.feature)
			}
			if math.IsNaN(node.threshold) {
				return nil, fmt.Errorf("node %d: threshold is NaN", i)
			}
		default:
			return nil, fmt.Errorf("node %d: invalid children (%d, %d)", i, l, r)
		}
		nodes[i] = node
	}
	return nodes, nil
}

// PredictProbability implements domain.Predictor on the raw vector.
func (g *GradientBoosting) PredictProbability(v domain.FeatureVector) (float64, error) {
	raw := g.init
	for _, nodes := range g.trees {
		raw += g.learningRate * walk(nodes, &v)
	}
	return sigmoid(raw), nil
}

func walk(nodes []treeNode, v *domain.FeatureVector) float64 {
	i := 0
	for {
		n := &nodes[i]
		if n.left == -1 {
			return n.value
		}
		if v[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
