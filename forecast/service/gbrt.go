package forecasts

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

var (
	errNoTrainingRows       = errors.New("gbrt: no training rows")
	errInsufficientVariance = errors.New("gbrt: target has no variance")
	errDegenerateModel      = errors.New("gbrt: holdout error is not finite")
)

type gbrtParams struct {
	maxDepth            int
	minLeafSize         int
	learningRate        float64
	maxRounds           int
	earlyStoppingRounds int
}

func defaultGBRTParams() gbrtParams {
	return gbrtParams{
		maxDepth:            3,
		minLeafSize:         2,
		learningRate:        0.05,
		maxRounds:           50,
		earlyStoppingRounds: 10,
	}
}

// gbrtModel is a gradient-boosted ensemble of shallow regression trees
// fit with squared loss. Training is bounded by maxRounds and early
// stopping on the holdout set so pathological inputs cannot stall a
// worker.
type gbrtModel struct {
	base         float64
	learningRate float64
	trees        []*treeNode
	holdoutRMSE  float64
}

func trainGBRT(trainX [][]float64, trainY []float64, holdX [][]float64, holdY []float64, p gbrtParams) (*gbrtModel, error) {
	if len(trainX) == 0 || len(trainX) != len(trainY) {
		return nil, errNoTrainingRows
	}

	if stat.Variance(trainY, nil) == 0 {
		return nil, errInsufficientVariance
	}

	model := &gbrtModel{
		base:         stat.Mean(trainY, nil),
		learningRate: p.learningRate,
	}

	trainPred := make([]float64, len(trainY))
	for i := range trainPred {
		trainPred[i] = model.base
	}

	holdPred := make([]float64, len(holdY))
	for i := range holdPred {
		holdPred[i] = model.base
	}

	bestRMSE := rmse(holdY, holdPred)
	bestRound := 0
	staleRounds := 0

	residuals := make([]float64, len(trainY))

	for round := 0; round < p.maxRounds; round++ {
		for i := range trainY {
			residuals[i] = trainY[i] - trainPred[i]
		}

		tree := fitTree(trainX, residuals, p.maxDepth, p.minLeafSize)
		if tree == nil {
			break
		}

		model.trees = append(model.trees, tree)

		for i, row := range trainX {
			trainPred[i] += p.learningRate * tree.predict(row)
		}

		for i, row := range holdX {
			holdPred[i] += p.learningRate * tree.predict(row)
		}

		current := rmse(holdY, holdPred)
		if current < bestRMSE {
			bestRMSE = current
			bestRound = len(model.trees)
			staleRounds = 0
		} else {
			staleRounds++
			if staleRounds >= p.earlyStoppingRounds {
				break
			}
		}
	}

	// Keep only the rounds up to the best holdout score.
	model.trees = model.trees[:bestRound]
	model.holdoutRMSE = bestRMSE

	if math.IsNaN(model.holdoutRMSE) || math.IsInf(model.holdoutRMSE, 0) {
		return nil, errDegenerateModel
	}

	return model, nil
}

func (m *gbrtModel) predict(features []float64) float64 {
	prediction := m.base
	for _, tree := range m.trees {
		prediction += m.learningRate * tree.predict(features)
	}

	return prediction
}

func rmse(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(actual)))
}

// treeNode is a binary regression tree node. Leaves carry the mean
// residual of their rows.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

func (n *treeNode) predict(features []float64) float64 {
	node := n
	for !node.leaf {
		if features[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}

	return node.value
}

func fitTree(rows [][]float64, targets []float64, depth, minLeafSize int) *treeNode {
	if len(rows) == 0 {
		return nil
	}

	if depth == 0 || len(rows) < 2*minLeafSize {
		return leafNode(targets)
	}

	feature, threshold, ok := bestSplit(rows, targets, minLeafSize)
	if !ok {
		return leafNode(targets)
	}

	var (
		leftRows, rightRows       [][]float64
		leftTargets, rightTargets []float64
	)

	for i, row := range rows {
		if row[feature] <= threshold {
			leftRows = append(leftRows, row)
			leftTargets = append(leftTargets, targets[i])
		} else {
			rightRows = append(rightRows, row)
			rightTargets = append(rightTargets, targets[i])
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      fitTree(leftRows, leftTargets, depth-1, minLeafSize),
		right:     fitTree(rightRows, rightTargets, depth-1, minLeafSize),
	}
}

func leafNode(targets []float64) *treeNode {
	return &treeNode{
		leaf:  true,
		value: stat.Mean(targets, nil),
	}
}

// bestSplit scans every feature for the threshold with the largest
// squared-error reduction, honoring the minimum leaf size.
func bestSplit(rows [][]float64, targets []float64, minLeafSize int) (int, float64, bool) {
	bestFeature := -1
	bestThreshold := 0.0
	bestScore := sse(targets)

	numFeatures := len(rows[0])

	for feature := 0; feature < numFeatures; feature++ {
		for _, threshold := range candidateThresholds(rows, feature) {
			var leftTargets, rightTargets []float64

			for i, row := range rows {
				if row[feature] <= threshold {
					leftTargets = append(leftTargets, targets[i])
				} else {
					rightTargets = append(rightTargets, targets[i])
				}
			}

			if len(leftTargets) < minLeafSize || len(rightTargets) < minLeafSize {
				continue
			}

			score := sse(leftTargets) + sse(rightTargets)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}

	return bestFeature, bestThreshold, true
}

// candidateThresholds returns midpoints between consecutive distinct
// feature values.
func candidateThresholds(rows [][]float64, feature int) []float64 {
	values := make([]float64, 0, len(rows))
	seen := make(map[float64]struct{}, len(rows))

	for _, row := range rows {
		v := row[feature]
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		values = append(values, v)
	}

	sort.Float64s(values)

	thresholds := make([]float64, 0, len(values))
	for i := 0; i < len(values)-1; i++ {
		thresholds = append(thresholds, (values[i]+values[i+1])/2)
	}

	return thresholds
}

func sse(targets []float64) float64 {
	if len(targets) == 0 {
		return 0
	}

	mean := stat.Mean(targets, nil)

	sum := 0.0
	for _, v := range targets {
		d := v - mean
		sum += d * d
	}

	return sum
}
