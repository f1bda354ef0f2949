package churn

import (
	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/features"
	"github.com/retainlab/retainx/pkg/frame"
	"github.com/retainlab/retainx/pkg/ml"
)

// UnknownSegment replaces a missing segment name, so customers scored
// before (or without) a segmentation run still get a valid categorical
// value.
const UnknownSegment = "Unknown"

// Model trains the churn classifier and scores the full population.
type Model struct {
	Logger        *zap.Logger
	ThresholdDays float64
	TestFraction  float64
	Seed          int64
	MaxIterations int
}

// ScoreResult is the output of one training-and-scoring pass.
type ScoreResult struct {
	// Churned is the definitional label per customer, not a prediction.
	Churned []int
	// Risk is the modeled churn probability per customer, in [0, 1].
	Risk []float64
	// AUC and Report describe held-out test quality. Diagnostics only;
	// the pipeline proceeds regardless of their values.
	AUC    float64
	Report ml.Report
}

// Label derives the binary churn label: churned when the last order is at
// least thresholdDays old. This is a business definition, never learned.
func Label(recencyDays []float64, thresholdDays float64) []int {
	out := make([]int, len(recencyDays))
	for i, r := range recencyDays {
		if r >= thresholdDays {
			out[i] = 1
		}
	}
	return out
}

// TrainAndScore fits the classifier on a stratified split of the cleaned
// population and scores everyone, training rows included. The scaler and
// the segment encoder are fit on the training split only and then applied
// as pure functions, so no statistics leak from the held-out rows.
func (m *Model) TrainAndScore(f *frame.Frame, segmentNames []string) (*ScoreResult, error) {
	if f.Len() == 0 {
		return nil, errs.Dataf("churn input is empty")
	}
	if len(segmentNames) != f.Len() {
		return nil, errs.Dataf("churn input mismatch: %d rows, %d segment names", f.Len(), len(segmentNames))
	}

	labels := Label(f.Column(features.ColRecencyDays), m.ThresholdDays)
	pos := 0
	for _, l := range labels {
		pos += l
	}
	if pos == 0 || pos == len(labels) {
		return nil, errs.Dataf("churn label has a single class (%d of %d churned); stratified split and AUC are undefined", pos, len(labels))
	}
	m.Logger.Info("Churn label distribution",
		zap.Int("churned", pos),
		zap.Int("retained", len(labels)-pos),
		zap.Float64("churn_rate", float64(pos)/float64(len(labels))))

	numericCols := append(append([]string(nil), features.ModelLifetimeColumns...), features.ModelTimeColumns...)
	numeric, err := f.Matrix(numericCols...)
	if err != nil {
		return nil, err
	}

	cats := make([]string, len(segmentNames))
	for i, name := range segmentNames {
		if name == "" {
			name = UnknownSegment
		}
		cats[i] = name
	}

	trainIdx, testIdx, err := ml.StratifiedSplit(labels, m.TestFraction, m.Seed)
	if err != nil {
		return nil, errs.Dataf("train/test split failed: %v", err)
	}

	scaler := ml.FitScaler(rowsAt(numeric, trainIdx))
	encoder := ml.FitOneHot(stringsAt(cats, trainIdx))

	design := concatColumns(scaler.Transform(numeric), encoder.Transform(cats))

	clf, err := ml.TrainLogistic(rowsAt(design, trainIdx), intsAt(labels, trainIdx), ml.LogisticConfig{
		MaxIterations: m.MaxIterations,
		LearningRate:  0.1,
		Tolerance:     1e-6,
		L2:            1.0,
		Balanced:      true,
	})
	if err != nil {
		return nil, errs.Dataf("classifier training failed: %v", err)
	}

	testProbs := clf.ProbaBatch(rowsAt(design, testIdx))
	testLabels := intsAt(labels, testIdx)
	auc := ml.ROCAUC(testLabels, testProbs)

	preds := make([]int, len(testProbs))
	for i, p := range testProbs {
		if p >= 0.5 {
			preds[i] = 1
		}
	}
	report := ml.Classification(testLabels, preds)

	m.Logger.Info("Churn model evaluation",
		zap.Float64("roc_auc", auc),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("churned_precision", report.Positive.Precision),
		zap.Float64("churned_recall", report.Positive.Recall),
		zap.Float64("churned_f1", report.Positive.F1),
		zap.Int("churned_support", report.Positive.Support),
		zap.Float64("retained_precision", report.Negative.Precision),
		zap.Float64("retained_recall", report.Negative.Recall),
		zap.Float64("retained_f1", report.Negative.F1),
		zap.Int("retained_support", report.Negative.Support))

	return &ScoreResult{
		Churned: labels,
		Risk:    clf.ProbaBatch(design),
		AUC:     auc,
		Report:  report,
	}, nil
}

func rowsAt(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, r := range idx {
		out[i] = x[r]
	}
	return out
}

func intsAt(x []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, r := range idx {
		out[i] = x[r]
	}
	return out
}

func stringsAt(x []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, r := range idx {
		out[i] = x[r]
	}
	return out
}

func concatColumns(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i := range a {
		row := make([]float64, 0, len(a[i])+len(b[i]))
		row = append(row, a[i]...)
		row = append(row, b[i]...)
		out[i] = row
	}
	return out
}
