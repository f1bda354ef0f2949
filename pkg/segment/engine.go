package segment

import (
	"context"
	"errors"
	"sort"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/ml"
)

// KScore is one candidate cluster count with its silhouette score.
type KScore struct {
	K     int
	Score float64
}

// Engine turns a clustering feature matrix into per-customer cluster ids.
// Scaling is fit on the run's own data; the final fit uses a fixed seed so
// the same input, seed and k always produce the same assignment.
type Engine struct {
	Logger   *zap.Logger
	Clusters int
	KMin     int
	KMax     int
	Seed     int64
}

// Run scales the matrix, sweeps candidate cluster counts for the
// silhouette report, and fits the final model. The sweep result is for
// human review only; it never overrides the configured cluster count.
func (e *Engine) Run(ctx context.Context, matrix [][]float64) ([]int, []KScore, error) {
	if len(matrix) == 0 {
		return nil, nil, errs.Dataf("segmentation input is empty")
	}
	if len(matrix) < e.Clusters {
		return nil, nil, errs.Dataf("%d customers cannot form %d segments", len(matrix), e.Clusters)
	}

	scaled := ml.FitScaler(matrix).Transform(matrix)

	sweep := e.sweep(ctx, scaled)
	for _, ks := range sweep {
		e.Logger.Info("Silhouette score",
			zap.Int("k", ks.K),
			zap.Float64("score", ks.Score))
	}

	fit, err := ml.KMeans(scaled, e.Clusters, e.Seed)
	if err != nil {
		return nil, nil, errs.Dataf("final clustering failed: %v", err)
	}

	e.Logger.Info("Fitted segmentation model",
		zap.Int("clusters", e.Clusters),
		zap.Int64("seed", e.Seed),
		zap.Float64("inertia", fit.Inertia))

	return fit.Labels, sweep, nil
}

// sweep fits one candidate model per k in [KMin, KMax] and scores each
// with the silhouette. Candidates are independent, so they run on a
// bounded worker pool; this parallelism stays inside the fitting step and
// is invisible to callers.
func (e *Engine) sweep(ctx context.Context, scaled [][]float64) []KScore {
	kMax := e.KMax
	if n := len(scaled); kMax > n-1 {
		kMax = n - 1
	}
	if e.KMin > kMax {
		return nil
	}

	scores := xsync.NewMap[int, float64]()
	pool := pond.NewPool(4)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)

	for k := e.KMin; k <= kMax; k++ {
		candidate := k
		group.Submit(func() {
			fit, err := ml.KMeans(scaled, candidate, e.Seed)
			if err != nil {
				e.Logger.Warn("Candidate clustering failed",
					zap.Int("k", candidate),
					zap.Error(err))
				return
			}
			scores.Store(candidate, ml.Silhouette(scaled, fit.Labels))
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		e.Logger.Warn("Silhouette sweep group encountered error", zap.Error(err))
	}

	sweep := make([]KScore, 0, kMax-e.KMin+1)
	scores.Range(func(k int, score float64) bool {
		sweep = append(sweep, KScore{K: k, Score: score})
		return true
	})
	sort.Slice(sweep, func(i, j int) bool { return sweep[i].K < sweep[j].K })
	return sweep
}
