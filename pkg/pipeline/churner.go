package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/churn"
	"github.com/retainlab/retainx/pkg/config"
	"github.com/retainlab/retainx/pkg/db"
	"github.com/retainlab/retainx/pkg/db/models"
	"github.com/retainlab/retainx/pkg/features"
)

// Churner runs the churn-scoring stage: join lifetime, time-windowed and
// segment features, train the classifier, score the full population, rank
// priorities, and replace the churn scores table. Like the segmentation
// stage, nothing is written until everything is computed.
type Churner struct {
	Logger *zap.Logger
	Config config.Config
	Store  db.Store
}

// Run executes one churn-scoring pass.
func (c *Churner) Run(ctx context.Context) error {
	rfm, err := c.Store.CustomerFeatures(ctx)
	if err != nil {
		return err
	}
	timeRows, err := c.Store.TimeFeatures(ctx)
	if err != nil {
		return err
	}
	segRows, err := c.Store.SegmentNames(ctx)
	if err != nil {
		return err
	}
	c.Logger.Info("Loaded churn inputs",
		zap.Int("customers", len(rfm)),
		zap.Int("time_feature_rows", len(timeRows)),
		zap.Int("segmented_customers", len(segRows)))

	f := lifetimeFrame(rfm)
	joinTimeFeatures(f, timeRows)

	cleanCfg := features.DefaultCleanConfig()
	cleanCfg.LogColumns = nil // distance-based transforms are a clustering concern
	if err := features.Clean(f, cleanCfg); err != nil {
		return err
	}
	features.ZeroFill(f, features.ModelTimeColumns...)

	nameByID := make(map[string]string, len(segRows))
	for _, r := range segRows {
		nameByID[r.CustomerID] = r.SegmentName
	}
	segmentNames := make([]string, f.Len())
	for i, id := range f.IDs() {
		if name, ok := nameByID[id]; ok && name != "" {
			segmentNames[i] = name
		} else {
			segmentNames[i] = churn.UnknownSegment
		}
	}

	model := &churn.Model{
		Logger:        c.Logger,
		ThresholdDays: c.Config.ChurnThresholdDays,
		TestFraction:  c.Config.TestFraction,
		Seed:          c.Config.Seed,
		MaxIterations: c.Config.MaxIterations,
	}
	res, err := model.TrainAndScore(f, segmentNames)
	if err != nil {
		return err
	}

	monetary := f.Column(features.ColMonetary)
	riskBands := churn.TertileBands(res.Risk)
	valueBands := churn.TertileBands(monetary)
	deciles := churn.RiskDeciles(res.Risk)

	lift := churn.LiftTable(deciles, res.Churned)
	for d := 9; d >= 0; d-- {
		c.Logger.Info("Churn rate by risk decile",
			zap.Int("decile", d),
			zap.Float64("churn_rate", lift[d]))
	}

	bandCounts := map[string]int{}
	out := make([]models.ChurnScoreRow, f.Len())
	for i, id := range f.IDs() {
		priority := churn.Priority(riskBands[i], valueBands[i])
		bandCounts[priority]++
		out[i] = models.ChurnScoreRow{
			CustomerID:           id,
			SegmentName:          segmentNames[i],
			Churned:              uint8(res.Churned[i]),
			ChurnRisk:            res.Risk[i],
			ValueAtRisk:          churn.ValueAtRisk(monetary[i], res.Risk[i]),
			RecencyDays:          f.Column(features.ColRecencyDays)[i],
			Frequency:            f.Column(features.ColFrequency)[i],
			Monetary:             monetary[i],
			AvgOrderValue:        f.Column(features.ColAvgOrderValue)[i],
			AvgItemsPerOrder:     f.Column(features.ColAvgItemsPerOrder)[i],
			AvgCategoryDiversity: f.Column(features.ColAvgCatDiversity)[i],
			TenureDays:           f.Column(features.ColTenureDays)[i],
			AvgDaysBetweenOrders: f.Column(features.ColAvgDaysBetween)[i],
			Orders30d:            f.Column(features.ColOrders30d)[i],
			Orders90d:            f.Column(features.ColOrders90d)[i],
			Spend30d:             f.Column(features.ColSpend30d)[i],
			Spend90d:             f.Column(features.ColSpend90d)[i],
			RiskDecile:           uint8(deciles[i]),
			RiskBand:             uint8(riskBands[i]),
			ValueBand:            uint8(valueBands[i]),
			PriorityBand:         priority,
		}
	}

	c.Logger.Info("Priority band distribution",
		zap.Int("high", bandCounts[churn.PriorityHigh]),
		zap.Int("medium", bandCounts[churn.PriorityMedium]),
		zap.Int("low", bandCounts[churn.PriorityLow]))

	if err := c.Store.ReplaceChurnScores(ctx, out); err != nil {
		return err
	}
	c.Logger.Info("Wrote churn scores", zap.Int("rows", len(out)))

	return nil
}
