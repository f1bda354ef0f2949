package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/retainlab/retainx/pkg/config"
	"github.com/retainlab/retainx/pkg/db"
	"github.com/retainlab/retainx/pkg/db/models"
	"github.com/retainlab/retainx/pkg/features"
	"github.com/retainlab/retainx/pkg/segment"
)

// Segmenter runs the segmentation stage: load lifetime features, clean,
// cluster, profile, name, and replace the two segment output tables. All
// computation finishes before the first write, so the stage either lands
// complete results or nothing.
type Segmenter struct {
	Logger *zap.Logger
	Config config.Config
	Store  db.Store
}

// Run executes one segmentation pass.
func (s *Segmenter) Run(ctx context.Context) error {
	rows, err := s.Store.CustomerFeatures(ctx)
	if err != nil {
		return err
	}
	s.Logger.Info("Loaded lifetime features", zap.Int("customers", len(rows)))

	f := lifetimeFrame(rows)
	if err := features.Clean(f, features.DefaultCleanConfig()); err != nil {
		return err
	}

	matrix, err := f.Matrix(features.ClusteringColumns...)
	if err != nil {
		return err
	}

	engine := &segment.Engine{
		Logger:   s.Logger,
		Clusters: s.Config.Clusters,
		KMin:     s.Config.KMin,
		KMax:     s.Config.KMax,
		Seed:     s.Config.Seed,
	}
	labels, _, err := engine.Run(ctx, matrix)
	if err != nil {
		return err
	}

	profiles, err := segment.BuildProfiles(f, labels)
	if err != nil {
		return err
	}
	segment.NameProfiles(profiles)
	logProfiles(s.Logger, profiles)

	names := make(map[int]string, len(profiles))
	for _, p := range profiles {
		names[p.Segment] = p.Name
	}

	segRows := make([]models.CustomerSegmentRow, f.Len())
	for i, id := range f.IDs() {
		segRows[i] = models.CustomerSegmentRow{
			CustomerID:           id,
			Segment:              int32(labels[i]),
			SegmentName:          names[labels[i]],
			RecencyDays:          f.Column(features.ColRecencyDays)[i],
			Frequency:            f.Column(features.ColFrequency)[i],
			Monetary:             f.Column(features.ColMonetary)[i],
			AvgOrderValue:        f.Column(features.ColAvgOrderValue)[i],
			AvgItemsPerOrder:     f.Column(features.ColAvgItemsPerOrder)[i],
			AvgCategoryDiversity: f.Column(features.ColAvgCatDiversity)[i],
			TenureDays:           f.Column(features.ColTenureDays)[i],
			AvgDaysBetweenOrders: f.Column(features.ColAvgDaysBetween)[i],
		}
	}

	profileRows := make([]models.SegmentProfileRow, len(profiles))
	for i, p := range profiles {
		profileRows[i] = models.SegmentProfileRow{
			Segment:              int32(p.Segment),
			Customers:            uint64(p.Customers),
			Share:                p.Share,
			RecencyDays:          p.RecencyDays,
			Frequency:            p.Frequency,
			Monetary:             p.Monetary,
			AvgOrderValue:        p.AvgOrderValue,
			AvgItemsPerOrder:     p.AvgItemsPerOrder,
			AvgCategoryDiversity: p.AvgCategoryDiversity,
			TenureDays:           p.TenureDays,
			AvgDaysBetweenOrders: p.AvgDaysBetweenOrders,
			RecencyRank:          int32(p.RecencyRank),
			ValueRank:            int32(p.ValueRank),
			FreqRank:             int32(p.FreqRank),
			SegmentName:          p.Name,
		}
	}

	if err := s.Store.ReplaceSegments(ctx, segRows); err != nil {
		return err
	}
	s.Logger.Info("Wrote customer segments", zap.Int("rows", len(segRows)))

	if err := s.Store.ReplaceProfiles(ctx, profileRows); err != nil {
		return err
	}
	s.Logger.Info("Wrote segment profiles", zap.Int("segments", len(profileRows)))

	return nil
}

func logProfiles(logger *zap.Logger, profiles []segment.Profile) {
	byCount := append([]segment.Profile(nil), profiles...)
	sort.Slice(byCount, func(i, j int) bool { return byCount[i].Customers > byCount[j].Customers })
	for _, p := range byCount {
		logger.Info("Segment profile",
			zap.Int("segment", p.Segment),
			zap.String("name", p.Name),
			zap.Int("customers", p.Customers),
			zap.Float64("share", p.Share),
			zap.Float64("recency_days", p.RecencyDays),
			zap.Float64("frequency", p.Frequency),
			zap.Float64("monetary", p.Monetary),
			zap.Int("recency_rank", p.RecencyRank),
			zap.Int("value_rank", p.ValueRank),
			zap.Int("freq_rank", p.FreqRank))
	}
}
