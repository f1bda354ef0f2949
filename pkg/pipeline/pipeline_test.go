package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/retainlab/retainx/pkg/config"
	"github.com/retainlab/retainx/pkg/db/models"
	"github.com/retainlab/retainx/pkg/errs"
	"github.com/retainlab/retainx/pkg/pipeline"
)

// fakeStore serves canned feature rows and records every write, so stage
// tests run against the real pipeline wiring without a database.
type fakeStore struct {
	customers []models.CustomerFeatureRow
	timeRows  []models.TimeFeatureRow
	segNames  []models.SegmentNameRow

	wroteSegments []models.CustomerSegmentRow
	wroteProfiles []models.SegmentProfileRow
	wroteScores   []models.ChurnScoreRow
	writeOrder    []string

	segmentsErr error
}

func (s *fakeStore) CustomerFeatures(ctx context.Context) ([]models.CustomerFeatureRow, error) {
	return s.customers, nil
}

func (s *fakeStore) TimeFeatures(ctx context.Context) ([]models.TimeFeatureRow, error) {
	return s.timeRows, nil
}

func (s *fakeStore) SegmentNames(ctx context.Context) ([]models.SegmentNameRow, error) {
	return s.segNames, nil
}

func (s *fakeStore) ReplaceSegments(ctx context.Context, rows []models.CustomerSegmentRow) error {
	if s.segmentsErr != nil {
		return s.segmentsErr
	}
	s.wroteSegments = rows
	s.writeOrder = append(s.writeOrder, "segments")
	return nil
}

func (s *fakeStore) ReplaceProfiles(ctx context.Context, rows []models.SegmentProfileRow) error {
	s.wroteProfiles = rows
	s.writeOrder = append(s.writeOrder, "profiles")
	return nil
}

func (s *fakeStore) ReplaceChurnScores(ctx context.Context, rows []models.ChurnScoreRow) error {
	s.wroteScores = rows
	s.writeOrder = append(s.writeOrder, "churn_scores")
	return nil
}

func (s *fakeStore) Close() error { return nil }

func ptr(v float64) *float64 { return &v }

// seedCustomers fills the fake store with two clearly distinct customer
// populations: active high spenders and lapsed low spenders.
func seedCustomers(s *fakeStore, n int) {
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("c%04d", i)
		lapsed := i%2 == 1
		row := models.CustomerFeatureRow{
			CustomerID:           id,
			AvgOrderValue:        ptr(60 + float64(i%7)),
			AvgItemsPerOrder:     ptr(2 + float64(i%3)),
			AvgCategoryDiversity: ptr(1 + float64(i%4)),
			TenureDays:           ptr(400 + float64(i)),
			AvgDaysBetweenOrders: ptr(40 + float64(i%10)),
		}
		if lapsed {
			row.RecencyDays = ptr(220 + float64(i%30))
			row.Frequency = ptr(1 + float64(i%2))
			row.Monetary = ptr(80 + float64(i%40))
		} else {
			row.RecencyDays = ptr(10 + float64(i%30))
			row.Frequency = ptr(9 + float64(i%5))
			row.Monetary = ptr(900 + float64(i%200))
			s.timeRows = append(s.timeRows, models.TimeFeatureRow{
				CustomerID: id,
				Spend30d:   ptr(120 + float64(i%50)),
				Spend90d:   ptr(300 + float64(i%80)),
				Orders30d:  ptr(1 + float64(i%2)),
				Orders90d:  ptr(3 + float64(i%3)),
			})
			s.segNames = append(s.segNames, models.SegmentNameRow{
				CustomerID:  id,
				SegmentName: "Champions",
			})
		}
		s.customers = append(s.customers, row)
	}
}

func testConfig() config.Config {
	return config.Config{
		Database:           "analytics",
		Clusters:           2,
		KMin:               2,
		KMax:               3,
		Seed:               42,
		ChurnThresholdDays: 180,
		TestFraction:       0.2,
		MaxIterations:      2000,
	}
}

func TestSegmenterWritesEveryCustomerExactlyOnce(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 60)

	s := &pipeline.Segmenter{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, store.wroteSegments, 60)
	seen := make(map[string]bool)
	for _, row := range store.wroteSegments {
		require.False(t, seen[row.CustomerID], "customer %s written twice", row.CustomerID)
		seen[row.CustomerID] = true
		require.NotEmpty(t, row.SegmentName)
	}
	require.Len(t, store.wroteProfiles, 2)
}

func TestSegmenterProfilesAccountForWholePopulation(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 50)

	s := &pipeline.Segmenter{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, s.Run(context.Background()))

	var total uint64
	var share float64
	for _, p := range store.wroteProfiles {
		total += p.Customers
		share += p.Share
	}
	require.Equal(t, uint64(50), total)
	require.InDelta(t, 1.0, share, 1e-9)
}

func TestSegmenterWritesSegmentsBeforeProfiles(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 40)

	s := &pipeline.Segmenter{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, s.Run(context.Background()))

	require.Equal(t, []string{"segments", "profiles"}, store.writeOrder)
}

func TestSegmenterFailedWriteStopsTheStage(t *testing.T) {
	store := &fakeStore{segmentsErr: errs.Connectivityf("insert refused")}
	seedCustomers(store, 40)

	s := &pipeline.Segmenter{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	err := s.Run(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsConnectivity(err))
	require.Empty(t, store.wroteProfiles)
}

func TestSegmenterEmptyPopulationIsDataError(t *testing.T) {
	s := &pipeline.Segmenter{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: &fakeStore{}}
	err := s.Run(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsData(err))
}

func TestChurnerScoresEveryCustomerExactlyOnce(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 80)

	c := &pipeline.Churner{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, c.Run(context.Background()))

	require.Len(t, store.wroteScores, 80)
	seen := make(map[string]bool)
	for _, row := range store.wroteScores {
		require.False(t, seen[row.CustomerID], "customer %s scored twice", row.CustomerID)
		seen[row.CustomerID] = true
		require.GreaterOrEqual(t, row.ChurnRisk, 0.0)
		require.LessOrEqual(t, row.ChurnRisk, 1.0)
		require.Contains(t, []string{"HIGH", "MEDIUM", "LOW"}, row.PriorityBand)
	}
}

func TestChurnerUnsegmentedCustomersFallBackToUnknown(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 80)

	c := &pipeline.Churner{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, c.Run(context.Background()))

	byID := make(map[string]models.ChurnScoreRow, len(store.wroteScores))
	for _, row := range store.wroteScores {
		byID[row.CustomerID] = row
	}
	// Lapsed customers were never segmented by the fake seed.
	require.Equal(t, "Unknown", byID["c0001"].SegmentName)
	require.Equal(t, "Champions", byID["c0000"].SegmentName)
}

func TestChurnerLabelMatchesRecencyThreshold(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 60)

	c := &pipeline.Churner{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, c.Run(context.Background()))

	for _, row := range store.wroteScores {
		want := uint8(0)
		if row.RecencyDays >= 180 {
			want = 1
		}
		require.Equal(t, want, row.Churned, "customer %s recency %f", row.CustomerID, row.RecencyDays)
	}
}

func TestChurnerValueAtRiskIsMonetaryTimesRisk(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 60)

	c := &pipeline.Churner{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, c.Run(context.Background()))

	for _, row := range store.wroteScores {
		require.InDelta(t, row.Monetary*row.ChurnRisk, row.ValueAtRisk, 1e-9)
	}
}

func TestChurnerMissingTimeFeaturesBecomeZero(t *testing.T) {
	store := &fakeStore{}
	seedCustomers(store, 60)

	c := &pipeline.Churner{Logger: zaptest.NewLogger(t), Config: testConfig(), Store: store}
	require.NoError(t, c.Run(context.Background()))

	for _, row := range store.wroteScores {
		if row.SegmentName != "Unknown" {
			continue
		}
		// No time feature rows were seeded for the lapsed half.
		require.Equal(t, 0.0, row.Spend30d)
		require.Equal(t, 0.0, row.Orders90d)
	}
}
