package stats

import (
	"errors"
	"testing"
	"time"

	"strokify/internal/models"
	"strokify/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStatsRepository struct {
	mock.Mock
}

func (m *mockStatsRepository) CountPredictions() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepository) CountByGender() ([]repository.LabelCount, error) {
	args := m.Called()
	return args.Get(0).([]repository.LabelCount), args.Error(1)
}

func (m *mockStatsRepository) CountByRiskLevel() ([]repository.LabelCount, error) {
	args := m.Called()
	return args.Get(0).([]repository.LabelCount), args.Error(1)
}

func (m *mockStatsRepository) CountHighRisk() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepository) DailyCounts(since time.Time) ([]repository.DateCount, error) {
	args := m.Called(since)
	return args.Get(0).([]repository.DateCount), args.Error(1)
}

func (m *mockStatsRepository) AgeGenderRows() ([]repository.AgeGenderRow, error) {
	args := m.Called()
	return args.Get(0).([]repository.AgeGenderRow), args.Error(1)
}

func (m *mockStatsRepository) GenderRiskRows() ([]repository.GenderRiskRow, error) {
	args := m.Called()
	return args.Get(0).([]repository.GenderRiskRow), args.Error(1)
}

func (m *mockStatsRepository) BMIValues() ([]float64, error) {
	args := m.Called()
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockStatsRepository) GlucoseValues() ([]float64, error) {
	args := m.Called()
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockStatsRepository) Prevalence() (*repository.PrevalenceRow, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PrevalenceRow), args.Error(1)
}

func (m *mockStatsRepository) RecentPredictions(limit int) ([]models.Prediction, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Prediction), args.Error(1)
}

func emptyStoreMock() *mockStatsRepository {
	repo := new(mockStatsRepository)
	repo.On("CountPredictions").Return(int64(0), nil)
	repo.On("CountByGender").Return([]repository.LabelCount{}, nil)
	repo.On("CountByRiskLevel").Return([]repository.LabelCount{}, nil)
	repo.On("CountHighRisk").Return(int64(0), nil)
	repo.On("DailyCounts", mock.AnythingOfType("time.Time")).Return([]repository.DateCount{}, nil)
	repo.On("AgeGenderRows").Return([]repository.AgeGenderRow{}, nil)
	repo.On("GenderRiskRows").Return([]repository.GenderRiskRow{}, nil)
	repo.On("BMIValues").Return([]float64{}, nil)
	repo.On("GlucoseValues").Return([]float64{}, nil)
	repo.On("Prevalence").Return(&repository.PrevalenceRow{}, nil)
	repo.On("RecentPredictions", 10).Return([]models.Prediction{}, nil)
	return repo
}

func TestDashboardDataEmptyStore(t *testing.T) {
	agg := NewAggregator(emptyStoreMock())

	data, err := agg.DashboardData()
	assert.NoError(t, err)

	assert.Zero(t, data.TotalPredictions)
	assert.Zero(t, data.HighRiskPatients)
	assert.Empty(t, data.PredictionsByDate)
	assert.Empty(t, data.AgeDistribution)
	assert.Empty(t, data.RecentPredictions)

	// Male and Female are always reported, zero-filled, with no division by
	// zero anywhere.
	assert.Equal(t, GenderRiskStat{}, data.GenderRiskStats["Male"])
	assert.Equal(t, GenderRiskStat{}, data.GenderRiskStats["Female"])
	for _, pct := range data.RiskFactors {
		assert.Zero(t, pct)
	}
	assert.NotEmpty(t, data.Timestamp)
}

func TestDashboardDataPopulatedStore(t *testing.T) {
	repo := new(mockStatsRepository)
	repo.On("CountPredictions").Return(int64(6), nil)
	repo.On("CountByGender").Return([]repository.LabelCount{
		{Label: "Female", Count: 4},
		{Label: "Male", Count: 2},
	}, nil)
	repo.On("CountByRiskLevel").Return([]repository.LabelCount{
		{Label: "Very Low", Count: 3},
		{Label: "High", Count: 2},
		{Label: "Very High", Count: 1},
	}, nil)
	// Three rows carry a High or Very High label but only two also clear
	// the probability bar; the global count takes the stricter filter.
	repo.On("CountHighRisk").Return(int64(2), nil)
	repo.On("DailyCounts", mock.AnythingOfType("time.Time")).Return([]repository.DateCount{
		{Date: "2025-08-20", Count: 2},
		{Date: "2025-08-21", Count: 4},
	}, nil)
	repo.On("AgeGenderRows").Return([]repository.AgeGenderRow{
		{Gender: "Female", Age: 25},
		{Gender: "Female", Age: 45},
		{Gender: "Female", Age: 52},
		{Gender: "Female", Age: 71},
		{Gender: "Male", Age: 30},
		{Gender: "Male", Age: 67},
	}, nil)
	repo.On("GenderRiskRows").Return([]repository.GenderRiskRow{
		{Gender: "Female", Total: 4, HighRisk: 2},
		{Gender: "Male", Total: 2, HighRisk: 1},
	}, nil)
	repo.On("BMIValues").Return([]float64{17, 22, 27, 31, 33}, nil)
	repo.On("GlucoseValues").Return([]float64{90, 105, 126, 150, 80, 99}, nil)
	repo.On("Prevalence").Return(&repository.PrevalenceRow{
		Total:        6,
		Hypertension: 2,
		HeartDisease: 1,
		EverSmoked:   3,
		Elderly:      2,
	}, nil)
	repo.On("RecentPredictions", 10).Return([]models.Prediction{
		{ID: 6, PatientID: "PATIENT_A"},
	}, nil)

	data, err := NewAggregator(repo).DashboardData()
	assert.NoError(t, err)

	assert.Equal(t, int64(6), data.TotalPredictions)
	assert.Equal(t, int64(4), data.GenderDistribution["Female"])
	assert.Equal(t, int64(2), data.RiskDistribution["High"])
	assert.Equal(t, int64(2), data.HighRiskPatients)

	assert.Equal(t, []AgeGroupCount{
		{AgeGroup: "Under 30", Count: 1},
		{AgeGroup: "30-49", Count: 2},
		{AgeGroup: "50-64", Count: 1},
		{AgeGroup: "65+", Count: 2},
	}, data.AgeDistribution)
	assert.Equal(t, []AgeGroupCount{
		{AgeGroup: "30-49", Count: 1},
		{AgeGroup: "65+", Count: 1},
	}, data.AgeDistributionByGender["Male"])

	assert.Equal(t, GenderRiskStat{Total: 4, HighRisk: 2, RiskPercentage: 50}, data.GenderRiskStats["Female"])
	assert.Equal(t, GenderRiskStat{Total: 2, HighRisk: 1, RiskPercentage: 50}, data.GenderRiskStats["Male"])

	assert.Equal(t, BMIStats{Underweight: 1, Normal: 1, Overweight: 1, Obese: 2}, data.BMIStats)
	assert.Equal(t, GlucoseStats{Normal: 3, Prediabetes: 1, Diabetes: 2}, data.GlucoseStats)

	assert.InDelta(t, 33.3, data.RiskFactors["Hypertension"], 1e-9)
	assert.InDelta(t, 16.7, data.RiskFactors["Heart Disease"], 1e-9)
	assert.InDelta(t, 50.0, data.RiskFactors["Smoking History"], 1e-9)
	assert.InDelta(t, 33.3, data.RiskFactors["Age > 65"], 1e-9)

	assert.Len(t, data.RecentPredictions, 1)
}

func TestDashboardDataUnknownGenderRowIgnored(t *testing.T) {
	repo := emptyStoreMock()
	// Replace the gender risk expectation with an Other row; the stats map
	// still only tracks Male and Female.
	repo.ExpectedCalls = nil
	repo.On("CountPredictions").Return(int64(1), nil)
	repo.On("CountByGender").Return([]repository.LabelCount{{Label: "Other", Count: 1}}, nil)
	repo.On("CountByRiskLevel").Return([]repository.LabelCount{}, nil)
	repo.On("CountHighRisk").Return(int64(0), nil)
	repo.On("DailyCounts", mock.AnythingOfType("time.Time")).Return([]repository.DateCount{}, nil)
	repo.On("AgeGenderRows").Return([]repository.AgeGenderRow{{Gender: "Other", Age: 40}}, nil)
	repo.On("GenderRiskRows").Return([]repository.GenderRiskRow{{Gender: "Other", Total: 1, HighRisk: 1}}, nil)
	repo.On("BMIValues").Return([]float64{}, nil)
	repo.On("GlucoseValues").Return([]float64{}, nil)
	repo.On("Prevalence").Return(&repository.PrevalenceRow{Total: 1}, nil)
	repo.On("RecentPredictions", 10).Return([]models.Prediction{}, nil)

	data, err := NewAggregator(repo).DashboardData()
	assert.NoError(t, err)
	assert.Len(t, data.GenderRiskStats, 2)
	assert.Equal(t, GenderRiskStat{}, data.GenderRiskStats["Male"])
}

func TestDashboardDataSurfacesStoreError(t *testing.T) {
	repo := new(mockStatsRepository)
	repo.On("CountPredictions").Return(int64(0), errors.New("connection refused"))

	data, err := NewAggregator(repo).DashboardData()
	assert.Nil(t, data)
	assert.ErrorContains(t, err, "connection refused")
}

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 0.0, percentage(5, 0))
	assert.Equal(t, 33.3, percentage(1, 3))
	assert.Equal(t, 66.7, percentage(2, 3))
	assert.Equal(t, 100.0, percentage(3, 3))
}
