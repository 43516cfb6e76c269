package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"strokify/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPredictionRepository struct {
	mock.Mock
}

func (m *mockPredictionRepository) SavePrediction(prediction *models.Prediction) error {
	args := m.Called(prediction)
	return args.Error(0)
}

func (m *mockPredictionRepository) GetAllPredictions() ([]models.Prediction, error) {
	args := m.Called()
	return args.Get(0).([]models.Prediction), args.Error(1)
}

func (m *mockPredictionRepository) GetPredictionsByPatientID(patientID string) ([]models.Prediction, error) {
	args := m.Called(patientID)
	return args.Get(0).([]models.Prediction), args.Error(1)
}

func (m *mockPredictionRepository) GetPredictionByID(id uint) (*models.Prediction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *mockPredictionRepository) DeletePrediction(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) Predict(rec *models.PatientRecord) (int, models.Probability, error) {
	args := m.Called(rec)
	return args.Int(0), args.Get(1).(models.Probability), args.Error(2)
}

func validPatientBody() map[string]interface{} {
	return map[string]interface{}{
		"gender":            "Male",
		"age":               70,
		"hypertension":      1,
		"heart_disease":     0,
		"ever_married":      "Yes",
		"work_type":         "Private",
		"residence_type":    "Urban",
		"avg_glucose_level": 150,
		"bmi":               32,
		"smoking_status":    "smokes",
	}
}

func performPredict(t *testing.T, ctrl *PredictionController, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	router := gin.New()
	router.POST("/predict", ctrl.Predict)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictSuccess(t *testing.T) {
	repo := new(mockPredictionRepository)
	predictor := new(mockPredictor)

	predictor.On("Predict", mock.AnythingOfType("*models.PatientRecord")).
		Return(1, models.Probability{NoStroke: 0.3, Stroke: 0.7}, nil)
	repo.On("SavePrediction", mock.AnythingOfType("*models.Prediction")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Prediction).ID = 42
		}).
		Return(nil)

	w := performPredict(t, NewPredictionController(repo, predictor), validPatientBody())
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PredictionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Prediction)
	assert.InDelta(t, 0.7, resp.Probability.Stroke, 1e-9)
	assert.Equal(t, "High", resp.RiskLevel)
	assert.InDelta(t, 70.0, resp.Confidence, 1e-9)
	assert.True(t, resp.SavedToDatabase)
	assert.Equal(t, uint(42), resp.PredictionID)
	assert.Contains(t, resp.PatientID, "PATIENT_")
	assert.NotEmpty(t, resp.RiskFactors)
	assert.NotEmpty(t, resp.Interpretation)
	assert.NotEmpty(t, resp.Recommendations)

	repo.AssertExpectations(t)
	predictor.AssertExpectations(t)
}

func TestPredictKeepsProvidedPatientID(t *testing.T) {
	repo := new(mockPredictionRepository)
	predictor := new(mockPredictor)

	predictor.On("Predict", mock.Anything).
		Return(0, models.Probability{NoStroke: 0.9, Stroke: 0.1}, nil)
	repo.On("SavePrediction", mock.MatchedBy(func(p *models.Prediction) bool {
		return p.PatientID == "PATIENT_CUSTOM"
	})).Return(nil)

	body := validPatientBody()
	body["patient_id"] = "PATIENT_CUSTOM"

	w := performPredict(t, NewPredictionController(repo, predictor), body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PredictionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PATIENT_CUSTOM", resp.PatientID)
	repo.AssertExpectations(t)
}

func TestPredictRejectsInvalidRecord(t *testing.T) {
	ctrl := NewPredictionController(new(mockPredictionRepository), new(mockPredictor))

	cases := map[string]func(map[string]interface{}){
		"missing age":        func(b map[string]interface{}) { delete(b, "age") },
		"bad gender":         func(b map[string]interface{}) { b["gender"] = "Robot" },
		"bad smoking status": func(b map[string]interface{}) { b["smoking_status"] = "sometimes" },
		"flag out of range":  func(b map[string]interface{}) { b["hypertension"] = 3 },
		"negative age":       func(b map[string]interface{}) { b["age"] = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := validPatientBody()
			mutate(body)

			w := performPredict(t, ctrl, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], "Invalid patient record")
		})
	}
}

func TestPredictAcceptsMissingBMI(t *testing.T) {
	repo := new(mockPredictionRepository)
	predictor := new(mockPredictor)

	predictor.On("Predict", mock.Anything).
		Return(0, models.Probability{NoStroke: 0.8, Stroke: 0.2}, nil)
	repo.On("SavePrediction", mock.MatchedBy(func(p *models.Prediction) bool {
		return p.BMI == nil
	})).Return(nil)

	body := validPatientBody()
	delete(body, "bmi")

	w := performPredict(t, NewPredictionController(repo, predictor), body)
	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestPredictModelFailure(t *testing.T) {
	repo := new(mockPredictionRepository)
	predictor := new(mockPredictor)

	predictor.On("Predict", mock.Anything).
		Return(0, models.Probability{}, errors.New("model not trained"))

	w := performPredict(t, NewPredictionController(repo, predictor), validPatientBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Prediction failed")
	repo.AssertNotCalled(t, "SavePrediction", mock.Anything)
}

func TestPredictStoreFailureStillReturnsPrediction(t *testing.T) {
	repo := new(mockPredictionRepository)
	predictor := new(mockPredictor)

	predictor.On("Predict", mock.Anything).
		Return(1, models.Probability{NoStroke: 0.2, Stroke: 0.8}, nil)
	repo.On("SavePrediction", mock.Anything).Return(errors.New("connection refused"))

	w := performPredict(t, NewPredictionController(repo, predictor), validPatientBody())
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PredictionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.SavedToDatabase)
	assert.Zero(t, resp.PredictionID)
	assert.Equal(t, 1, resp.Prediction)
	assert.Equal(t, "Very High", resp.RiskLevel)
}

func TestGetHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(mockPredictionRepository)
	repo.On("GetAllPredictions").Return([]models.Prediction{
		{ID: 2, PatientID: "PATIENT_B"},
		{ID: 1, PatientID: "PATIENT_A"},
	}, nil)

	router := gin.New()
	router.GET("/history", NewPredictionController(repo, new(mockPredictor)).GetHistory)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Len(t, resp["data"], 2)
}

func TestGetPatientPredictionsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(mockPredictionRepository)
	repo.On("GetPredictionsByPatientID", "PATIENT_X").Return([]models.Prediction{}, nil)

	router := gin.New()
	router.GET("/patient/:patient_id", NewPredictionController(repo, new(mockPredictor)).GetPatientPredictions)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/patient/PATIENT_X", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePrediction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		repo := new(mockPredictionRepository)
		repo.On("GetPredictionByID", uint(7)).Return(&models.Prediction{ID: 7}, nil)
		repo.On("DeletePrediction", uint(7)).Return(nil)

		router := gin.New()
		router.DELETE("/prediction/:id", NewPredictionController(repo, new(mockPredictor)).DeletePrediction)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/prediction/7", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		repo := new(mockPredictionRepository)
		router := gin.New()
		router.DELETE("/prediction/:id", NewPredictionController(repo, new(mockPredictor)).DeletePrediction)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/prediction/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "DeletePrediction", mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockPredictionRepository)
		repo.On("GetPredictionByID", uint(99)).Return(nil, errors.New("record not found"))

		router := gin.New()
		router.DELETE("/prediction/:id", NewPredictionController(repo, new(mockPredictor)).DeletePrediction)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/prediction/99", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		repo.AssertNotCalled(t, "DeletePrediction", mock.Anything)
	})
}
