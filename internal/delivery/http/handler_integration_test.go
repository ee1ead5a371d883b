package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nutripoints/backend/config"
	"github.com/nutripoints/backend/internal/domain"
	"github.com/nutripoints/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// stubFoodRepository backs the real points service with in-memory data
type stubFoodRepository struct {
	foods       map[string]*domain.FoodRecord
	searchError error
	getError    error
}

func newStubFoodRepository() *stubFoodRepository {
	calories := 200.0
	fat := 10.0
	fiber := 2.0
	protein := 5.0

	return &stubFoodRepository{
		foods: map[string]*domain.FoodRecord{
			"Arroz": {
				Name:            "Arroz",
				CaloriesPer100g: &calories,
				FatPer100g:      &fat,
				FiberPer100g:    &fiber,
				ProteinPer100g:  &protein,
			},
		},
	}
}

func (s *stubFoodRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	if s.searchError != nil {
		return nil, s.searchError
	}
	var names []string
	for name := range s.foods {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *stubFoodRepository) GetByName(ctx context.Context, name string) (*domain.FoodRecord, error) {
	if s.getError != nil {
		return nil, s.getError
	}
	if food, ok := s.foods[name]; ok {
		return food, nil
	}
	return nil, domain.ErrFoodNotFound
}

func (s *stubFoodRepository) Upsert(ctx context.Context, food *domain.FoodRecord) error {
	s.foods[food.Name] = food
	return nil
}

// setupTestRouter creates a test router backed by the given repository
func setupTestRouter(t *testing.T, repo domain.FoodRepository) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
		Scoring: config.ScoringConfig{Formula: "four_nutrient"},
	}

	formula, err := usecase.NewScoringFormula(cfg.Scoring.Formula)
	if err != nil {
		t.Fatalf("NewScoringFormula() error = %v", err)
	}

	service := usecase.NewPointsService(repo, formula, usecase.PointsServiceConfig{})
	return SetupRouter(cfg, NewHandler(service))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return body
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		if body["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", body["status"])
		}
		if body["service"] != "nutripoints-backend" {
			t.Errorf("service = %v, want nutripoints-backend", body["service"])
		}
		if body["formula"] != "four_nutrient" {
			t.Errorf("formula = %v, want four_nutrient", body["formula"])
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("returns matching names", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		req, _ := http.NewRequest("GET", "/search?q=arr", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var names []string
		if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(names) != 1 || names[0] != "Arroz" {
			t.Errorf("names = %v, want [Arroz]", names)
		}
	})

	t.Run("returns empty array for short query", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		for _, target := range []string{"/search", "/search?q=", "/search?q=a"} {
			req, _ := http.NewRequest("GET", target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("%s: Status = %d, want %d", target, w.Code, http.StatusOK)
			}
			if body := strings.TrimSpace(w.Body.String()); body != "[]" {
				t.Errorf("%s: body = %s, want []", target, body)
			}
		}
	})

	t.Run("returns 500 when the store is down", func(t *testing.T) {
		repo := newStubFoodRepository()
		repo.searchError = errors.New("connection refused")
		router := setupTestRouter(t, repo)

		req, _ := http.NewRequest("GET", "/search?q=arr", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		body := decodeBody(t, w)
		message, ok := body["error"].(string)
		if !ok || message == "" {
			t.Errorf("error = %v, want non-empty message", body["error"])
		}
		if strings.Contains(message, "connection refused") {
			t.Errorf("error %q leaks internal details", message)
		}
	})
}

func TestCalculateEndpoint(t *testing.T) {
	t.Run("computes points from a JSON body", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		payload := `{"alimento":"Arroz","quantidade":"150"}`
		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["alimento"] != "Arroz" {
			t.Errorf("alimento = %v, want Arroz", body["alimento"])
		}
		if body["quantidade"] != float64(150) {
			t.Errorf("quantidade = %v, want 150", body["quantidade"])
		}
		if body["pontos"] != float64(6) {
			t.Errorf("pontos = %v, want 6", body["pontos"])
		}
	})

	t.Run("accepts English field names and numeric quantity", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		payload := `{"food":"Arroz","quantity":150}`
		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["pontos"] != float64(6) {
			t.Errorf("pontos = %v, want 6", body["pontos"])
		}
	})

	t.Run("accepts a form-encoded body", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		form := url.Values{}
		form.Set("alimento", "Arroz")
		form.Set("quantidade", "150")

		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["pontos"] != float64(6) {
			t.Errorf("pontos = %v, want 6", body["pontos"])
		}
	})

	t.Run("truncates fractional quantities for display", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		payload := `{"alimento":"Arroz","quantidade":"150.9"}`
		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["quantidade"] != float64(150) {
			t.Errorf("quantidade = %v, want 150", body["quantidade"])
		}
	})

	t.Run("returns 400 for missing fields", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		payloads := []string{
			`{}`,
			`{"alimento":"Arroz"}`,
			`{"quantidade":"150"}`,
			`{"alimento":"","quantidade":""}`,
			`not json at all`,
		}

		for _, payload := range payloads {
			req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("payload %s: Status = %d, want %d", payload, w.Code, http.StatusBadRequest)
			}

			body := decodeBody(t, w)
			if message, ok := body["error"].(string); !ok || message == "" {
				t.Errorf("payload %s: error = %v, want non-empty message", payload, body["error"])
			}
		}
	})

	t.Run("returns 400 for invalid quantities", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		for _, quantity := range []string{"abc", "0", "-10"} {
			payload := `{"alimento":"Arroz","quantidade":"` + quantity + `"}`
			req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("quantity %q: Status = %d, want %d", quantity, w.Code, http.StatusBadRequest)
			}
		}
	})

	t.Run("returns 404 for an unknown food", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		payload := `{"alimento":"Unobtainium","quantidade":"100"}`
		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}

		body := decodeBody(t, w)
		if message, ok := body["error"].(string); !ok || message == "" {
			t.Errorf("error = %v, want non-empty message", body["error"])
		}
	})

	t.Run("returns 500 when the store is down", func(t *testing.T) {
		repo := newStubFoodRepository()
		repo.getError = errors.New("connection refused")
		router := setupTestRouter(t, repo)

		payload := `{"alimento":"Arroz","quantidade":"100"}`
		req, _ := http.NewRequest("POST", "/calculate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		body := decodeBody(t, w)
		message, ok := body["error"].(string)
		if !ok || message == "" {
			t.Errorf("error = %v, want non-empty message", body["error"])
		}
		if strings.Contains(message, "connection refused") {
			t.Errorf("error %q leaks internal details", message)
		}
	})

	t.Run("rejects GET requests", func(t *testing.T) {
		router := setupTestRouter(t, newStubFoodRepository())

		req, _ := http.NewRequest("GET", "/calculate", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
