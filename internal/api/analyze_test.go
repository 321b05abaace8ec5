package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"pwd-analyzer/internal/analyzer"
	"pwd-analyzer/internal/crack"
	"pwd-analyzer/internal/pii"
	"pwd-analyzer/internal/strength"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scorer := strength.NewScorer(strength.NewLinearModel(), rand.New(rand.NewSource(7)))
	a, err := analyzer.New(scorer, crack.NewEstimator(nil), pii.NewMatcher(nil), nil)
	if err != nil {
		t.Fatalf("Should build analyzer: %s", err)
	}
	t.Cleanup(a.Close)

	router := gin.New()
	RegisterAnalyzeApi(router.Group("/v1/analyze"), a)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzePassword(t *testing.T) {
	router := setupRouter(t)

	w := postJSON(router, "/v1/analyze/password", `{"password": "Tr0ub4dor&3"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Should answer 200, have %d: %s", w.Code, w.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Should decode response: %s", err)
	}
	if resp.Bucket == "" {
		t.Errorf("Bucket should be assigned")
	}
	if len(resp.CrackTimesHours) != 3 {
		t.Errorf("Should carry 3 attack models, have %d", len(resp.CrackTimesHours))
	}
	if resp.Source != crack.SourceFallback {
		t.Errorf("Source should be fallback without a remote, have %q", resp.Source)
	}
	if resp.Zxcvbn == nil {
		t.Errorf("Cross-check strength should be present")
	}
}

func TestAnalyzePasswordWithRecord(t *testing.T) {
	router := setupRouter(t)

	w := postJSON(router, "/v1/analyze/password",
		`{"password": "johnsmith99", "record": {"GivenName": "John", "Surname": "Smith"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Should answer 200, have %d: %s", w.Code, w.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Should decode response: %s", err)
	}
	found := false
	for _, f := range resp.Findings {
		if f.Method == pii.MethodFuzzy {
			found = true
		}
	}
	if !found {
		t.Errorf("Record reflection should be reported, have %+v", resp.Findings)
	}
}

func TestAnalyzePasswordMissingField(t *testing.T) {
	router := setupRouter(t)

	if w := postJSON(router, "/v1/analyze/password", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Missing password should answer 400, have %d", w.Code)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	router := setupRouter(t)

	w := postJSON(router, "/v1/analyze/batch", `{"passwords": ["hunter2", "Tr0ub4dor&3"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Should answer 200, have %d: %s", w.Code, w.Body.String())
	}

	var resp batchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Should decode response: %s", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("Should have 2 items, have %d", len(resp.Items))
	}
	if resp.Items[0].Password != "hunter2" {
		t.Errorf("Items should align with inputs, have %q first", resp.Items[0].Password)
	}
	if len(resp.WeakestFirst) != 2 {
		t.Errorf("Weakest-first ordering should cover every item")
	}
}
