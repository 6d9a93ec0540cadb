package container

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go-land-inspector/internal/config"
	"go-land-inspector/internal/factory"
	"go-land-inspector/internal/observer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelReport = "```json\n" + `{"location_summary":"Flat plain","scores":{"overall_score":7.5,"classification":"Moderately Suitable"}}` + "\n```"

func fakeGemini(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent"), r.URL.Path)
		text, _ := json.Marshal(modelReport)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + string(text) + `}]}}]}`))
	}))
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "5001",
		RequestTimeout:     5 * time.Second,
		ModelTimeout:       2 * time.Second,
		MaxUploadSize:      1 << 20,
		MaxAttempts:        3,
		GeminiAPIKey:       "test-key",
		GeminiModel:        "test-model",
		GeminiBaseURL:      baseURL,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestContainer_AnalyzesThroughWiredStack(t *testing.T) {
	var calls atomic.Int32
	srv := fakeGemini(t, &calls)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	gen, err := factory.NewGeneratorFactory().CreateGenerator(factory.GeminiGenerator, factory.GeneratorConfig{
		APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL, Timeout: cfg.ModelTimeout,
	})
	require.NoError(t, err)
	c := build(cfg, gen, observer.NewMetricsForTesting())
	assert.Same(t, cfg, c.Config())
	assert.NotNil(t, c.AnalysisService())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="site.png"`)
	h.Set("Content-Type", "image/png")
	pw, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = pw.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("lat", "10.5"))
	require.NoError(t, mw.WriteField("lng", "20.25"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int32(1), calls.Load())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Flat plain", got["location_summary"])
	assert.True(t, strings.HasPrefix(got["_image"].(string), "data:image/png;base64,"))
	assert.Equal(t, map[string]any{"lat": 10.5, "lng": 20.25}, got["_coordinates"])
}

func TestNewContainer_RequiresConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

func TestNewContainer_RequiresAPIKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1")
	cfg.GeminiAPIKey = ""
	_, err := NewContainer(cfg)
	assert.ErrorContains(t, err, "failed to create generator")
}
