package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"FashionScoring_EvaluationProject/internal/app"
	"FashionScoring_EvaluationProject/internal/config"
	"FashionScoring_EvaluationProject/internal/handler"
	"FashionScoring_EvaluationProject/internal/models"
	"FashionScoring_EvaluationProject/internal/notify"
	"FashionScoring_EvaluationProject/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	app    *app.App
	hub    *notify.Hub
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		UploadDir:         filepath.Join(dir, "uploads"),
		DBPath:            filepath.Join(dir, "pending.db"),
		PassingScore:      60,
		OrphanGracePeriod: time.Hour,
		PendingTTL:        time.Hour,
	}
	a, err := app.New(cfg, nil, scoring.FixedScorer{Score: 80, Reason: "Trendy style and fit."})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	hub := notify.NewHub(nil)
	t.Cleanup(hub.Close)
	h := handler.NewHandler(a.Sessions, a.Records, a.History, hub, nil)
	return &testServer{router: NewRouter(h, opts), app: a, hub: hub}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/evaluations", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func saveRequest(token, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/evaluations/"+token+"/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestEvaluationLifecycle(t *testing.T) {
	s := newTestServer(t, Options{})

	w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	up := decode[handler.UploadResponse](t, w)
	require.Len(t, up.Evaluations, 1)
	pending := up.Evaluations[0]
	assert.Equal(t, 80, pending.Score)
	assert.True(t, pending.Passed)
	assert.Equal(t, 60, pending.PassingScore)
	assert.False(t, pending.Reused)
	assert.Equal(t, "image/png", pending.MediaType)

	// same file again keeps its token and score
	w = s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[handler.UploadResponse](t, w)
	assert.True(t, again.Evaluations[0].Reused)
	assert.Equal(t, pending.Token, again.Evaluations[0].Token)

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/evaluations/"+pending.Token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, saveRequest(pending.Token, `{"buyer_score": 75}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode[handler.SaveResponse](t, w)
	assert.Equal(t, saved.ID, saved.Record.ID)
	assert.Equal(t, 5, saved.Record.ScoreDifference)
	assert.Equal(t, 75, saved.Record.BuyerScore)
	assert.True(t, saved.Record.Passed)

	w = s.do(t, saveRequest(pending.Token, `{"buyer_score": 10}`))
	assert.Equal(t, http.StatusConflict, w.Code)
	conflict := decode[map[string]string](t, w)
	assert.Equal(t, saved.ID, conflict["id"])

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[handler.HistoryResponse](t, w)
	require.Len(t, hist.History, 1)
	assert.Equal(t, saved.ID, hist.History[0].ID)

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/history/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.Summary](t, w)
	assert.Equal(t, 1, summary.Count)
	require.NotNil(t, summary.AvgMachineScore)
	assert.InDelta(t, 80.0, *summary.AvgMachineScore, 1e-9)

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/history/"+saved.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, saved.ID, decode[models.RecordView](t, w).ID)

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/media/"+saved.Record.Filename, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngData, w.Body.Bytes())

	w = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/history/"+saved.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, saved.ID, decode[handler.DeleteResponse](t, w).Deleted)

	w = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/history/"+saved.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[map[string]string](t, w), "error")

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Empty(t, decode[handler.HistoryResponse](t, w).History)

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/media/"+saved.Record.Filename, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_PartialAndRejected(t *testing.T) {
	s := newTestServer(t, Options{})

	w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData, "notes.txt": []byte("hello")}))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[handler.UploadResponse](t, w)
	assert.Len(t, resp.Evaluations, 1)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "notes.txt", resp.Errors[0].File)
	assert.Equal(t, "unsupported media type", resp.Errors[0].Error)

	w = s.do(t, uploadRequest(t, map[string][]byte{"notes.txt": []byte("hello")}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, uploadRequest(t, map[string][]byte{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSave_BadRequests(t *testing.T) {
	s := newTestServer(t, Options{})
	w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[handler.UploadResponse](t, w).Evaluations[0].Token

	tests := []struct {
		name  string
		token string
		body  string
		want  int
	}{
		{"missing buyer score", token, `{}`, http.StatusBadRequest},
		{"not json", token, `buyer_score=5`, http.StatusBadRequest},
		{"out of range", token, `{"buyer_score": 150}`, http.StatusBadRequest},
		{"unknown token", "nope", `{"buyer_score": 50}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, saveRequest(tt.token, tt.body))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	// nothing was written
	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Empty(t, decode[handler.HistoryResponse](t, w).History)
}

func TestDiscardEvaluation(t *testing.T) {
	s := newTestServer(t, Options{})
	w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
	token := decode[handler.UploadResponse](t, w).Evaluations[0].Token

	w = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/evaluations/"+token, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/evaluations/"+token, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/evaluations/"+token, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecord_NotFound(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, id := range []string{"20251017_100000_abcdef", "garbage"} {
		w := s.do(t, httptest.NewRequest(http.MethodGet, "/api/history/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
}

func TestSystemEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})

	w := s.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	s.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	w = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fashion_scoring_http_requests_total")

	w = s.do(t, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/history/summary")
}

func TestUploadLimits(t *testing.T) {
	t.Run("body too large", func(t *testing.T) {
		s := newTestServer(t, Options{MaxUploadBytes: 16})
		w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		s := newTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})
		w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
		assert.Equal(t, http.StatusOK, w.Code)
		w = s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// reads are not limited
		w = s.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHistoryFeed(t *testing.T) {
	s := newTestServer(t, Options{})
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/history", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	w := s.do(t, uploadRequest(t, map[string][]byte{"look.png": pngData}))
	token := decode[handler.UploadResponse](t, w).Evaluations[0].Token
	w = s.do(t, saveRequest(token, `{"buyer_score": 70}`))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[handler.SaveResponse](t, w).ID

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev notify.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.EventCreated, ev.Type)
	assert.Equal(t, id, ev.ID)
}
