package sample

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/scienceol/tracerx/internal/testutil"
	"github.com/scienceol/tracerx/pkg/core/notify"
	"github.com/scienceol/tracerx/pkg/core/notify/events"
	"github.com/scienceol/tracerx/pkg/core/sample"
	impl "github.com/scienceol/tracerx/pkg/core/sample/sample"
	sStore "github.com/scienceol/tracerx/pkg/repo/sample"
)

func TestSampleFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	mc := events.New(&events.Config{PoolSize: 2})
	t.Cleanup(func() { _ = mc.Close(ctx) })

	svc := impl.New(&impl.Options{
		Store:     sStore.NewSampleImpl(testutil.DB(t)),
		MsgCenter: mc,
	})
	h := NewSampleHandle(ctx, svc, mc)
	t.Cleanup(func() { _ = h.Close() })

	g := gin.New()
	g.POST("/api/samples", h.CreateSamples)
	g.GET("/api/ws/samples", h.SampleFeed)
	srv := httptest.NewServer(g)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/samples"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.wsClient.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("websocket session never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	body := `[{"patientId":"P1","type":"Blood"},{"patientId":"P1","type":"Plasma"}]`
	resp, err := http.Post(srv.URL+"/api/samples", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post status = %d", resp.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg := map[string]any{}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if msg["action"] != string(notify.SamplesCreated) {
		t.Fatalf("action = %v", msg["action"])
	}
	barcodes, _ := msg["barcodes"].([]any)
	if len(barcodes) != 2 || barcodes[0] != "000001" || barcodes[1] != "000002" {
		t.Fatalf("barcodes = %v", msg["barcodes"])
	}
	if ts, _ := msg["timestamp"].(float64); ts <= 0 {
		t.Fatalf("timestamp = %v", msg["timestamp"])
	}
}

// ctxService records whether any call received gin's pooled context.
type ctxService struct {
	sample.Service
	ginCtx int
}

func (c *ctxService) check(ctx context.Context) {
	if _, ok := ctx.(*gin.Context); ok {
		c.ginCtx++
	}
}

func (c *ctxService) List(ctx context.Context) ([]*sample.SampleResp, error) {
	c.check(ctx)
	return []*sample.SampleResp{}, nil
}

func (c *ctxService) BatchCreate(ctx context.Context, _ []*sample.SampleReq) ([]string, error) {
	c.check(ctx)
	return []string{"000001"}, nil
}

func (c *ctxService) Derive(ctx context.Context, _ *sample.DeriveReq) ([]string, error) {
	c.check(ctx)
	return []string{"000002"}, nil
}

func (c *ctxService) GetByBarcode(ctx context.Context, _ string) (*sample.SampleResp, error) {
	c.check(ctx)
	return &sample.SampleResp{Barcode: "000001"}, nil
}

func (c *ctxService) NextBarcodes(ctx context.Context, _ int) ([]string, error) {
	c.check(ctx)
	return []string{"000003"}, nil
}

func TestHandlersPassRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &ctxService{}
	h := NewSampleHandle(context.Background(), svc, nil)
	t.Cleanup(func() { _ = h.Close() })

	g := gin.New()
	g.ContextWithFallback = true
	g.GET("/api/samples", h.ListSamples)
	g.POST("/api/samples", h.CreateSamples)
	g.POST("/api/samples/derive", h.DeriveSamples)
	g.GET("/api/samples/:barcode", h.GetSample)
	g.GET("/api/barcodes/next", h.NextBarcodes)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/samples", ""},
		{http.MethodPost, "/api/samples", `[{"patientId":"P1","type":"Blood"}]`},
		{http.MethodPost, "/api/samples/derive", `{"parentBarcodes":["000001"]}`},
		{http.MethodGet, "/api/samples/000001", ""},
		{http.MethodGet, "/api/barcodes/next?count=1", ""},
	} {
		rec := httptest.NewRecorder()
		g.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s %s status = %d, body = %s", tc.method, tc.path, rec.Code, rec.Body.String())
		}
	}
	if svc.ginCtx != 0 {
		t.Fatalf("%d service calls received the gin context", svc.ginCtx)
	}
}

func TestCreateSamplesNullElement(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSampleHandle(context.Background(), impl.New(&impl.Options{
		Store: sStore.NewSampleImpl(testutil.DB(t)),
	}), nil)
	t.Cleanup(func() { _ = h.Close() })

	g := gin.New()
	g.POST("/api/samples", h.CreateSamples)
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/samples", strings.NewReader(`[null]`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"invalid_payload"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
