package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/tracerx/internal/testutil"
	"github.com/scienceol/tracerx/pkg/common"
	"github.com/scienceol/tracerx/pkg/core/catalog"
	"github.com/scienceol/tracerx/pkg/core/notify/events"
	impl "github.com/scienceol/tracerx/pkg/core/sample/sample"
	sStore "github.com/scienceol/tracerx/pkg/repo/sample"
)

var wireKeys = []string{
	"id", "barcode", "ltxId", "patientId", "parentBarcode", "type", "investigationType",
	"status", "site", "timepoint", "specimen", "specNumber", "material", "sampleDate",
	"sampleTime", "freezer", "shelf", "box", "position", "volume", "amount",
	"concentration", "mass", "surplus", "sampleLevel", "comments",
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cat := catalog.Default()
	mc := events.New(&events.Config{PoolSize: 2})
	t.Cleanup(func() { _ = mc.Close(ctx) })

	g := gin.New()
	closeFn := Install(ctx, g, &Deps{
		Catalog: cat,
		Sample: impl.New(&impl.Options{
			Store:      sStore.NewSampleImpl(testutil.DB(t)),
			Catalog:    cat,
			MsgCenter:  mc,
			MaxRetries: 3,
		}),
		MsgCenter: mc,
	})
	t.Cleanup(closeFn)
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCreateMinimalThenList(t *testing.T) {
	g := newTestRouter(t)

	rec := do(t, g, http.MethodPost, "/api/samples", `[{"patientId":"P001","type":"Blood"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if msg := decode[common.MsgResp](t, rec); msg.Message != "Samples added successfully" {
		t.Fatalf("message = %q", msg.Message)
	}

	rec = do(t, g, http.MethodGet, "/api/samples", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	list := decode[[]map[string]any](t, rec)
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	got := list[0]
	if len(got) != len(wireKeys) {
		t.Fatalf("keys = %v, want %v", got, wireKeys)
	}
	for _, k := range wireKeys {
		v, ok := got[k]
		if !ok {
			t.Fatalf("missing key %q", k)
		}
		switch k {
		case "id":
			if s, _ := v.(string); s == "" {
				t.Fatalf("id empty")
			}
		case "barcode":
			if v != "000001" {
				t.Fatalf("barcode = %v", v)
			}
		case "patientId":
			if v != "P001" {
				t.Fatalf("patientId = %v", v)
			}
		case "type":
			if v != "Blood" {
				t.Fatalf("type = %v", v)
			}
		case "surplus":
			if v != false {
				t.Fatalf("surplus = %v", v)
			}
		default:
			if v != nil {
				t.Fatalf("%s = %v, want null", k, v)
			}
		}
	}
}

func TestCreateDateTimeRoundTrip(t *testing.T) {
	g := newTestRouter(t)
	body := `[
		{"patientId":"P1","type":"Blood","sampleDate":"2024-01-15","sampleTime":"09:30"},
		{"patientId":"P2","type":"Plasma","sampleDate":"2024-01-15","sampleTime":"09:30"}
	]`
	if rec := do(t, g, http.MethodPost, "/api/samples", body); rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body.String())
	}
	list := decode[[]map[string]any](t, do(t, g, http.MethodGet, "/api/samples", ""))
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	for _, s := range list {
		if s["sampleDate"] != "2024-01-15" || s["sampleTime"] != "09:30:00" {
			t.Fatalf("date/time = %v / %v", s["sampleDate"], s["sampleTime"])
		}
	}
}

func TestCreateIgnoresClientID(t *testing.T) {
	g := newTestRouter(t)
	body := `[{"id":"client-chosen","patientId":"P1","type":"Blood","barcode":"000777"}]`
	if rec := do(t, g, http.MethodPost, "/api/samples", body); rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decode[map[string]any](t, do(t, g, http.MethodGet, "/api/samples/000777", ""))
	if got["id"] == "client-chosen" || got["id"] == "" {
		t.Fatalf("id = %v", got["id"])
	}
}

func TestCreateErrorStatuses(t *testing.T) {
	g := newTestRouter(t)
	if rec := do(t, g, http.MethodPost, "/api/samples", `[{"patientId":"P1","type":"Blood","barcode":"000001"}]`); rec.Code != http.StatusOK {
		t.Fatalf("seed status = %d", rec.Code)
	}

	cases := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"object body", `{"patientId":"P1","type":"Blood"}`, http.StatusBadRequest, "invalid_payload"},
		{"array of numbers", `[1,2]`, http.StatusBadRequest, "invalid_payload"},
		{"null body", `null`, http.StatusBadRequest, "invalid_payload"},
		{"null element", `[null]`, http.StatusBadRequest, "invalid_payload"},
		{"null after object", `[{"patientId":"P1","type":"Blood"},null]`, http.StatusBadRequest, "invalid_payload"},
		{"broken json", `[{"patientId":`, http.StatusBadRequest, "invalid_payload"},
		{"bad date", `[{"patientId":"P1","type":"Blood","sampleDate":"2024-02-30"}]`, http.StatusBadRequest, "invalid_date"},
		{"bad time", `[{"patientId":"P1","type":"Blood","sampleTime":"noon"}]`, http.StatusBadRequest, "invalid_time"},
		{"missing type", `[{"patientId":"P1"}]`, http.StatusUnprocessableEntity, "missing_field"},
		{"missing patient", `[{"type":"Blood"}]`, http.StatusUnprocessableEntity, "missing_field"},
		{"duplicate barcode", `[{"patientId":"P1","type":"Blood","barcode":"000001"}]`, http.StatusConflict, "duplicate_barcode"},
		{"wrong field type", `[{"patientId":"P1","type":"Blood","volume":"lots"}]`, http.StatusBadRequest, "invalid_payload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, g, http.MethodPost, "/api/samples", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tc.status, rec.Body.String())
			}
			if resp := decode[common.ErrResp](t, rec); resp.Error != tc.kind || resp.Message == "" {
				t.Fatalf("resp = %+v, want kind %s", resp, tc.kind)
			}
		})
	}

	list := decode[[]map[string]any](t, do(t, g, http.MethodGet, "/api/samples", ""))
	if len(list) != 1 {
		t.Fatalf("rejected payloads persisted rows: %d", len(list))
	}
}

func TestMintBeyondColumnWidth(t *testing.T) {
	g := newTestRouter(t)
	if rec := do(t, g, http.MethodPost, "/api/samples", `[{"patientId":"P1","type":"Blood","barcode":"99999999999999999999"}]`); rec.Code != http.StatusOK {
		t.Fatalf("seed status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec := do(t, g, http.MethodPost, "/api/samples", `[{"patientId":"P1","type":"Blood"}]`)
	if rec.Code != http.StatusConflict || decode[common.ErrResp](t, rec).Error != "barcode_exhausted" {
		t.Fatalf("mint status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if list := decode[[]map[string]any](t, do(t, g, http.MethodGet, "/api/samples", "")); len(list) != 1 {
		t.Fatalf("len = %d", len(list))
	}
}

func TestCreateEmptyArray(t *testing.T) {
	g := newTestRouter(t)
	if rec := do(t, g, http.MethodPost, "/api/samples", `[]`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if list := decode[[]map[string]any](t, do(t, g, http.MethodGet, "/api/samples", "")); len(list) != 0 {
		t.Fatalf("len = %d", len(list))
	}
}

func TestGetSampleAndDerive(t *testing.T) {
	g := newTestRouter(t)
	if rec := do(t, g, http.MethodGet, "/api/samples/000001", ""); rec.Code != http.StatusNotFound ||
		decode[common.ErrResp](t, rec).Error != "sample_not_found" {
		t.Fatalf("missing sample status = %d, body = %s", rec.Code, rec.Body.String())
	}

	do(t, g, http.MethodPost, "/api/samples", `[{"patientId":"P5","type":"Tissue","site":"Cardiff"}]`)
	rec := do(t, g, http.MethodPost, "/api/samples/derive", `{"samples":[{"parentBarcode":"000001","type":"DNA"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("derive status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := decode[map[string]any](t, rec)
	barcodes, _ := out["barcodes"].([]any)
	if out["message"] != "Samples added successfully" || len(barcodes) != 1 || barcodes[0] != "000002" {
		t.Fatalf("derive resp = %v", out)
	}

	child := decode[map[string]any](t, do(t, g, http.MethodGet, "/api/samples/000002", ""))
	if child["patientId"] != "P5" || child["site"] != "Cardiff" || child["parentBarcode"] != "000001" || child["sampleLevel"] != "Derivative" {
		t.Fatalf("child = %v", child)
	}

	rec = do(t, g, http.MethodPost, "/api/samples/derive", `{"parentBarcodes":["424242"]}`)
	if rec.Code != http.StatusNotFound || decode[common.ErrResp](t, rec).Error != "parent_not_found" {
		t.Fatalf("unknown parent status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec = do(t, g, http.MethodPost, "/api/samples/derive", `{"samples":[null]}`)
	if rec.Code != http.StatusBadRequest || decode[common.ErrResp](t, rec).Error != "invalid_payload" {
		t.Fatalf("null child status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestNextBarcodes(t *testing.T) {
	g := newTestRouter(t)
	rec := do(t, g, http.MethodGet, "/api/barcodes/next?count=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[map[string][]string](t, rec)["barcodes"]
	if strings.Join(got, ",") != "000001,000002,000003" {
		t.Fatalf("barcodes = %v", got)
	}
	if got := decode[map[string][]string](t, do(t, g, http.MethodGet, "/api/barcodes/next", ""))["barcodes"]; len(got) != 1 {
		t.Fatalf("default count barcodes = %v", got)
	}
	for _, q := range []string{"abc", "0", "1001"} {
		if rec := do(t, g, http.MethodGet, "/api/barcodes/next?count="+q, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("count=%s status = %d", q, rec.Code)
		}
	}
}

func TestCatalogEndpoints(t *testing.T) {
	g := newTestRouter(t)
	all := decode[map[string][]string](t, do(t, g, http.MethodGet, "/api/catalog", ""))
	if len(all) != 12 || len(all[catalog.Sites]) != 17 {
		t.Fatalf("catalog = %v", all)
	}

	rec := do(t, g, http.MethodGet, "/api/catalog/materials", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	kind := decode[map[string]any](t, rec)
	if kind["kind"] != catalog.Materials {
		t.Fatalf("kind = %v", kind)
	}

	rec = do(t, g, http.MethodGet, "/api/catalog/planets", "")
	if rec.Code != http.StatusNotFound || decode[common.ErrResp](t, rec).Error != "catalog_kind_not_found" {
		t.Fatalf("unknown kind status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndStatic(t *testing.T) {
	g := newTestRouter(t)
	for _, path := range []string{"/api/health", "/api/health/live"} {
		if rec := do(t, g, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
	// the global datastore is not initialized in tests
	if rec := do(t, g, http.MethodGet, "/api/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d", rec.Code)
	}

	rec := do(t, g, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<title>tracerx samples</title>") {
		t.Fatalf("index status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("index content type = %q", ct)
	}
	if rec := do(t, g, http.MethodGet, "/main.js", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/api/samples") {
		t.Fatalf("script status = %d", rec.Code)
	}
}
