package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/models"
	"github.com/kitchen-cart/internal/provider"
	"github.com/kitchen-cart/internal/repository"
	"github.com/kitchen-cart/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
)

const routerTestDocument = `{
  "stores": ["Patel Brothers"],
  "units": [{"name": "Pound", "abbreviation": "lb"}, {"name": "Kilogram", "abbreviation": "kg"}],
  "items": [
    {"id": "i1", "name": "Rice", "category": "Dry goods & grains", "store": "Patel Brothers", "unit": "lb"}
  ],
  "publishedCarts": [],
  "extraItemsHistory": []
}`

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

// switchableRepository 在 failSave 打开时让写入失败，读取仍走真实存储
type switchableRepository struct {
	repository.DocumentRepository
	failSave atomic.Bool
}

func (r *switchableRepository) Save(ctx context.Context, body []byte) error {
	if r.failSave.Load() {
		return errors.New("disk full")
	}
	return r.DocumentRepository.Save(ctx, body)
}

type routerFixture struct {
	engine *gin.Engine
	c      *provider.Container
	path   string
	repo   *switchableRepository
}

func newRouterFixture(t *testing.T, configure func(cfg *config.Config)) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.FilePath = filepath.Join(dir, "items.json")
	cfg.Draft.FilePath = filepath.Join(dir, "cart-draft.json")
	cfg.Backup.Dir = filepath.Join(dir, "backups")
	if configure != nil {
		configure(cfg)
	}

	c := provider.NewContainer(cfg)
	t.Cleanup(c.Close)

	repo := &switchableRepository{DocumentRepository: c.DocumentRepo}
	c.DocumentRepo = repo
	c.DocumentService = service.NewDocumentService(repo, c.QueueClient, c.Metrics)
	c.DocumentClient = service.NewLocalDocumentClient(c.DocumentService)
	c.Session = service.NewSession(c.DocumentClient, c.DraftStore, nil)

	if err := c.DocumentService.Replace(context.Background(), []byte(routerTestDocument)); err != nil {
		t.Fatalf("seed document failed: %v", err)
	}
	if err := c.Session.Load(context.Background()); err != nil {
		t.Fatalf("load session failed: %v", err)
	}
	return &routerFixture{engine: SetupRouter(cfg, c), c: c, path: cfg.Storage.FilePath, repo: repo}
}

func setupRouterTest(t *testing.T) (*gin.Engine, *provider.Container, string) {
	t.Helper()
	fx := newRouterFixture(t, nil)
	return fx.engine, fx.c, fx.path
}

func serve(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal envelope failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestItemsEndpointContract(t *testing.T) {
	r, _, path := setupRouterTest(t)

	w := serve(t, r, http.MethodGet, "/api/items", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/items status want 200 got %d", w.Code)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("GET body should be the raw document: %v", err)
	}
	if _, ok := doc["items"]; !ok {
		t.Fatalf("document missing items: %s", w.Body.String())
	}

	w = serve(t, r, http.MethodPut, "/api/items", `{"stores":[],"units":[],"items":[],"note":"kept"}`)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"success":true}` {
		t.Fatalf("PUT want 200 {\"success\":true} got %d %s", w.Code, w.Body.String())
	}
	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored document failed: %v", err)
	}
	if !strings.Contains(string(stored), "\n  \"note\": \"kept\"") {
		t.Fatalf("stored document should be two-space indented, got %s", stored)
	}

	w = serve(t, r, http.MethodPut, "/api/items", `{not json`)
	if w.Code != http.StatusInternalServerError || strings.TrimSpace(w.Body.String()) != `{"error":"Failed to write items"}` {
		t.Fatalf("malformed PUT want 500 write error got %d %s", w.Code, w.Body.String())
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove document failed: %v", err)
	}
	w = serve(t, r, http.MethodGet, "/api/items", "")
	if w.Code != http.StatusInternalServerError || strings.TrimSpace(w.Body.String()) != `{"error":"Failed to read items"}` {
		t.Fatalf("missing document want 500 read error got %d %s", w.Code, w.Body.String())
	}
}

func TestCartPublishFlow(t *testing.T) {
	r, c, _ := setupRouterTest(t)

	w := serve(t, r, http.MethodPost, "/api/v1/cart/items", `{"itemId":"i1","quantity":0,"unit":"lb"}`)
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 400 || resp.Msg != "Please enter a quantity greater than 0" {
		t.Fatalf("zero quantity should be rejected, got %+v", resp)
	}

	w = serve(t, r, http.MethodPost, "/api/v1/cart/items", `{"itemId":"i1","quantity":2,"unit":"kg"}`)
	if resp = decodeEnvelope(t, w); resp.StatusCode != 0 {
		t.Fatalf("add to cart failed: %+v", resp)
	}

	w = serve(t, r, http.MethodPost, "/api/v1/cart/publish", "")
	if resp = decodeEnvelope(t, w); resp.StatusCode != 0 {
		t.Fatalf("publish failed: %+v", resp)
	}
	var published struct {
		ID    string `json:"id"`
		Items []struct {
			Name string `json:"name"`
			Unit string `json:"unit"`
		} `json:"items"`
	}
	if err := json.Unmarshal(resp.Data, &published); err != nil {
		t.Fatalf("decode published cart failed: %v", err)
	}
	if !strings.HasPrefix(published.ID, "published-") || len(published.Items) != 1 || published.Items[0].Unit != "kg" {
		t.Fatalf("unexpected published cart: %+v", published)
	}
	if len(c.Session.Cart()) != 0 {
		t.Fatalf("cart should be empty after publish")
	}

	w = serve(t, r, http.MethodPost, "/api/v1/cart/publish", "")
	if resp = decodeEnvelope(t, w); resp.Msg != "Your cart is empty. Add items before publishing." {
		t.Fatalf("empty publish should be rejected, got %+v", resp)
	}

	w = serve(t, r, http.MethodGet, "/api/items", "")
	if !strings.Contains(w.Body.String(), published.ID) {
		t.Fatalf("published cart should be persisted, got %s", w.Body.String())
	}

	w = serve(t, r, http.MethodDelete, "/api/v1/published-carts/unknown", "")
	resp = decodeEnvelope(t, w)
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"changed":false`) {
		t.Fatalf("unknown published cart delete should be a no-op, got %+v", resp)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _, _ := setupRouterTest(t)

	w := serve(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health check failed: %d %s", w.Code, w.Body.String())
	}

	serve(t, r, http.MethodGet, "/api/items", "")
	w = serve(t, r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "document_operation_success_total") {
		t.Fatalf("document metrics not exported")
	}
	if !strings.Contains(w.Body.String(), `route="/api/items"`) {
		t.Fatalf("http metrics not exported")
	}
}

func decodeData(t *testing.T, resp envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, resp.Data)
	}
}

func parseQuantity(t *testing.T, raw string) models.Quantity {
	t.Helper()
	q, err := models.ParseQuantity(raw)
	if err != nil {
		t.Fatalf("parse quantity failed: %v", err)
	}
	return q
}

type changedData struct {
	Changed   bool   `json:"changed"`
	RequestID string `json:"request_id"`
}

func addRiceLine(t *testing.T, r *gin.Engine, body string) models.CartLine {
	t.Helper()
	resp := decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/items", body))
	if resp.StatusCode != 0 {
		t.Fatalf("add to cart failed: %+v", resp)
	}
	var line models.CartLine
	decodeData(t, resp, &line)
	return line
}

func TestUpdateAndRemoveCartItemRoutes(t *testing.T) {
	r, c, _ := setupRouterTest(t)
	line := addRiceLine(t, r, `{"itemId":"i1","quantity":2}`)
	if line.Unit != "lb" {
		t.Fatalf("empty unit should default to catalog unit, got %s", line.Unit)
	}
	path := "/api/v1/cart/items/" + line.ID

	resp := decodeEnvelope(t, serve(t, r, http.MethodPatch, path, `{}`))
	if resp.StatusCode != 400 {
		t.Fatalf("patch without fields want 400 got %+v", resp)
	}

	var data changedData
	resp = decodeEnvelope(t, serve(t, r, http.MethodPatch, path, `{"quantity":0}`))
	decodeData(t, resp, &data)
	if resp.StatusCode != 0 || data.Changed {
		t.Fatalf("non-positive quantity should be ignored, got %+v %s", resp, resp.Data)
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPatch, path, `{"quantity":0,"unit":"kg"}`))
	decodeData(t, resp, &data)
	if !data.Changed {
		t.Fatalf("unit change should apply even when quantity is ignored: %s", resp.Data)
	}
	cart := c.Session.Cart()
	if cart[0].Unit != "kg" || !cart[0].Quantity.Equal(models.QuantityFromInt(2).Decimal) {
		t.Fatalf("want 2 kg after patch, got %s %s", cart[0].Quantity, cart[0].Unit)
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPatch, path, `{"quantity":"1.5"}`))
	decodeData(t, resp, &data)
	if !data.Changed || !c.Session.Cart()[0].Quantity.Equal(parseQuantity(t, "1.5").Decimal) {
		t.Fatalf("quantity update failed: %s %+v", resp.Data, c.Session.Cart())
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPatch, "/api/v1/cart/items/missing", `{"quantity":1}`))
	decodeData(t, resp, &data)
	if resp.StatusCode != 0 || data.Changed {
		t.Fatalf("unknown line patch should be a no-op, got %s", resp.Data)
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodDelete, path, ""))
	decodeData(t, resp, &data)
	if !data.Changed || len(c.Session.Cart()) != 0 {
		t.Fatalf("remove failed: %s", resp.Data)
	}
	resp = decodeEnvelope(t, serve(t, r, http.MethodDelete, path, ""))
	decodeData(t, resp, &data)
	if data.Changed {
		t.Fatalf("second remove should be a no-op")
	}
}

func TestExtraItemRoutes(t *testing.T) {
	r, c, _ := setupRouterTest(t)

	resp := decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/extra-items", `{"name":"  ","unit":"g","quantity":1}`))
	if resp.StatusCode != 400 || resp.Msg != "Please enter an item name" {
		t.Fatalf("blank name should be rejected, got %+v", resp)
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/extra-items", `{"name":"Saffron","unit":"g","quantity":1,"store":" "}`))
	if resp.StatusCode != 0 {
		t.Fatalf("add extra item failed: %+v", resp)
	}
	var added struct {
		Entry models.ExtraItem `json:"entry"`
		Line  models.CartLine  `json:"line"`
	}
	decodeData(t, resp, &added)
	if added.Entry.ID == "" || added.Entry.Store != nil || added.Line.ItemID != added.Entry.ID {
		t.Fatalf("unexpected extra item payload: %s", resp.Data)
	}

	historyPath := "/api/v1/cart/history/" + added.Entry.ID
	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, historyPath, `{"quantity":0}`))
	if resp.StatusCode != 400 {
		t.Fatalf("quick add with zero quantity want 400 got %+v", resp)
	}
	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, historyPath, `{"quantity":3}`))
	var quick struct {
		Changed bool            `json:"changed"`
		Line    models.CartLine `json:"line"`
	}
	decodeData(t, resp, &quick)
	if !quick.Changed || quick.Line.Name != "Saffron" || !quick.Line.Quantity.Equal(models.QuantityFromInt(3).Decimal) {
		t.Fatalf("quick add failed: %s", resp.Data)
	}
	if len(c.Session.Cart()) != 2 {
		t.Fatalf("cart should hold two saffron lines, got %d", len(c.Session.Cart()))
	}

	var data changedData
	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/history/missing", `{"quantity":1}`))
	decodeData(t, resp, &data)
	if resp.StatusCode != 0 || data.Changed {
		t.Fatalf("unknown history entry should be a no-op, got %s", resp.Data)
	}

	entryPath := "/api/v1/extra-items/" + added.Entry.ID
	resp = decodeEnvelope(t, serve(t, r, http.MethodPut, entryPath, `{"name":"Kesar","unit":"g","category":"Spices (whole)"}`))
	decodeData(t, resp, &data)
	if !data.Changed || c.Session.ExtraItems()[0].Name != "Kesar" {
		t.Fatalf("update extra item failed: %s", resp.Data)
	}
	if c.Session.Cart()[0].Name != "Saffron" {
		t.Fatalf("existing cart lines must keep the old name")
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPut, "/api/v1/extra-items/missing", `{"name":"Kesar"}`))
	decodeData(t, resp, &data)
	if data.Changed {
		t.Fatalf("unknown extra item update should be a no-op")
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodDelete, entryPath, ""))
	decodeData(t, resp, &data)
	if !data.Changed || len(c.Session.ExtraItems()) != 0 {
		t.Fatalf("delete extra item failed: %s", resp.Data)
	}
	if w := serve(t, r, http.MethodGet, "/api/items", ""); strings.Contains(w.Body.String(), "Kesar") {
		t.Fatalf("deleted entry should be gone from storage: %s", w.Body.String())
	}
	resp = decodeEnvelope(t, serve(t, r, http.MethodDelete, entryPath, ""))
	decodeData(t, resp, &data)
	if data.Changed {
		t.Fatalf("second delete should be a no-op")
	}
}

func TestPublishedCartUpdateAndCopyRoutes(t *testing.T) {
	r, c, _ := setupRouterTest(t)
	addRiceLine(t, r, `{"itemId":"i1","quantity":1,"unit":"lb"}`)
	resp := decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/publish", ""))
	var published struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &published)
	cartPath := "/api/v1/published-carts/" + published.ID

	resp = decodeEnvelope(t, serve(t, r, http.MethodPut, cartPath,
		`{"items":[{"id":"l1","itemId":"i1","name":"Rice","store":"Patel Brothers","quantity":0,"unit":"lb"}]}`))
	if resp.StatusCode != 400 || resp.Msg != "Please enter a quantity greater than 0" {
		t.Fatalf("zero quantity replacement should be rejected, got %+v", resp)
	}

	var data changedData
	resp = decodeEnvelope(t, serve(t, r, http.MethodPut, cartPath,
		`{"items":[{"id":"l1","itemId":"i1","name":"Rice","store":"Patel Brothers","quantity":4,"unit":"lb"}]}`))
	decodeData(t, resp, &data)
	if resp.StatusCode != 0 || !data.Changed {
		t.Fatalf("update published cart failed: %+v", resp)
	}
	items := c.Session.PublishedCarts()[0].Items
	if len(items) != 1 || items[0].AddedAt.IsZero() {
		t.Fatalf("replacement should be stored with addedAt filled: %+v", items)
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPut, "/api/v1/published-carts/missing", `{"items":[]}`))
	decodeData(t, resp, &data)
	if data.Changed {
		t.Fatalf("unknown published cart update should be a no-op")
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, cartPath+"/copy", ""))
	var copied struct {
		Changed bool              `json:"changed"`
		Items   []models.CartLine `json:"items"`
	}
	decodeData(t, resp, &copied)
	if !copied.Changed || len(copied.Items) != 1 || copied.Items[0].ID == "l1" {
		t.Fatalf("copy should add lines with fresh ids: %s", resp.Data)
	}
	cart := c.Session.Cart()
	if len(cart) != 1 || !cart[0].Quantity.Equal(models.QuantityFromInt(4).Decimal) {
		t.Fatalf("cart should hold the copied line: %+v", cart)
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/published-carts/missing/copy", ""))
	decodeData(t, resp, &copied)
	if copied.Changed || len(copied.Items) != 0 {
		t.Fatalf("unknown published cart copy should be a no-op: %s", resp.Data)
	}
}

func TestReloadSessionRoute(t *testing.T) {
	r, _, path := setupRouterTest(t)

	updated := strings.Replace(routerTestDocument, `"items": [`,
		`"items": [
    {"id": "i2", "name": "Toor dal", "category": "Lentils & pulses", "store": "Patel Brothers", "unit": "lb"},`, 1)
	if w := serve(t, r, http.MethodPut, "/api/items", updated); w.Code != http.StatusOK {
		t.Fatalf("replace document failed: %d %s", w.Code, w.Body.String())
	}

	resp := decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/session/reload", ""))
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), "Toor dal") {
		t.Fatalf("reload should pick up the stored document, got %+v %s", resp, resp.Data)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove document failed: %v", err)
	}
	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/session/reload", ""))
	if resp.StatusCode != 503 {
		t.Fatalf("reload without document want 503 got %+v", resp)
	}
}

func TestPersistFailureReturnsAppliedChanges(t *testing.T) {
	fx := newRouterFixture(t, nil)
	r := fx.engine
	addRiceLine(t, r, `{"itemId":"i1","quantity":1}`)
	resp := decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/publish", ""))
	var first struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &first)

	fx.repo.failSave.Store(true)

	addRiceLine(t, r, `{"itemId":"i1","quantity":2}`)
	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/publish", ""))
	var published struct {
		ID        string            `json:"id"`
		Items     []models.CartLine `json:"items"`
		RequestID string            `json:"request_id"`
	}
	decodeData(t, resp, &published)
	if resp.StatusCode != 500 || resp.Msg != "Failed to save changes" {
		t.Fatalf("publish persist failure want 500 envelope got %+v", resp)
	}
	if !strings.HasPrefix(published.ID, "published-") || len(published.Items) != 1 || published.RequestID == "" {
		t.Fatalf("publish failure should carry the snapshot and request id at the top level: %s", resp.Data)
	}
	if len(fx.c.Session.Cart()) != 0 || len(fx.c.Session.PublishedCarts()) != 2 {
		t.Fatalf("optimistic publish must not be rolled back")
	}

	resp = decodeEnvelope(t, serve(t, r, http.MethodPost, "/api/v1/cart/extra-items", `{"name":"Saffron","unit":"g","quantity":1}`))
	var extra struct {
		Entry     *models.ExtraItem `json:"entry"`
		Line      *models.CartLine  `json:"line"`
		RequestID string            `json:"request_id"`
	}
	decodeData(t, resp, &extra)
	if resp.StatusCode != 500 || extra.Entry == nil || extra.Line == nil || extra.RequestID == "" {
		t.Fatalf("extra item persist failure should carry entry and line: %+v %s", resp, resp.Data)
	}

	var data changedData
	resp = decodeEnvelope(t, serve(t, r, http.MethodDelete, "/api/v1/published-carts/"+first.ID, ""))
	decodeData(t, resp, &data)
	if resp.StatusCode != 500 || !data.Changed || data.RequestID == "" {
		t.Fatalf("delete persist failure should report changed with request id: %+v %s", resp, resp.Data)
	}

	fx.repo.failSave.Store(false)
	w := serve(t, r, http.MethodGet, "/api/items", "")
	if !strings.Contains(w.Body.String(), first.ID) || strings.Contains(w.Body.String(), published.ID) {
		t.Fatalf("storage should still hold the last successful write: %s", w.Body.String())
	}
}

func TestWriteRateLimitCoversCartRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse miniredis port failed: %v", err)
	}
	fx := newRouterFixture(t, func(cfg *config.Config) {
		cfg.Redis.Enabled = true
		cfg.Redis.Host = mr.Host()
		cfg.Redis.Port = port
		cfg.RateLimit.MaxRequests = 1
		cfg.RateLimit.WindowSeconds = 60
	})
	r := fx.engine

	line := addRiceLine(t, r, `{"itemId":"i1","quantity":1}`)

	w := serve(t, r, http.MethodPatch, "/api/v1/cart/items/"+line.ID, `{"quantity":2}`)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 429 {
		t.Fatalf("second write in window want 429 got %+v", resp)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("limited response should carry Retry-After")
	}

	for _, route := range []struct{ method, path, body string }{
		{http.MethodDelete, "/api/v1/cart/items/" + line.ID, ""},
		{http.MethodPost, "/api/v1/cart/history/missing", `{"quantity":1}`},
		{http.MethodPost, "/api/v1/published-carts/missing/copy", ""},
	} {
		if resp := decodeEnvelope(t, serve(t, r, route.method, route.path, route.body)); resp.StatusCode != 429 {
			t.Fatalf("%s %s should be rate limited, got %+v", route.method, route.path, resp)
		}
	}

	if resp := decodeEnvelope(t, serve(t, r, http.MethodGet, "/api/v1/cart", "")); resp.StatusCode != 0 {
		t.Fatalf("reads must not be rate limited, got %+v", resp)
	}
	if len(fx.c.Session.Cart()) != 1 {
		t.Fatalf("limited writes must not touch the cart")
	}
}
