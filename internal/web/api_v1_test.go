package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/render"
	"github.com/rook-computer/mapcanvas/internal/testutil/assert"
)

func newTestHost(t *testing.T) (*host.Registry, int) {
	t.Helper()

	reg := host.NewRegistry([]string{"world"}, nil)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	r, err := render.NewImageRenderer(img, render.WithReceivers("alice"))
	assert.NoError(t, err)
	id, err := reg.CreateMap("", r)
	assert.NoError(t, err)
	return reg, id
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
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

func TestListMaps(t *testing.T) {
	reg, id := newTestHost(t)
	h := NewMux(reg)

	rec := do(t, h, http.MethodGet, "/api/v1/maps", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	maps := decode[[]mapResponse](t, rec)
	assert.Equal(t, []mapResponse{{
		ID:    id,
		World: "world",
		Renderers: []rendererResponse{{
			Kind:       "image",
			RenderOnce: true,
			Receivers:  []string{"alice"},
		}},
	}}, maps)

	rec = do(t, h, http.MethodGet, "/api/v1/maps/99", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_map", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/api/v1/maps/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/maps", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestViewMap(t *testing.T) {
	reg, id := newTestHost(t)
	h := NewMux(reg)
	path := "/api/v1/maps/" + itoa(id) + "/view"

	rec := do(t, h, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_viewer", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodGet, path+"?viewer=alice", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_viewer", decode[apiError](t, rec).Error)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/viewers/alice", nil, "").Code)
	host.NewTicker(reg).Tick()

	rec = do(t, h, http.MethodGet, path+"?viewer=alice", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	assert.NoError(t, err)
	assert.Equal(t, render.MapBounds, img.Bounds())
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
}

func TestStopMap(t *testing.T) {
	reg, id := newTestHost(t)
	h := NewMux(reg)

	rec := do(t, h, http.MethodPost, "/api/v1/maps/"+itoa(id)+"/stop", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	info, _ := reg.Map(id)
	assert.True(t, info.Renderers[0].Stopped)

	rec = do(t, h, http.MethodGet, "/api/v1/maps/"+itoa(id)+"/stop", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/maps/42/stop", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func newStoredHost(t *testing.T) (*host.Registry, *host.MemoryStorage, int) {
	t.Helper()

	storage := host.NewMemoryStorage()
	reg := host.NewRegistry([]string{"world", "nether"}, storage)
	first, err := render.NewImageRenderer(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.NoError(t, err)
	second, err := render.NewTextRenderer([]string{"hi"})
	assert.NoError(t, err)
	id, err := reg.CreateMap("", first, second)
	assert.NoError(t, err)
	return reg, storage, id
}

func TestDeleteAndInitializeMap(t *testing.T) {
	reg, storage, id := newStoredHost(t)
	h := NewMux(reg)
	path := "/api/v1/maps/" + itoa(id)

	rec := do(t, h, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok := reg.Map(id)
	assert.False(t, ok)
	assert.Equal(t, 2, len(storage.Provide(id)))

	rec = do(t, h, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_map", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodPost, path+"/initialize?world=nether", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, initializedResponse{ID: id, Restored: true}, decode[initializedResponse](t, rec))
	info, ok := reg.Map(id)
	assert.True(t, ok)
	assert.Equal(t, "nether", info.World)
	assert.Equal(t, 2, len(info.Renderers))

	rec = do(t, h, http.MethodDelete, path+"?forget=true", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, storage.Provide(id))

	rec = do(t, h, http.MethodPost, path+"/initialize", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, initializedResponse{ID: id, Restored: false}, decode[initializedResponse](t, rec))
	info, _ = reg.Map(id)
	assert.Equal(t, "world", info.World)
	assert.Equal(t, 0, len(info.Renderers))

	rec = do(t, h, http.MethodPost, path+"/initialize?world=end", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_world", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodGet, path+"/initialize", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	rec = do(t, h, http.MethodPut, path, nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDetachRenderer(t *testing.T) {
	reg, storage, id := newStoredHost(t)
	h := NewMux(reg)
	base := "/api/v1/maps/" + itoa(id) + "/renderers/"

	rec := do(t, h, http.MethodDelete, base+"0", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	info, _ := reg.Map(id)
	assert.Equal(t, 1, len(info.Renderers))
	assert.Equal(t, render.KindText, info.Renderers[0].Kind)
	stored := storage.Provide(id)
	assert.Equal(t, 1, len(stored))
	assert.Equal(t, render.KindText, stored[0].Kind())

	rec = do(t, h, http.MethodDelete, base+"5", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_renderer", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodDelete, base+"x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, base+"0", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReceivers(t *testing.T) {
	reg, id := newTestHost(t)
	h := NewMux(reg)
	base := "/api/v1/maps/" + itoa(id) + "/renderers/"

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"0/receivers/bob", nil, "").Code)
	info, _ := reg.Map(id)
	assert.Equal(t, []render.ViewerID{"alice", "bob"}, info.Renderers[0].Receivers)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, base+"0/receivers/alice", nil, "").Code)
	info, _ = reg.Map(id)
	assert.Equal(t, []render.ViewerID{"bob"}, info.Renderers[0].Receivers)

	rec := do(t, h, http.MethodPost, base+"3/receivers/bob", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_renderer", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodPost, base+"x/receivers/bob", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewers(t *testing.T) {
	reg, _ := newTestHost(t)
	h := NewMux(reg)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/viewers/bob", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/viewers/alice", nil, "").Code)

	rec := do(t, h, http.MethodGet, "/api/v1/viewers", nil, "")
	assert.Equal(t, []string{"alice", "bob"}, decode[[]string](t, rec))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/api/v1/viewers/bob", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/v1/viewers/bob", nil, "").Code)
	assert.Equal(t, []render.ViewerID{"alice"}, reg.Viewers())
}

func TestCreateMap(t *testing.T) {
	reg, _ := newTestHost(t)
	h := NewMux(reg)

	var pngBuf bytes.Buffer
	assert.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 64, 32))))
	rec := do(t, h, http.MethodPost, "/api/v1/maps", pngBuf.Bytes(), "image/png")
	assert.Equal(t, http.StatusCreated, rec.Code)
	created := decode[createdResponse](t, rec)
	info, ok := reg.Map(created.ID)
	assert.True(t, ok)
	assert.Equal(t, render.KindImage, info.Renderers[0].Kind)

	anim := &gif.GIF{LoopCount: 1}
	for i := 0; i < 2; i++ {
		anim.Image = append(anim.Image, image.NewPaletted(image.Rect(0, 0, 16, 16), palette.Plan9))
		anim.Delay = append(anim.Delay, 100)
	}
	var gifBuf bytes.Buffer
	assert.NoError(t, gif.EncodeAll(&gifBuf, anim))
	rec = do(t, h, http.MethodPost, "/api/v1/maps", gifBuf.Bytes(), "image/gif")
	assert.Equal(t, http.StatusCreated, rec.Code)
	info, _ = reg.Map(decode[createdResponse](t, rec).ID)
	assert.Equal(t, render.KindGIF, info.Renderers[0].Kind)

	rec = do(t, h, http.MethodPost, "/api/v1/maps", []byte("nope"), "image/png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_image", decode[apiError](t, rec).Error)

	rec = do(t, h, http.MethodPost, "/api/v1/maps?world=mars", pngBuf.Bytes(), "image/png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_world", decode[apiError](t, rec).Error)
}

func TestUnknownRoute(t *testing.T) {
	reg, _ := newTestHost(t)

	rec := do(t, NewMux(reg), http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[apiError](t, rec).Error)
}

func TestDevCORS(t *testing.T) {
	reg, _ := newTestHost(t)
	h := WithDevCORS(NewMux(reg))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/maps", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPServerLifecycle(t *testing.T) {
	reg, _ := newTestHost(t)
	srv := NewHTTPServer(ServerConfig{ListenAddr: "127.0.0.1:0"}, reg)

	assert.NoError(t, srv.Start(t.Context()))
	resp, err := http.Get("http://" + srv.ListenAddr() + "/api/v1/maps")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, srv.Stop())
	assert.NoError(t, srv.Stop())
	assert.True(t, srv.Start(t.Context()) != nil)
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	os.Unsetenv(EnvListenAddr)
	t.Setenv(EnvDevMode, "true")
	cfg, err := DefaultServerConfigFromEnv(DefaultListenAddr)
	assert.NoError(t, err)
	assert.Equal(t, ServerConfig{ListenAddr: DefaultListenAddr, DevMode: true}, cfg)

	t.Setenv(EnvListenAddr, "")
	cfg, err = DefaultServerConfigFromEnv(DefaultListenAddr)
	assert.NoError(t, err)
	assert.Equal(t, "", cfg.ListenAddr)

	t.Setenv(EnvDevMode, "maybe")
	_, err = DefaultServerConfigFromEnv(DefaultListenAddr)
	assert.True(t, err != nil)
}

func itoa(i int) string { return strconv.Itoa(i) }
