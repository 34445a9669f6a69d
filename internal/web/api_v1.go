package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/imagetools"
	"github.com/rook-computer/mapcanvas/internal/render"
)

// MaxUploadBytes bounds the image accepted by POST /maps.
const MaxUploadBytes = 16 << 20

// MapHost is the part of host.Registry the API needs.
type MapHost interface {
	Maps() []host.MapInfo
	Map(id int) (host.MapInfo, bool)
	CreateMap(world string, renderers ...render.Renderer) (int, error)
	Initialize(id int, world string) (bool, error)
	RemoveMap(id int) bool
	ForgetMap(id int)
	DetachRenderer(id, index int) error
	Update(id int, fn func(m *host.Map) error) error
	Snapshot(id int, viewer render.ViewerID) (*image.RGBA, error)
	Join(viewer render.ViewerID) error
	Leave(viewer render.ViewerID) bool
	Viewers() []render.ViewerID
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type rendererResponse struct {
	Kind       string   `json:"kind"`
	Stopped    bool     `json:"stopped"`
	RenderOnce bool     `json:"renderOnce"`
	ForAll     bool     `json:"forAll"`
	Receivers  []string `json:"receivers"`
}

type mapResponse struct {
	ID        int                `json:"id"`
	World     string             `json:"world"`
	Renderers []rendererResponse `json:"renderers"`
}

type createdResponse struct {
	ID int `json:"id"`
}

type initializedResponse struct {
	ID       int  `json:"id"`
	Restored bool `json:"restored"`
}

func apiV1Router(mh MapHost) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/maps", func(w http.ResponseWriter, r *http.Request) { handleMaps(w, r, mh) })
	mux.HandleFunc("/maps/{id}", func(w http.ResponseWriter, r *http.Request) { handleMap(w, r, mh) })
	mux.HandleFunc("/maps/{id}/view", func(w http.ResponseWriter, r *http.Request) { handleView(w, r, mh) })
	mux.HandleFunc("/maps/{id}/stop", func(w http.ResponseWriter, r *http.Request) { handleStop(w, r, mh) })
	mux.HandleFunc("/maps/{id}/initialize", func(w http.ResponseWriter, r *http.Request) { handleInitialize(w, r, mh) })
	mux.HandleFunc("/maps/{id}/renderers/{index}", func(w http.ResponseWriter, r *http.Request) {
		handleRenderer(w, r, mh)
	})
	mux.HandleFunc("/maps/{id}/renderers/{index}/receivers/{viewer}", func(w http.ResponseWriter, r *http.Request) {
		handleReceiver(w, r, mh)
	})
	mux.HandleFunc("/viewers", func(w http.ResponseWriter, r *http.Request) { handleViewers(w, r, mh) })
	mux.HandleFunc("/viewers/{viewer}", func(w http.ResponseWriter, r *http.Request) { handleViewer(w, r, mh) })
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	return mux
}

func handleMaps(w http.ResponseWriter, r *http.Request, mh MapHost) {
	switch r.Method {
	case http.MethodGet:
		infos := mh.Maps()
		out := make([]mapResponse, 0, len(infos))
		for _, info := range infos {
			out = append(out, toMapResponse(info))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		handleCreateMap(w, r, mh)
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// handleCreateMap accepts an image body and creates a map showing it.
// Content-Type image/gif creates an animated map, anything else a static one
// resized to map size.
func handleCreateMap(w http.ResponseWriter, r *http.Request, mh MapHost) {
	body := http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	world := r.URL.Query().Get("world")

	var renderer render.Renderer
	if r.Header.Get("Content-Type") == "image/gif" {
		gif, repeat, err := imagetools.LoadGIF(body)
		if err != nil {
			writeDecodeError(w, err)
			return
		}
		if gif, err = imagetools.ResizeGIF(gif); err != nil {
			writeRenderError(w, err)
			return
		}
		if renderer, err = render.NewGIFRenderer(gif, render.WithRepeat(repeat)); err != nil {
			writeRenderError(w, err)
			return
		}
	} else {
		img, err := imagetools.LoadImage(body)
		if err != nil {
			writeDecodeError(w, err)
			return
		}
		resized, err := imagetools.ResizeToMapSize(img)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		if renderer, err = render.NewImageRenderer(resized); err != nil {
			writeRenderError(w, err)
			return
		}
	}

	id, err := mh.CreateMap(world, renderer)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func handleMap(w http.ResponseWriter, r *http.Request, mh MapHost) {
	id, ok := mapID(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		info, found := mh.Map(id)
		if !found {
			writeAPIError(w, http.StatusNotFound, "unknown_map", fmt.Sprintf("map %d does not exist", id))
			return
		}
		writeJSON(w, http.StatusOK, toMapResponse(info))
	case http.MethodDelete:
		// ?forget=true also drops the stored renderers; otherwise the map
		// can be brought back with POST /maps/{id}/initialize.
		forget, _ := strconv.ParseBool(r.URL.Query().Get("forget"))
		removed := mh.RemoveMap(id)
		if forget {
			mh.ForgetMap(id)
		}
		if !removed {
			writeAPIError(w, http.StatusNotFound, "unknown_map", fmt.Sprintf("map %d does not exist", id))
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// handleInitialize (re)creates a map and attaches the renderers stored for it.
func handleInitialize(w http.ResponseWriter, r *http.Request, mh MapHost) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, ok := mapID(w, r)
	if !ok {
		return
	}
	restored, err := mh.Initialize(id, r.URL.Query().Get("world"))
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, initializedResponse{ID: id, Restored: restored})
}

func handleRenderer(w http.ResponseWriter, r *http.Request, mh MapHost) {
	if r.Method != http.MethodDelete {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, ok := mapID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_index", "renderer index must be an integer")
		return
	}
	if err := mh.DetachRenderer(id, index); err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleView(w http.ResponseWriter, r *http.Request, mh MapHost) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, ok := mapID(w, r)
	if !ok {
		return
	}
	viewer := r.URL.Query().Get("viewer")
	if viewer == "" {
		writeAPIError(w, http.StatusBadRequest, "missing_viewer", "query parameter viewer is required")
		return
	}

	img, err := mh.Snapshot(id, render.ViewerID(viewer))
	if err != nil {
		writeRenderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = png.Encode(w, img)
}

func handleStop(w http.ResponseWriter, r *http.Request, mh MapHost) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, ok := mapID(w, r)
	if !ok {
		return
	}
	err := mh.Update(id, func(m *host.Map) error {
		for _, renderer := range m.Renderers() {
			renderer.Stop()
		}
		return nil
	})
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// handleReceiver adds (POST) or removes (DELETE) a receiver of one renderer.
func handleReceiver(w http.ResponseWriter, r *http.Request, mh MapHost) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, ok := mapID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_index", "renderer index must be an integer")
		return
	}
	viewer := render.ViewerID(r.PathValue("viewer"))

	err = mh.Update(id, func(m *host.Map) error {
		renderers := m.Renderers()
		if index < 0 || index >= len(renderers) {
			return fmt.Errorf("%w: map %d has %d renderers", host.ErrUnknownRenderer, id, len(renderers))
		}
		if r.Method == http.MethodPost {
			return renderers[index].AddReceiver(viewer)
		}
		_, err := renderers[index].RemoveReceiver(viewer)
		return err
	})
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleViewers(w http.ResponseWriter, r *http.Request, mh MapHost) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	viewers := mh.Viewers()
	out := make([]string, 0, len(viewers))
	for _, v := range viewers {
		out = append(out, string(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func handleViewer(w http.ResponseWriter, r *http.Request, mh MapHost) {
	viewer := render.ViewerID(r.PathValue("viewer"))
	switch r.Method {
	case http.MethodPost:
		if err := mh.Join(viewer); err != nil {
			writeRenderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	case http.MethodDelete:
		if !mh.Leave(viewer) {
			writeAPIError(w, http.StatusNotFound, "unknown_viewer", fmt.Sprintf("viewer %q is not online", viewer))
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func mapID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_id", "map id must be an integer")
		return 0, false
	}
	return id, true
}

func toMapResponse(info host.MapInfo) mapResponse {
	out := mapResponse{ID: info.ID, World: info.World, Renderers: make([]rendererResponse, 0, len(info.Renderers))}
	for _, ri := range info.Renderers {
		receivers := make([]string, 0, len(ri.Receivers))
		for _, v := range ri.Receivers {
			receivers = append(receivers, string(v))
		}
		out.Renderers = append(out.Renderers, rendererResponse{
			Kind:       string(ri.Kind),
			Stopped:    ri.Stopped,
			RenderOnce: ri.RenderOnce,
			ForAll:     ri.ForAll,
			Receivers:  receivers,
		})
	}
	return out
}

// writeRenderError maps host and render errors to status codes.
func writeRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, host.ErrUnknownMap):
		writeAPIError(w, http.StatusNotFound, "unknown_map", err.Error())
	case errors.Is(err, host.ErrUnknownViewer):
		writeAPIError(w, http.StatusNotFound, "unknown_viewer", err.Error())
	case errors.Is(err, host.ErrUnknownRenderer):
		writeAPIError(w, http.StatusNotFound, "unknown_renderer", err.Error())
	case errors.Is(err, host.ErrUnknownWorld):
		writeAPIError(w, http.StatusBadRequest, "unknown_world", err.Error())
	case errors.Is(err, render.ErrValidation):
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, render.ErrUnsupported):
		writeAPIError(w, http.StatusBadRequest, "unsupported", err.Error())
	default:
		writeAPIError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		writeAPIError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
		return
	}
	writeAPIError(w, http.StatusBadRequest, "invalid_image", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
