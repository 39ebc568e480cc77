// Package viewer serves the last rendered frame and the engine status over
// HTTP. It is the display sink for clients that cannot render MCP image
// content.
package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gorilla/mux"

	"github.com/ironsheep/vision-tools-mcp/internal/pipeline"
)

// JPEGQuality is the quality of served frames.
const JPEGQuality = 80

const page = `<!doctype html>
<html><head><title>vision-tools-mcp</title></head>
<body style="background:#222;color:#ddd;font-family:monospace">
<img id="frame" src="/frame.jpg">
<pre id="status"></pre>
<script>
setInterval(function () {
  document.getElementById("frame").src = "/frame.jpg?t=" + Date.now();
  fetch("/status").then(r => r.json()).then(s => {
    document.getElementById("status").textContent = JSON.stringify(s, null, 2);
  });
}, 100);
</script>
</body></html>
`

// Viewer keeps the most recent frame shown to it. It implements
// pipeline.Sink.
type Viewer struct {
	status func() pipeline.Status

	mu     sync.RWMutex
	frame  image.Image
	report pipeline.FrameReport
	shown  int64
}

// New returns a Viewer. status, if non-nil, is served at /status.
func New(status func() pipeline.Status) *Viewer {
	return &Viewer{status: status}
}

// Show records frame as the latest rendered frame. frame must not be
// modified afterwards.
func (v *Viewer) Show(frame image.Image, report pipeline.FrameReport) {
	v.mu.Lock()
	v.frame, v.report = frame, report
	v.shown++
	v.mu.Unlock()
}

// Shown returns how many frames have been shown.
func (v *Viewer) Shown() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.shown
}

// Router returns the HTTP routes.
func (v *Viewer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", v.handleIndex).Methods("GET")
	r.HandleFunc("/frame.jpg", v.handleFrame).Methods("GET")
	r.HandleFunc("/report", v.handleReport).Methods("GET")
	r.HandleFunc("/status", v.handleStatus).Methods("GET")
	return r
}

// ListenAndServe serves the viewer on addr until ctx is done.
func (v *Viewer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:      v.Router(),
		Addr:         addr,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Viewer listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (v *Viewer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (v *Viewer) handleFrame(w http.ResponseWriter, _ *http.Request) {
	v.mu.RLock()
	frame := v.frame
	v.mu.RUnlock()

	if frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (v *Viewer) handleReport(w http.ResponseWriter, _ *http.Request) {
	v.mu.RLock()
	report, shown := v.report, v.shown
	v.mu.RUnlock()

	if shown == 0 {
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	}
	writeJSON(w, report)
}

func (v *Viewer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if v.status == nil {
		writeJSON(w, map[string]interface{}{"frames_shown": v.Shown()})
		return
	}
	writeJSON(w, v.status())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
