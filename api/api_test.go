package api

import (
	"bufio"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/sky-node-escape/event"
	"github.com/hoshinonyaruko/sky-node-escape/memimg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

type fakeDriver struct {
	intents []structs.Intent
	sizes   [][2]int
	full    bool
	snap    structs.Snapshot
}

func (f *fakeDriver) Send(i structs.Intent) bool {
	if f.full {
		return false
	}
	f.intents = append(f.intents, i)
	return true
}

func (f *fakeDriver) Resize(w, h int) bool {
	f.sizes = append(f.sizes, [2]int{w, h})
	return true
}

func (f *fakeDriver) Snapshot() structs.Snapshot { return f.snap }

func newTestRouter(t *testing.T) (*gin.Engine, *fakeDriver, *memimg.FrameStore, *event.Bus) {
	gin.SetMode(gin.TestMode)
	d := &fakeDriver{snap: structs.Snapshot{State: structs.StatePlaying, Score: 42, HighScore: 99}}
	frames := memimg.NewFrameStore()
	bus := event.NewBus()
	return NewRouter(d, frames, bus, t.TempDir()), d, frames, bus
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestIntentRoute(t *testing.T) {
	r, d, _, _ := newTestRouter(t)

	if w := do(r, http.MethodPost, "/intent/flap"); w.Code != http.StatusAccepted {
		t.Fatalf("flap: code = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/intent/jump"); w.Code != http.StatusAccepted {
		t.Fatalf("jump alias: code = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/intent/dance"); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown: code = %d", w.Code)
	}
	if len(d.intents) != 2 || d.intents[0] != structs.IntentFlap || d.intents[1] != structs.IntentFlap {
		t.Fatalf("intents = %v", d.intents)
	}

	d.full = true
	if w := do(r, http.MethodPost, "/intent/pause"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("full queue: code = %d", w.Code)
	}
}

func TestStatsRoute(t *testing.T) {
	r, _, _, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("empty stats body")
	}
	if !strings.Contains(w.Body.String(), "99") {
		t.Fatalf("high score missing from %s", w.Body.String())
	}
}

func TestResizeRoute(t *testing.T) {
	r, d, _, _ := newTestRouter(t)
	if w := do(r, http.MethodPost, "/resize?width=640&height=480"); w.Code != http.StatusAccepted {
		t.Fatalf("code = %d", w.Code)
	}
	for _, q := range []string{"", "?width=640", "?width=0&height=10", "?width=a&height=10"} {
		if w := do(r, http.MethodPost, "/resize"+q); w.Code != http.StatusBadRequest {
			t.Fatalf("%q: code = %d", q, w.Code)
		}
	}
	if len(d.sizes) != 1 || d.sizes[0] != [2]int{640, 480} {
		t.Fatalf("sizes = %v", d.sizes)
	}
}

func TestFrameRoute(t *testing.T) {
	r, _, frames, _ := newTestRouter(t)
	if w := do(r, http.MethodGet, "/frame.png"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("before any frame: code = %d", w.Code)
	}

	frames.Store(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	w := do(r, http.MethodGet, "/frame.png?width=100")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Fatalf("scaled size = %v", img.Bounds())
	}

	if w := do(r, http.MethodGet, "/frame.png?width=-3"); w.Code != http.StatusBadRequest {
		t.Fatalf("negative width: code = %d", w.Code)
	}
}

func TestSaveFrameRoute(t *testing.T) {
	r, _, frames, _ := newTestRouter(t)
	frames.Store(image.NewRGBA(image.Rect(0, 0, 20, 20)))
	w := do(r, http.MethodGet, "/frame")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", w.Code, w.Body.String())
	}
	var body struct {
		ImageURL string `json:"image_url"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if !strings.HasSuffix(body.ImageURL, "/static/frame.png") {
		t.Fatalf("image_url = %q", body.ImageURL)
	}
	if w := do(r, http.MethodGet, "/static/frame.png"); w.Code != http.StatusOK {
		t.Fatalf("static frame: code = %d", w.Code)
	}
}

func TestEventsStream(t *testing.T) {
	r, _, _, bus := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	type result struct {
		lines []string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := http.Get(srv.URL + "/events")
		if err != nil {
			done <- result{err: err}
			return
		}
		defer resp.Body.Close()
		var lines []string
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
			if strings.HasPrefix(sc.Text(), "data:") {
				break
			}
		}
		done <- result{lines: lines}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for bus.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	bus.Publish(structs.GameOverEvent{Score: 12, IsNewRecord: true})

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("get: %v", res.err)
		}
		joined := strings.Join(res.lines, "\n")
		if !strings.Contains(joined, "event:gameover") {
			t.Fatalf("stream = %q", joined)
		}
		if !strings.Contains(joined, "12") {
			t.Fatalf("score missing from %q", joined)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no event received")
	}
}
