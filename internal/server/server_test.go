package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/EmuxEvans/mbed-ls/internal/boards"
	"github.com/EmuxEvans/mbed-ls/internal/inventory"
	"github.com/EmuxEvans/mbed-ls/internal/tooling"
)

type fakeEnumerator struct {
	calls int
	list  []boards.Board
	err   error
}

func (f *fakeEnumerator) Enumerate(ctx context.Context) ([]boards.Board, error) {
	f.calls++
	return f.list, f.err
}

func s(v string) *string { return &v }

func board() boards.Board {
	return boards.Board{
		MountPoint:   s("/Volumes/MBED"),
		SerialPort:   s("/dev/tty.usbmodem1422"),
		TargetID:     s("0240000032044e4500257009997b00386781000097969900"),
		PlatformName: s("K64F"),
	}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := New(Options{Enumerator: &fakeEnumerator{}, Logger: zerolog.Nop()}).Router()

	rr := do(t, h, "GET", "/api/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok":true`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestBoardsCachedAndRefresh(t *testing.T) {
	fe := &fakeEnumerator{list: []boards.Board{board()}}
	h := New(Options{Enumerator: fe, CacheTTL: time.Minute, Logger: zerolog.Nop()}).Router()

	for i := 0; i < 3; i++ {
		rr := do(t, h, "GET", "/api/boards")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var got []boards.Board
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || *got[0].PlatformName != "K64F" {
			t.Fatalf("boards = %+v", got)
		}
	}
	if fe.calls != 1 {
		t.Fatalf("enumerate called %d times, want 1", fe.calls)
	}

	do(t, h, "GET", "/api/boards?refresh=1")
	if fe.calls != 2 {
		t.Fatalf("refresh did not bypass cache: %d calls", fe.calls)
	}
}

func TestBoardsNoCache(t *testing.T) {
	fe := &fakeEnumerator{}
	h := New(Options{Enumerator: fe, Logger: zerolog.Nop()}).Router()

	rr := do(t, h, "GET", "/api/boards")
	do(t, h, "GET", "/api/boards")
	if fe.calls != 2 {
		t.Fatalf("calls = %d", fe.calls)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("empty enumeration body = %q", rr.Body.String())
	}
}

func TestBoardsToolingUnavailable(t *testing.T) {
	fe := &fakeEnumerator{err: fmt.Errorf("usb registry: %w", tooling.Unavailable("ioreg", errors.New("exit status 1")))}
	h := New(Options{Enumerator: fe, CacheTTL: time.Minute, Logger: zerolog.Nop()}).Router()

	rr := do(t, h, "GET", "/api/boards")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ioreg") {
		t.Fatalf("body = %s", rr.Body.String())
	}

	// Failures are not cached
	do(t, h, "GET", "/api/boards")
	if fe.calls != 2 {
		t.Fatalf("calls = %d", fe.calls)
	}
}

func TestBoardsOtherError(t *testing.T) {
	fe := &fakeEnumerator{err: errors.New("boom")}
	h := New(Options{Enumerator: fe, Logger: zerolog.Nop()}).Router()

	if rr := do(t, h, "GET", "/api/boards"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMetrics(t *testing.T) {
	fe := &fakeEnumerator{list: []boards.Board{board(), board()}}
	h := New(Options{Enumerator: fe, Logger: zerolog.Nop()}).Router()

	do(t, h, "GET", "/api/boards")
	body := do(t, h, "GET", "/metrics").Body.String()
	for _, want := range []string{
		`mbedls_enumerations_total{result="ok"} 1`,
		"mbedls_boards_detected 2",
		"mbedls_enumerate_duration_seconds_count 1",
		"mbedls_build_info",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestInventoryRoutes(t *testing.T) {
	db, err := inventory.New(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("open inventory: %v", err)
	}
	defer db.Close()

	fe := &fakeEnumerator{list: []boards.Board{board()}}
	h := New(Options{Enumerator: fe, Inventory: db, Logger: zerolog.Nop()}).Router()

	rr := do(t, h, "POST", "/api/inventory/sync")
	if rr.Code != http.StatusOK {
		t.Fatalf("sync status = %d: %s", rr.Code, rr.Body.String())
	}
	var res inventory.SyncResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Attached) != 1 || res.ScanID == "" {
		t.Fatalf("sync = %+v", res)
	}

	var list []inventory.BoardRecord
	rr = do(t, h, "GET", "/api/inventory/boards?present=1")
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("inventory boards = %s (%v)", rr.Body.String(), err)
	}

	var events []inventory.BoardEvent
	rr = do(t, h, "GET", "/api/inventory/boards/"+*board().TargetID+"/events")
	if err := json.Unmarshal(rr.Body.Bytes(), &events); err != nil || len(events) != 1 {
		t.Fatalf("board events = %s (%v)", rr.Body.String(), err)
	}
	if events[0].EventType != inventory.EventAttached {
		t.Fatalf("event = %+v", events[0])
	}

	rr = do(t, h, "GET", "/api/inventory/events?limit=5")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), inventory.EventAttached) {
		t.Fatalf("events = %d %s", rr.Code, rr.Body.String())
	}
}

func TestInventoryRoutesAbsentWithoutDB(t *testing.T) {
	h := New(Options{Enumerator: &fakeEnumerator{}, Logger: zerolog.Nop()}).Router()

	if rr := do(t, h, "GET", "/api/inventory/boards"); rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestStartSyncErrors(t *testing.T) {
	srv := New(Options{Enumerator: &fakeEnumerator{}, Logger: zerolog.Nop()})
	if _, err := srv.StartSync("@every 1m"); err == nil {
		t.Fatalf("expected error without inventory")
	}

	db, err := inventory.New(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("open inventory: %v", err)
	}
	defer db.Close()

	srv = New(Options{Enumerator: &fakeEnumerator{}, Inventory: db, Logger: zerolog.Nop()})
	if _, err := srv.StartSync("not a schedule"); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
	stop, err := srv.StartSync("@every 1h")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	stop()
}

func TestCORS(t *testing.T) {
	h := New(Options{
		Enumerator:  &fakeEnumerator{},
		CORSOrigins: []string{"http://localhost:5173"},
		Logger:      zerolog.Nop(),
	}).Router()

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
