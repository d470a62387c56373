package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		name string
		args string
	}{
		{"/last 2", "last", "2"},
		{"/Backtest@SmaBot 3 10", "backtest", "3 10"},
		{"  /last  ", "last", ""},
		{"hello there", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		got := ParseCommand(tt.in)
		if got.Name != tt.name || strings.Join(got.Args, " ") != tt.args {
			t.Errorf("ParseCommand(%q) = %+v, want name=%q args=%q", tt.in, got, tt.name, tt.args)
		}
	}
}

// fakeBotAPI serves scripted getUpdates pages and records sendMessage texts.
type fakeBotAPI struct {
	t       *testing.T
	pages   []string
	cancel  context.CancelFunc
	mu      sync.Mutex
	offsets []string
	sent    []string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.HasSuffix(r.URL.Path, "/getUpdates"):
		f.offsets = append(f.offsets, r.URL.Query().Get("offset"))
		n := len(f.offsets)
		if n > len(f.pages) {
			f.cancel()
			w.Write([]byte(`{"ok":true,"result":[]}`))
			return
		}
		if f.pages[n-1] == "" {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(f.pages[n-1]))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			f.t.Errorf("decode sendMessage: %v", err)
		}
		f.sent = append(f.sent, payload["text"])
		w.Write([]byte(`{"ok":true}`))
	default:
		f.t.Errorf("unexpected path %s", r.URL.Path)
	}
}

func runPolling(t *testing.T, api *fakeBotAPI, handler CommandHandler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api.cancel = cancel

	srv := httptest.NewServer(api)
	defer srv.Close()
	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, handler)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}
}

func TestStartPolling_DispatchesConfiguredChatOnly(t *testing.T) {
	api := &fakeBotAPI{t: t, pages: []string{`{"ok":true,"result":[
		{"update_id":10,"message":{"text":"/last@SmaBot 2","chat":{"id":42}}},
		{"update_id":11,"message":{"text":"/backtest","chat":{"id":99}}}
	]}`}}

	var got []Command
	runPolling(t, api, func(_ context.Context, cmd Command) string {
		got = append(got, cmd)
		return "reply to " + cmd.Name
	})

	if len(got) != 1 || got[0].Name != "last" || strings.Join(got[0].Args, " ") != "2" {
		t.Fatalf("handled commands = %+v", got)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.sent) != 1 || api.sent[0] != "reply to last" {
		t.Errorf("sent = %q", api.sent)
	}
	if len(api.offsets) < 2 || api.offsets[0] != "0" || api.offsets[1] != "12" {
		t.Errorf("offsets = %q, want [0 12 ...]", api.offsets)
	}
}

func TestStartPolling_RetriesAfterError(t *testing.T) {
	old := pollRetryDelay
	pollRetryDelay = 10 * time.Millisecond
	defer func() { pollRetryDelay = old }()

	api := &fakeBotAPI{t: t, pages: []string{"", `{"ok":true,"result":[
		{"update_id":5,"message":{"text":"/last","chat":{"id":42}}}
	]}`}}

	calls := 0
	runPolling(t, api, func(_ context.Context, _ Command) string {
		calls++
		return ""
	})

	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.sent) != 0 {
		t.Errorf("empty reply should not be sent, got %q", api.sent)
	}
	if len(api.offsets) < 3 || api.offsets[0] != "0" || api.offsets[1] != "0" || api.offsets[2] != "6" {
		t.Errorf("offsets = %q, want [0 0 6 ...]", api.offsets)
	}
}
