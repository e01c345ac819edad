package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lightswitch/internal/models"
	"lightswitch/internal/service"
)

func TestEventsHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{enabled: true, parseSubject: "operator"}
	now := time.Now().UTC().Truncate(time.Second)
	hist := &mockHistory{events: []models.SwitchEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventModeChange, Description: "Switched to Light"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventError, Description: "read-error"},
	}}
	r := newTestRouter(&service.Service{Authorization: auth, History: hist})

	// invalid 'from' → 400
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/events?from=notatime", nil), authHeader("valid")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// inverted range → 400, service untouched
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, "/api/v1/events?from=2026-10-19&to=2026-10-18", nil), authHeader("valid")))
	if w.Code != http.StatusBadRequest || hist.listCalls != 0 {
		t.Fatalf("expected 400 for inverted range, got %d (calls=%d)", w.Code, hist.listCalls)
	}

	// valid range, lowercase type normalized
	w = httptest.NewRecorder()
	q := "/api/v1/events?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=mode_change"
	r.ServeHTTP(w, withHeader(httptest.NewRequest(http.MethodGet, q, nil), authHeader("valid")))
	if w.Code != http.StatusOK {
		t.Fatalf("events status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                  `json:"count"`
		Events []models.SwitchEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if hist.lastFilter.Type != models.EventModeChange {
		t.Fatalf("expected type MODE_CHANGE, got %q", hist.lastFilter.Type)
	}
	if !hist.lastFilter.From.Equal(now) {
		t.Fatalf("from: got %v, want %v", hist.lastFilter.From, now)
	}
}

func TestEventsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	hist := &mockHistory{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, History: hist})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events?to=2026-10-19", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	want := time.Date(2026, 10, 19, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !hist.lastFilter.To.Equal(want) {
		t.Fatalf("to: got %v, want %v", hist.lastFilter.To, want)
	}
}

func TestEventsHandler_ServiceError(t *testing.T) {
	hist := &mockHistory{listErr: errors.New("db gone")}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, History: hist})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-10-19T07:30:00Z", time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC), true},
		{"2026-10-19T09:30:00+02:00", time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC), true},
		{"2026-10-19 07:30:00", time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC), true},
		{"2026-10-19", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), true},
		{"19-10-2026", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: err=%v, want ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}
