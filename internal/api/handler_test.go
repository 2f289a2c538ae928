package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sensorlog/presenced/internal/ingest"
	"github.com/sensorlog/presenced/internal/roster"
)

type stubStatus struct {
	state ingest.State
}

func (s stubStatus) State() ingest.State { return s.state }

func newTestHandler(t *testing.T, state ingest.State) (http.Handler, *roster.MemoryStore) {
	t.Helper()
	store := roster.NewMemoryStore()
	return New(store, stubStatus{state: state}), store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestListRoster(t *testing.T) {
	h, store := newTestHandler(t, ingest.StateListening)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.Insert(context.Background(), roster.Record{ID: "a", SecondaryID: "1", Name: "Alice", ArrivedAt: base})
	store.Insert(context.Background(), roster.Record{ID: "b", SecondaryID: "2", Name: "Bob", ArrivedAt: base.Add(time.Minute)})

	rr := get(t, h, "/v1/roster")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body struct {
		Count   int             `json:"count"`
		Records []roster.Record `json:"records"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || len(body.Records) != 2 {
		t.Fatalf("count = %d, records = %d, want 2 each", body.Count, len(body.Records))
	}
	if body.Records[0].Name != "Bob" {
		t.Errorf("records[0] = %q, want newest arrival Bob first", body.Records[0].Name)
	}
}

func TestListRoster_Empty(t *testing.T) {
	h, _ := newTestHandler(t, ingest.StateListening)
	rr := get(t, h, "/v1/roster")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body struct {
		Count   int             `json:"count"`
		Records []roster.Record `json:"records"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 0 || body.Records == nil {
		t.Errorf("empty roster should serialize as count 0 with an empty array, got %+v", body)
	}
}

func TestCheckPresence(t *testing.T) {
	h, store := newTestHandler(t, ingest.StateListening)
	store.Insert(context.Background(), roster.Record{ID: "a", Name: "Alice", ArrivedAt: time.Now()})

	for _, tc := range []struct {
		name    string
		present bool
	}{
		{"Alice", true},
		{"Nobody", false},
	} {
		rr := get(t, h, "/v1/roster/"+tc.name)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var body struct {
			Name    string `json:"name"`
			Present bool   `json:"present"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Name != tc.name || body.Present != tc.present {
			t.Errorf("presence of %s = %+v, want present=%v", tc.name, body, tc.present)
		}
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t, ingest.StateConnecting)
	if rr := get(t, h, "/healthz"); rr.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rr.Code)
	}
}

func TestReadyz(t *testing.T) {
	cases := []struct {
		state ingest.State
		want  int
	}{
		{ingest.StateListening, http.StatusOK},
		{ingest.StateConnecting, http.StatusServiceUnavailable},
		{ingest.StateDisconnected, http.StatusServiceUnavailable},
		{ingest.StateStopped, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.state.String(), func(t *testing.T) {
			h, _ := newTestHandler(t, tc.state)
			if rr := get(t, h, "/readyz"); rr.Code != tc.want {
				t.Errorf("readyz in state %v = %d, want %d", tc.state, rr.Code, tc.want)
			}
		})
	}
}

func TestMetricsEndpointRegistered(t *testing.T) {
	h, _ := newTestHandler(t, ingest.StateListening)
	if rr := get(t, h, "/metrics"); rr.Code != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", rr.Code)
	}
}
