package dataclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shiftsched/workforce/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetResolvedMembers_FlattensDedupesAndFiltersInactive(t *testing.T) {
	body := map[string]any{
		"data": []map[string]any{
			{
				"group_id":   "g2",
				"group_name": "Zebra",
				"members": []domain.Staff{
					{ID: "s1", Name: "Zed", Status: domain.StaffActive},
				},
			},
			{
				"group_id":   "g1",
				"group_name": "Alpha",
				"members": []domain.Staff{
					{ID: "s2", Name: "Bob", Status: domain.StaffActive},
					{ID: "s3", Name: "Ann", Status: domain.StaffInactive},
					{ID: "s1", Name: "Zed", Status: domain.StaffActive},
				},
			},
		},
		"total": 3,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client := New(srv.URL, discardLogger())
	staff, err := client.GetResolvedMembers(context.Background(), "hq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(staff) != 2 {
		t.Fatalf("got %d staff, want 2 (Ann inactive, Zed deduped)", len(staff))
	}
	if staff[0].Name != "Bob" || staff[1].Name != "Zed" {
		t.Fatalf("staff = %+v, want [Bob, Zed] ordered by group name then staff name", staff)
	}
}

func TestGetResolvedMembers_MapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, discardLogger())
	_, err := client.GetResolvedMembers(context.Background(), "missing")

	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestGetResolvedMembers_MapsServerErrorToExternalService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := New(srv.URL, discardLogger())
	_, err := client.GetResolvedMembers(context.Background(), "hq")

	if domain.KindOf(err) != domain.KindExternalService {
		t.Fatalf("expected KindExternalService, got %v", err)
	}
}
