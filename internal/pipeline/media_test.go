package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pmorvan/factuel/internal/model"
)

type staticKeys map[string]string

func (k staticKeys) Get(_ context.Context, provider string) (string, error) {
	key, ok := k[provider]
	if !ok {
		return "", errors.New("no key")
	}
	return key, nil
}

func TestMediaFinder_Find(t *testing.T) {
	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("searchType") != "image" {
			t.Errorf("expected image search, got query %v", r.URL.Query())
		}
		_, _ = w.Write([]byte(`{"items":[{"link":"https://img.example.com/ants.jpg"}]}`))
	}))
	defer imageServer.Close()

	videoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":{"videoId":"abc123"}}]}`))
	}))
	defer videoServer.Close()

	m := NewMediaFinder(staticKeys{"google-images": "k1", "youtube": "k2"}, nil,
		model.MediaConfig{Enabled: true, SearchEngineID: "cx-test"})
	m.SetEndpoints(imageServer.URL, videoServer.URL)

	media := m.Find(context.Background(), &model.GeneratedFact{Title: "Ants predict seismic activity"})
	if media.ImageURL != "https://img.example.com/ants.jpg" {
		t.Errorf("unexpected image url %q", media.ImageURL)
	}
	if media.VideoURL != "https://www.youtube.com/embed/abc123" {
		t.Errorf("unexpected video url %q", media.VideoURL)
	}
}

func TestMediaFinder_BestEffort(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer failing.Close()

	m := NewMediaFinder(staticKeys{"google-images": "k1", "youtube": "k2"}, nil,
		model.MediaConfig{Enabled: true, SearchEngineID: "cx-test"})
	m.SetEndpoints(failing.URL, failing.URL)

	media := m.Find(context.Background(), &model.GeneratedFact{Title: "anything"})
	if media.ImageURL != "" || media.VideoURL != "" {
		t.Errorf("failed lookups must yield empty media, got %+v", media)
	}
}

func TestMediaFinder_NoKeys(t *testing.T) {
	m := NewMediaFinder(staticKeys{}, nil, model.MediaConfig{Enabled: true, SearchEngineID: "cx-test"})
	media := m.Find(context.Background(), &model.GeneratedFact{Title: "anything"})
	if media.ImageURL != "" || media.VideoURL != "" {
		t.Errorf("missing keys must yield empty media, got %+v", media)
	}
}
