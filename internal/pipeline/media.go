package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pmorvan/factuel/internal/llm"
	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/worker"
)

const (
	imageSearchURL = "https://customsearch.googleapis.com/customsearch/v1"
	videoSearchURL = "https://www.googleapis.com/youtube/v3/search"
)

// Media holds the best-effort related media found for a fact.
type Media struct {
	ImageURL string
	VideoURL string
}

// MediaFinder looks up a public-domain image and a video related to a fact's
// title. Lookups are best-effort: a missing key or a failed search leaves
// the corresponding URL empty, it never fails the pipeline.
type MediaFinder struct {
	client         *http.Client
	keys           llm.KeySource
	limiter        *worker.Limiter
	searchEngineID string

	imageEndpoint string
	videoEndpoint string
}

// NewMediaFinder creates a finder using the given key source.
func NewMediaFinder(keySource llm.KeySource, limiter *worker.Limiter, cfg model.MediaConfig) *MediaFinder {
	return &MediaFinder{
		client:         &http.Client{Timeout: 15 * time.Second},
		keys:           keySource,
		limiter:        limiter,
		searchEngineID: cfg.SearchEngineID,
		imageEndpoint:  imageSearchURL,
		videoEndpoint:  videoSearchURL,
	}
}

// SetEndpoints overrides the search endpoints (used by tests).
func (m *MediaFinder) SetEndpoints(image, video string) {
	m.imageEndpoint = image
	m.videoEndpoint = video
}

// Find returns related media for the fact.
func (m *MediaFinder) Find(ctx context.Context, fact *model.GeneratedFact) Media {
	var media Media

	if m.searchEngineID != "" {
		if key, err := m.keys.Get(ctx, "google-images"); err == nil {
			media.ImageURL = m.findImage(ctx, key, fact.Title)
		}
	}
	if key, err := m.keys.Get(ctx, "youtube"); err == nil {
		media.VideoURL = m.findVideo(ctx, key, fact.Title)
	}
	return media
}

func (m *MediaFinder) findImage(ctx context.Context, apiKey, query string) string {
	params := url.Values{
		"key":        {apiKey},
		"cx":         {m.searchEngineID},
		"q":          {query},
		"searchType": {"image"},
		"num":        {"1"},
		"safe":       {"active"},
		"rights":     {"cc_publicdomain,cc_attribute,cc_sharealike"},
	}

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := m.getJSON(ctx, m.imageEndpoint, params, &result); err != nil {
		return ""
	}
	if len(result.Items) == 0 {
		return ""
	}
	return result.Items[0].Link
}

func (m *MediaFinder) findVideo(ctx context.Context, apiKey, query string) string {
	params := url.Values{
		"key":               {apiKey},
		"part":              {"snippet"},
		"q":                 {query + " science"},
		"type":              {"video"},
		"maxResults":        {"1"},
		"safeSearch":        {"strict"},
		"relevanceLanguage": {"fr"},
	}

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := m.getJSON(ctx, m.videoEndpoint, params, &result); err != nil {
		return ""
	}
	if len(result.Items) == 0 || result.Items[0].ID.VideoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + result.Items[0].ID.VideoID
}

func (m *MediaFinder) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx, u.Host); err != nil {
			return err
		}
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
