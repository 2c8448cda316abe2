package images

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Fetcher resolves a vehicle make/model to a representative image URL via the
// Wikipedia page-summary API, caching results on disk so repeated lookups
// never leave the process.
type Fetcher struct {
	logger    *logrus.Logger
	cacheDir  string
	cache     map[string]string
	cacheLock sync.RWMutex
	client    *http.Client
	baseURL   string
}

func NewFetcher(logger *logrus.Logger, cacheDir string) *Fetcher {
	// Create cache directory if it doesn't exist
	os.MkdirAll(cacheDir, 0755)

	f := &Fetcher{
		logger:   logger,
		cacheDir: cacheDir,
		cache:    make(map[string]string),
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  "https://en.wikipedia.org/api/rest_v1/page/summary/",
	}

	// Load cache from file
	f.loadCache()

	return f
}

func (f *Fetcher) loadCache() {
	cacheFile := filepath.Join(f.cacheDir, "image_cache.json")
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		f.logger.Warnf("Could not load image cache: %v", err)
		return
	}

	err = json.Unmarshal(data, &f.cache)
	if err != nil {
		f.logger.Errorf("Failed to parse image cache: %v", err)
		return
	}

	f.logger.Infof("Loaded %d cached vehicle images", len(f.cache))
}

func (f *Fetcher) saveCache() {
	f.cacheLock.RLock()
	defer f.cacheLock.RUnlock()

	cacheFile := filepath.Join(f.cacheDir, "image_cache.json")
	data, err := json.Marshal(f.cache)
	if err != nil {
		f.logger.Errorf("Failed to marshal image cache: %v", err)
		return
	}

	err = os.WriteFile(cacheFile, data, 0644)
	if err != nil {
		f.logger.Errorf("Failed to save image cache: %v", err)
		return
	}

	f.logger.Info("Saved image cache to disk")
}

type pageSummary struct {
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
}

// VehicleImage returns an image URL for the given make and model, or an error
// when Wikipedia has no page or no image for it.
func (f *Fetcher) VehicleImage(makeName, model string) (string, error) {
	cacheKey := fmt.Sprintf("%s|%s", strings.ToLower(makeName), strings.ToLower(model))
	pageTitle := strings.ReplaceAll(strings.TrimSpace(makeName+" "+model), " ", "_")

	// Check cache first
	f.cacheLock.RLock()
	if imageURL, ok := f.cache[cacheKey]; ok {
		f.cacheLock.RUnlock()
		if imageURL != "" {
			f.logger.WithFields(logrus.Fields{
				"page":   pageTitle,
				"source": "cache",
			}).Debug("Found vehicle image in cache")
			return imageURL, nil
		}
		return "", fmt.Errorf("no image available for %s %s", makeName, model)
	}
	f.cacheLock.RUnlock()

	f.logger.WithField("page", pageTitle).Info("Fetching vehicle image from Wikipedia")

	req, err := http.NewRequest("GET", f.baseURL+url.PathEscape(pageTitle), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "Calcar TCO Calculator/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WithError(err).WithField("page", pageTitle).Error("Image lookup request failed")
		return "", fmt.Errorf("image lookup request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("no wikipedia page for %s %s", makeName, model)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	var summary pageSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		f.logger.WithError(err).WithField("page", pageTitle).Error("Failed to parse response")
		return "", fmt.Errorf("failed to parse response: %v", err)
	}

	imageURL := summary.OriginalImage.Source
	if imageURL == "" {
		imageURL = summary.Thumbnail.Source
	}

	// Cache the result, including misses so we do not hammer the API
	f.cacheLock.Lock()
	f.cache[cacheKey] = imageURL
	f.cacheLock.Unlock()

	// Save cache periodically
	go f.saveCache()

	if imageURL == "" {
		return "", fmt.Errorf("no image available for %s %s", makeName, model)
	}

	f.logger.WithFields(logrus.Fields{
		"page":   pageTitle,
		"source": "wikipedia",
	}).Info("Resolved vehicle image")
	return imageURL, nil
}
