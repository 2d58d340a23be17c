// Package update polls a release feed and downloads newer builds
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Release describes a downloadable build
type Release struct {
	Version  string
	Notes    string
	AssetURL string
}

// Checker compares the running version against the newest release in
// the feed
type Checker struct {
	FeedURL string
	Current string
	Client  *http.Client
}

// NewChecker creates a checker for the given feed. The feed serves the
// latest release as JSON in the GitHub releases shape.
func NewChecker(feedURL, current string) *Checker {
	return &Checker{
		FeedURL: feedURL,
		Current: current,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type feedRelease struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
	Assets  []struct {
		Name        string `json:"name"`
		DownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// Check fetches the feed and returns the newest release if it is ahead
// of the running version, nil when already up to date
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release feed returned %s", resp.Status)
	}

	var feed feedRelease
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode release feed: %w", err)
	}

	if compareVersions(feed.TagName, c.Current) <= 0 {
		return nil, nil
	}

	release := &Release{
		Version: feed.TagName,
		Notes:   feed.Body,
	}
	if len(feed.Assets) > 0 {
		release.AssetURL = feed.Assets[0].DownloadURL
	}
	return release, nil
}

// Download fetches the release asset to the given path
func (c *Checker) Download(ctx context.Context, release *Release, dest string) error {
	if release.AssetURL == "" {
		return fmt.Errorf("release %s has no downloadable asset", release.Version)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, release.AssetURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("release download returned %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// compareVersions compares dotted version strings numerically,
// ignoring a leading "v". Non-numeric segments compare as zero.
func compareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")

	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}
