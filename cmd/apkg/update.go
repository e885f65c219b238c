package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"

	"github.com/packlens/apkg"
)

const releaseURL = "https://api.github.com/repos/packlens/apkg/releases/latest"

func apkgVersion() string {
	return "v" + apkg.Version
}

// checkForUpdate queries the latest release in the background and delivers
// at most one message. The channel is closed without a message when the
// check fails or the running build is current; extraction never waits on it.
func checkForUpdate() <-chan string {
	ch := make(chan string, 1)
	go func() {
		defer close(ch)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		latest, err := fetchLatestVersion(ctx)
		if err != nil {
			return
		}
		current, err := semver.NewVersion(apkg.Version)
		if err != nil {
			return
		}
		if current.LessThan(*latest) {
			ch <- fmt.Sprintf("A newer release is available: v%s (running v%s)", latest, current)
		}
	}()
	return ch
}

func fetchLatestVersion(ctx context.Context) (*semver.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release check: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return semver.NewVersion(strings.TrimPrefix(release.TagName, "v"))
}
