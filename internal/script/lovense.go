package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/dkrahn/vibesync/internal/events"
)

// Lovense pattern intensities run 0..16; funscript positions run 0..100.
const lovenseConvFactor = 6.25

// ErrNoInteractiveContent means the platform has no pattern for the video.
var ErrNoInteractiveContent = errors.New("no interactive content available for this video")

// Sites that embed the numeric video id in their watch URLs.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`adulttime\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`members\.adulttime\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`switch\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`howwomenorgasm\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`getupclose\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`milfoverload\.net/.*?/([0-9]+)`),
	regexp.MustCompile(`dareweshare\.net/.*?/([0-9]+)`),
	regexp.MustCompile(`jerkbuddies\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`adulttime\.studio/.*?/([0-9]+)`),
	regexp.MustCompile(`oopsie\.tube/.*?/([0-9]+)`),
	regexp.MustCompile(`adulttimepilots\.com/.*?/([0-9]+)`),
	regexp.MustCompile(`kissmefuckme\.net/.*?/([0-9]+)`),
	regexp.MustCompile(`youngerloverofmine\.com/.*?/([0-9]+)`),
}

// ExtractVideoID pulls the numeric video id out of a supported watch URL.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// patternInfo is the metadata response from the pattern API.
type patternInfo struct {
	Code int `json:"code"`
	Data struct {
		Pattern string `json:"pattern"`
	} `json:"data"`
}

// patternEntry is one sample in the raw Lovense pattern: intensity V at
// playback time T milliseconds.
type patternEntry struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// ConvertPattern turns raw Lovense pattern data into a funscript. Entries
// with a zero timestamp are dropped, matching the upstream format where
// t=0 marks an invalid sample.
func ConvertPattern(data []byte, title string, durationMs int64) (*Funscript, error) {
	var entries []patternEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid pattern data: %w", err)
	}

	fs := &Funscript{
		Version:  "1.0",
		Range:    100,
		Inverted: false,
		Metadata: &Metadata{
			Title:    title,
			Creator:  "vibesync",
			Duration: durationMs,
			License:  "Open",
			Type:     "basic",
			Notes:    "Converted from Lovense pattern",
		},
		Actions: []Action{},
	}

	for _, e := range entries {
		if e.T == 0 {
			continue
		}
		pos := 0
		if e.V != 0 {
			pos = int(math.Round(e.V * lovenseConvFactor))
		}
		fs.Actions = append(fs.Actions, Action{
			At:  int64(math.Round(e.T)),
			Pos: pos,
		})
	}

	tl := NewTimeline(fs.Actions)
	fs.Actions = tl.Actions()

	return fs, nil
}

// Fetcher downloads pattern data from the Lovense API and converts it to a
// funscript. It holds no cache; script persistence belongs to the bridge.
type Fetcher struct {
	client   *http.Client
	apiURL   string
	platform string
}

// NewFetcher creates a fetcher against the given pattern metadata endpoint.
func NewFetcher(apiURL, platform string) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		apiURL:   apiURL,
		platform: platform,
	}
}

// Fetch downloads and converts the pattern for a video id.
func (f *Fetcher) Fetch(videoID, title string, durationMs int64) (*Funscript, error) {
	infoURL := fmt.Sprintf("%s?videoId=%s&pf=%s",
		f.apiURL, url.QueryEscape(videoID), url.QueryEscape(f.platform))

	infoBody, err := f.get(infoURL)
	if err != nil {
		return nil, fmt.Errorf("pattern info request failed: %w", err)
	}

	var info patternInfo
	if err := json.Unmarshal(infoBody, &info); err != nil {
		return nil, fmt.Errorf("invalid pattern info: %w", err)
	}
	if info.Code != 0 {
		return nil, ErrNoInteractiveContent
	}
	if info.Data.Pattern == "" {
		return nil, fmt.Errorf("pattern info missing pattern URL")
	}

	patternBody, err := f.get(info.Data.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern download failed: %w", err)
	}

	fs, err := ConvertPattern(patternBody, title, durationMs)
	if err != nil {
		return nil, err
	}

	events.Emit("info", "script.loaded", "", map[string]interface{}{
		"video_id": videoID,
		"title":    title,
		"actions":  len(fs.Actions),
	})

	return fs, nil
}

func (f *Fetcher) get(u string) ([]byte, error) {
	resp, err := f.client.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
