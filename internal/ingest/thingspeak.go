package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/soltixdb/thermalreport/internal/utils"
)

// DefaultThingSpeakURL is the public ThingSpeak API root
const DefaultThingSpeakURL = "https://api.thingspeak.com"

// ThingSpeakTimestampColumn is the feed column carrying the sample time
const ThingSpeakTimestampColumn = "created_at"

// FeedRequest selects a ThingSpeak channel feed
type FeedRequest struct {
	ChannelID  int
	ReadAPIKey string
	FieldTemp  int // field number holding temperature (default 1)
	FieldHum   int // field number holding humidity (0 disables)
	Results    int // number of most recent entries (default 8000)
}

// ThingSpeakClient fetches channel feeds. It only retrieves; the feed is
// returned as a Table for Normalize.
type ThingSpeakClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewThingSpeakClient creates a client with the given API root and timeout
func NewThingSpeakClient(baseURL string, timeout time.Duration) *ThingSpeakClient {
	if baseURL == "" {
		baseURL = DefaultThingSpeakURL
	}
	if timeout <= 0 {
		timeout = utils.SourceFetchTimeout
	}
	return &ThingSpeakClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Columns returns the Columns that map a feed fetched with req
func (req FeedRequest) Columns() Columns {
	cols := Columns{
		Timestamp:   ThingSpeakTimestampColumn,
		Temperature: fieldName(defaultInt(req.FieldTemp, 1)),
	}
	if req.FieldHum > 0 {
		cols.Humidity = fieldName(req.FieldHum)
	}
	return cols
}

type feedResponse struct {
	Feeds []map[string]interface{} `json:"feeds"`
}

// Fetch downloads the channel feed. An empty feed yields a Table with a
// header and no rows.
func (c *ThingSpeakClient) Fetch(ctx context.Context, req FeedRequest) (Table, error) {
	if req.ChannelID <= 0 {
		return Table{}, fmt.Errorf("invalid channel id: %d", req.ChannelID)
	}

	q := url.Values{}
	if req.ReadAPIKey != "" {
		q.Set("api_key", req.ReadAPIKey)
	}
	q.Set("results", strconv.Itoa(defaultInt(req.Results, 8000)))
	endpoint := fmt.Sprintf("%s/channels/%d/feeds.json?%s", c.BaseURL, req.ChannelID, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Table{}, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return Table{}, fmt.Errorf("failed to fetch channel %d: %w", req.ChannelID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("channel %d: unexpected status %d", req.ChannelID, resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Table{}, fmt.Errorf("failed to decode channel %d feed: %w", req.ChannelID, err)
	}

	cols := req.Columns()
	header := []string{cols.Timestamp, cols.Temperature}
	if cols.Humidity != "" {
		header = append(header, cols.Humidity)
	}

	t := Table{Header: header, Rows: make([][]string, 0, len(body.Feeds))}
	for _, feed := range body.Feeds {
		row := make([]string, len(header))
		for i, name := range header {
			row[i] = recordString(feed[name])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func fieldName(n int) string {
	return "field" + strconv.Itoa(n)
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
