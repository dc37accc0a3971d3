package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"

	"github.com/minimav/running-app/internal/network"
)

// DefaultOverpassURL is the public Overpass API endpoint.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// Client fetches road networks from an Overpass API endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultOverpassURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
}

// FetchRoadNetwork queries every highway-tagged way inside the polygon and
// assembles the response into a raw network. A degenerate polygon yields an
// empty network without touching the API.
func (c *Client) FetchRoadNetwork(ctx context.Context, polygon *geom.Polygon) (*network.RawNetwork, error) {
	filter := polyFilter(polygon)
	if filter == "" {
		return network.NewRawNetwork(), nil
	}
	query := fmt.Sprintf("[out:json][timeout:180];(way[\"highway\"](poly:%q);>;);out body;", filter)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "could not build overpass request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "overpass request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("overpass returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read overpass response")
	}

	var doc osm.OSM
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "could not decode overpass response")
	}
	return BuildRawNetwork(&doc), nil
}

// polyFilter renders the polygon's exterior ring as an overpass poly filter,
// latitude then longitude per vertex. Returns "" when the ring has fewer
// than three vertices.
func polyFilter(polygon *geom.Polygon) string {
	if polygon == nil || polygon.NumLinearRings() == 0 {
		return ""
	}
	ring := polygon.LinearRing(0).Coords()
	if len(ring) > 1 && coordsMatch(ring[0], ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return ""
	}
	parts := make([]string, 0, len(ring))
	for _, c := range ring {
		parts = append(parts, fmt.Sprintf("%f %f", c[1], c[0]))
	}
	return strings.Join(parts, " ")
}

func coordsMatch(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}
