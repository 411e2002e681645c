package projections

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"propbets/models"
)

// Client fetches the projection board from the upstream feed. The feed is
// JSON:API shaped: projections under data, players under included.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a new upstream feed client
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

type feedResponse struct {
	Data     []feedProjection `json:"data"`
	Included []feedIncluded   `json:"included"`
}

type feedProjection struct {
	ID         string `json:"id"`
	Attributes struct {
		LineScore float64 `json:"line_score"`
		StatType  string  `json:"stat_type"`
	} `json:"attributes"`
	Relationships struct {
		NewPlayer struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"new_player"`
	} `json:"relationships"`
}

type feedIncluded struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name     string  `json:"name"`
		ImageURL *string `json:"image_url"`
	} `json:"attributes"`
}

// Fetch retrieves and flattens the current projection board
func (c *Client) Fetch(ctx context.Context) ([]*models.Projection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("projection feed returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode projection feed: %w", err)
	}

	players := make(map[string]feedIncluded, len(feed.Included))
	for _, inc := range feed.Included {
		if inc.Type == "new_player" {
			players[inc.ID] = inc
		}
	}

	projections := make([]*models.Projection, 0, len(feed.Data))
	for _, p := range feed.Data {
		projection := &models.Projection{
			ID:        p.ID,
			PlayerID:  p.Relationships.NewPlayer.Data.ID,
			StatType:  p.Attributes.StatType,
			LineScore: p.Attributes.LineScore,
		}
		if player, ok := players[projection.PlayerID]; ok {
			projection.PlayerName = player.Attributes.Name
			projection.PlayerImageURL = player.Attributes.ImageURL
		}
		projections = append(projections, projection)
	}

	return projections, nil
}
