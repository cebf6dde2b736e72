package riot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
)

// ListMatchIDs returns one page of game ids for player inside window.
func (c *Client) ListMatchIDs(ctx context.Context, routing, player string, window match.Window, start, count int) ([]string, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, fmt.Errorf("player is required")
	}

	query := url.Values{}
	query.Set("startTime", strconv.FormatInt(window.Start.Unix(), 10))
	query.Set("endTime", strconv.FormatInt(window.End.Unix(), 10))
	query.Set("start", strconv.Itoa(start))
	query.Set("count", strconv.Itoa(count))

	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(player) + "/ids"
	var ids []string
	if err := c.getJSON(ctx, "match_ids", routing, path, query, &ids); err != nil {
		return nil, fmt.Errorf("list match ids player=%s start=%d: %w", player, start, err)
	}
	return ids, nil
}

func (c *Client) GetMatch(ctx context.Context, routing, matchID string) (match.RawGame, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.RawGame{}, fmt.Errorf("match id is required")
	}

	var raw match.RawGame
	if err := c.getJSON(ctx, "match", routing, "/lol/match/v5/matches/"+url.PathEscape(matchID), nil, &raw); err != nil {
		return match.RawGame{}, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return raw, nil
}
