package riot

import (
	"context"
	"fmt"
	"net/url"

	"github.com/riskibarqy/rift-rewind/internal/domain/account"
)

type accountPayload struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

func (c *Client) GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (account.Account, error) {
	path := "/riot/account/v1/accounts/by-riot-id/" + url.PathEscape(gameName) + "/" + url.PathEscape(tagLine)

	var payload accountPayload
	if err := c.getJSON(ctx, "account", routing, path, nil, &payload); err != nil {
		return account.Account{}, fmt.Errorf("get account %s#%s: %w", gameName, tagLine, err)
	}
	return account.Account{PUUID: payload.PUUID, GameName: payload.GameName, TagLine: payload.TagLine}, nil
}
