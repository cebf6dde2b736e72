package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/account"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

const (
	RoutingAmericas = "americas"
	RoutingEurope   = "europe"
	RoutingAsia     = "asia"
	RoutingSEA      = "sea"
)

var regionRouting = map[string]string{
	"na1":  RoutingAmericas,
	"br1":  RoutingAmericas,
	"la1":  RoutingAmericas,
	"la2":  RoutingAmericas,
	"euw1": RoutingEurope,
	"eun1": RoutingEurope,
	"tr1":  RoutingEurope,
	"ru":   RoutingEurope,
	"kr":   RoutingAsia,
	"jp1":  RoutingAsia,
	"oc1":  RoutingSEA,
	"sg2":  RoutingSEA,
	"tw2":  RoutingSEA,
	"vn2":  RoutingSEA,
}

// RoutingForRegion maps a platform region to its match routing value.
// Unknown regions route to americas.
func RoutingForRegion(region string) string {
	if routing, ok := regionRouting[strings.ToLower(strings.TrimSpace(region))]; ok {
		return routing
	}
	return RoutingAmericas
}

// accountRouting is the routing value for account lookups, which have no sea
// cluster.
func accountRouting(routing string) string {
	if routing == RoutingSEA {
		return RoutingAsia
	}
	return routing
}

// AccountLookup resolves a Riot id to an account.
type AccountLookup interface {
	GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (account.Account, error)
}

type AccountService struct {
	lookup    AccountLookup
	summaries summary.Repository
	facts     facts.Repository
	now       func() time.Time
	logger    *logging.Logger
}

func NewAccountService(lookup AccountLookup, summaries summary.Repository, factsRepo facts.Repository, logger *logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AccountService{
		lookup:    lookup,
		summaries: summaries,
		facts:     factsRepo,
		now:       time.Now,
		logger:    logger.Named("account"),
	}
}

// DefaultYear is the previous calendar year.
func DefaultYear(now time.Time) int {
	return now.UTC().Year() - 1
}

// Resolve looks up "GameName#TAG" in region and reports which artifacts
// already exist for the default year.
func (s *AccountService) Resolve(ctx context.Context, riotID, region string) (account.Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Resolve")
	defer span.End()

	gameName, tagLine, ok := strings.Cut(strings.TrimSpace(riotID), "#")
	gameName, tagLine = strings.TrimSpace(gameName), strings.TrimSpace(tagLine)
	if !ok || gameName == "" || tagLine == "" {
		return account.Resolution{}, fmt.Errorf("%w: riot id must look like GameName#TAG", ErrInvalidInput)
	}
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return account.Resolution{}, fmt.Errorf("%w: region is required", ErrInvalidInput)
	}

	routing := RoutingForRegion(region)
	acct, err := s.lookup.GetAccountByRiotID(ctx, accountRouting(routing), gameName, tagLine)
	if err != nil {
		return account.Resolution{}, fmt.Errorf("lookup account %s#%s: %w", gameName, tagLine, err)
	}

	year := DefaultYear(s.now())
	summaryExists, err := s.summaries.Exists(ctx, acct.PUUID, year)
	if err != nil {
		return account.Resolution{}, fmt.Errorf("check summary: %w", err)
	}
	finalExists, err := s.facts.Exists(ctx, acct.PUUID, year)
	if err != nil {
		return account.Resolution{}, fmt.Errorf("check facts: %w", err)
	}

	s.logger.InfoContext(ctx, "account resolved",
		"player", acct.PUUID,
		"region", region,
		"routing", routing,
		"summary_exists", summaryExists,
		"final_exists", finalExists,
	)
	return account.Resolution{
		Account:       acct,
		Region:        region,
		RoutingValue:  routing,
		Year:          year,
		SummaryExists: summaryExists,
		FinalExists:   finalExists,
	}, nil
}
