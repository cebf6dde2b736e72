package httpapi

import (
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/account"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
)

type lookupAccountRequest struct {
	RiotID string `json:"riotId" validate:"required,contains=#,max=64"`
	Region string `json:"region" validate:"required,max=8"`
}

type startRunRequest struct {
	PUUID         string `json:"puuid" validate:"required,max=128"`
	Year          int    `json:"year" validate:"required,gte=2010,lte=2100"`
	RoutingValue  string `json:"routingValue" validate:"required,oneof=americas europe asia sea"`
	ConnectionID  string `json:"connectionId" validate:"omitempty,max=128"`
	SummaryExists *bool  `json:"summaryExists,omitempty"`
	FinalExists   *bool  `json:"finalExists,omitempty"`
}

type accountResolutionDTO struct {
	PUUID         string `json:"puuid"`
	GameName      string `json:"gameName"`
	TagLine       string `json:"tagLine"`
	Region        string `json:"region"`
	RoutingValue  string `json:"routingValue"`
	Year          int    `json:"year"`
	SummaryExists bool   `json:"summaryExists"`
	FinalExists   bool   `json:"finalExists"`
}

type runAcceptedDTO struct {
	RunID     string    `json:"runId"`
	PUUID     string    `json:"puuid"`
	Year      int       `json:"year"`
	StartedAt time.Time `json:"startedAt"`
}

type activeRunDTO struct {
	RunID      string    `json:"runId"`
	PUUID      string    `json:"puuid"`
	Year       int       `json:"year"`
	AcquiredAt time.Time `json:"acquiredAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func resolutionToDTO(v account.Resolution) accountResolutionDTO {
	return accountResolutionDTO{
		PUUID:         v.Account.PUUID,
		GameName:      v.Account.GameName,
		TagLine:       v.Account.TagLine,
		Region:        v.Region,
		RoutingValue:  v.RoutingValue,
		Year:          v.Year,
		SummaryExists: v.SummaryExists,
		FinalExists:   v.FinalExists,
	}
}

func markerToDTO(m run.Marker) activeRunDTO {
	return activeRunDTO{
		RunID:      m.RunID,
		PUUID:      m.Player,
		Year:       m.Year,
		AcquiredAt: m.AcquiredAt,
		ExpiresAt:  m.ExpiresAt,
	}
}
