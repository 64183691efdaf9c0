package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
)

// Reference indexes used to judge region-wide market health.
var regionIndexes = map[domain.Region]string{
	domain.RegionUS: "^GSPC",
	domain.RegionTH: "^SET.BK",
}

// MarketHealth gates new buy signals when a region's reference index
// has fallen past the threshold day-over-day. Sell evaluation is never
// gated. Fetch failures default the region to safe: cutting off all
// buying on a transient provider error is worse than one missed crash.
type MarketHealth struct {
	gateway      domain.MarketDataGateway
	thresholdPct float64 // negative, e.g. -1.5
	bypass       bool
}

func NewMarketHealth(gateway domain.MarketDataGateway, thresholdPct float64, bypass bool) *MarketHealth {
	return &MarketHealth{
		gateway:      gateway,
		thresholdPct: thresholdPct,
		bypass:       bypass,
	}
}

// Snapshot computes safety per region once per scan.
func (h *MarketHealth) Snapshot(ctx context.Context) map[domain.Region]bool {
	health := make(map[domain.Region]bool, len(regionIndexes))

	for region, index := range regionIndexes {
		health[region] = true
		if h.bypass {
			continue
		}

		candles, err := h.gateway.History(ctx, index, domain.LookbackMonth)
		if err != nil || len(candles) < 2 {
			log.Warn().Str("region", string(region)).Str("index", index).Err(err).
				Msg("index fetch failed, region defaults to safe")
			continue
		}

		prev := candles[len(candles)-2].Close
		last := candles[len(candles)-1].Close
		if prev <= 0 {
			continue
		}

		changePct := (last/prev - 1) * 100
		safe := changePct > h.thresholdPct
		health[region] = safe

		log.Info().Str("region", string(region)).Str("index", index).
			Float64("change_pct", changePct).Bool("safe", safe).Msg("region health")
	}

	return health
}
