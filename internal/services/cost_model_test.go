package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"part-sourcing-service/internal/domain"
)

func intp(v int) *int { return &v }

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func duePtr(daysOut int) *time.Time {
	t := fixedNow().Add(time.Duration(daysOut) * 24 * time.Hour)
	return &t
}

func TestEffectiveUnitDueDateSensitivity(t *testing.T) {
	offer := domain.Offer{UnitPriceMinor: 100, LeadTimeDays: intp(10)}

	// Due in 5 days, lead 10 days: 5 days late.
	cfg := domain.PenaltyConfig{
		DueDate:                       duePtr(5),
		Now:                           fixedNow(),
		LeadPenaltyMinorPerUnitPerDay: 10,
	}
	cost := EffectiveUnit(offer, cfg)
	assert.Equal(t, int64(50), cost.LeadPenaltyMinor)
	assert.Equal(t, int64(150), cost.EffectiveUnitMinor)

	// Due in 15 days: on time, no penalty.
	cfg.DueDate = duePtr(15)
	cost = EffectiveUnit(offer, cfg)
	assert.Equal(t, int64(0), cost.LeadPenaltyMinor)
	assert.Equal(t, int64(100), cost.EffectiveUnitMinor)
}

func TestEffectiveUnitUnknownTimingNeverInflatesCost(t *testing.T) {
	cfg := domain.PenaltyConfig{
		DueDate:                       duePtr(1),
		Now:                           fixedNow(),
		LeadPenaltyMinorPerUnitPerDay: 10,
	}

	// Unknown lead time.
	cost := EffectiveUnit(domain.Offer{UnitPriceMinor: 100}, cfg)
	assert.Equal(t, int64(100), cost.EffectiveUnitMinor)

	// Unknown due date.
	cfg.DueDate = nil
	cost = EffectiveUnit(domain.Offer{UnitPriceMinor: 100, LeadTimeDays: intp(30)}, cfg)
	assert.Equal(t, int64(100), cost.EffectiveUnitMinor)
}

func TestEffectiveUnitAlternativePenalty(t *testing.T) {
	cfg := domain.PenaltyConfig{AlternativePenaltyMinorPerUnit: 60, Now: fixedNow()}

	cost := EffectiveUnit(domain.Offer{UnitPriceMinor: 150, IsAlternative: true}, cfg)
	assert.Equal(t, int64(60), cost.AltPenaltyMinor)
	assert.Equal(t, int64(210), cost.EffectiveUnitMinor)

	cost = EffectiveUnit(domain.Offer{UnitPriceMinor: 150}, cfg)
	assert.Equal(t, int64(0), cost.AltPenaltyMinor)
}

func TestEffectiveUnitNeverBelowPrice(t *testing.T) {
	offers := []domain.Offer{
		{UnitPriceMinor: 0},
		{UnitPriceMinor: 100, LeadTimeDays: intp(3)},
		{UnitPriceMinor: 250, IsAlternative: true, LeadTimeDays: intp(40)},
	}
	cfg := domain.PenaltyConfig{
		DueDate:                        duePtr(7),
		Now:                            fixedNow(),
		LeadPenaltyMinorPerUnitPerDay:  10,
		AlternativePenaltyMinorPerUnit: 25,
	}

	for _, o := range offers {
		cost := EffectiveUnit(o, cfg)
		assert.GreaterOrEqual(t, cost.EffectiveUnitMinor, o.UnitPriceMinor)
		assert.GreaterOrEqual(t, cost.LeadPenaltyMinor, int64(0))
		assert.GreaterOrEqual(t, cost.AltPenaltyMinor, int64(0))
	}
}
