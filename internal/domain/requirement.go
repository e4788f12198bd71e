package domain

import "time"

// RequirementLine is one demand row: a quantity of an exact SKU needed by a
// due date. DueDate is nil when the buyer has no deadline.
type RequirementLine struct {
	Brand       string
	Code        string
	RequiredQty int64
	DueDate     *time.Time
}

// PenaltyConfig holds the economic assumptions shared by both allocators.
// Now is the reference instant for lead-time penalties; callers fix it once
// per planning call so repeated runs over the same offers are deterministic.
type PenaltyConfig struct {
	DueDate                        *time.Time
	Now                            time.Time
	LeadPenaltyMinorPerUnitPerDay  int64
	AlternativePenaltyMinorPerUnit int64
}

// DaysUntilDue returns the number of whole days (rounded up) between Now and
// the due date. The boolean is false when no due date is set.
func (c PenaltyConfig) DaysUntilDue() (int, bool) {
	if c.DueDate == nil {
		return 0, false
	}

	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	diff := c.DueDate.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}

	return days, true
}
