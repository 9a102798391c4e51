package reward

import (
	"errors"
	"time"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/shopspring/decimal"
)

// PointsScale is the number of fractional digits kept for points. It matches
// the scale of the decimal columns.
const PointsScale = 18

var ErrUnknownPeriodUnit = errors.New("unknown period unit")

// CycleLength returns the span over which a rule's full reward accrues.
//
// The unit names the counter which is compared, not the length of the cycle:
// a MINUTE rule fills up over one hour, an HOUR rule over one day and a DAY
// rule over one day.
func CycleLength(unit entity.PeriodUnit) (time.Duration, error) {
	switch unit {
	case entity.PeriodMinute:
		return time.Hour, nil
	case entity.PeriodHour:
		return 24 * time.Hour, nil
	case entity.PeriodDay:
		return 24 * time.Hour, nil
	}

	return 0, ErrUnknownPeriodUnit
}

// Accrue returns the reward earned by one matched rule since lastClaim.
//
// A nil lastClaim yields the full reward amount. Otherwise the amount is
// prorated by the elapsed fraction of the cycle and capped at the full amount,
// so a long absence never earns more than one cycle. A lastClaim in the future
// yields zero.
func Accrue(rule *entity.RewardRule, lastClaim *time.Time, now time.Time) (decimal.Decimal, error) {
	cycle, err := CycleLength(rule.PeriodUnit)
	if err != nil {
		return decimal.Zero, err
	}

	amount := rule.RewardAmount
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	if lastClaim == nil {
		return amount, nil
	}

	elapsed := now.Sub(*lastClaim)
	if elapsed <= 0 {
		return decimal.Zero, nil
	}

	if elapsed >= cycle {
		return amount, nil
	}

	fraction := decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(cycle)))
	accrued := amount.Mul(fraction).Truncate(PointsScale)
	if accrued.GreaterThan(amount) {
		return amount, nil
	}

	return accrued, nil
}
