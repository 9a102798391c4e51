package reward

import (
	"testing"
	"time"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_Accrue(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }
	rule := func(amount string, unit entity.PeriodUnit) *entity.RewardRule {
		return &entity.RewardRule{RewardAmount: decimal.RequireFromString(amount), PeriodUnit: unit}
	}

	type args struct {
		rule      *entity.RewardRule
		lastClaim *time.Time
	}

	tests := []struct {
		name    string
		args    args
		want    string
		wantErr error
	}{
		{
			name: "never claimed yields full amount",
			args: args{rule: rule("10", entity.PeriodDay)},
			want: "10",
		},
		{
			name: "half a day",
			args: args{rule: rule("10", entity.PeriodDay), lastClaim: ptr(now.Add(-12 * time.Hour))},
			want: "5",
		},
		{
			name: "capped after a long absence",
			args: args{rule: rule("10", entity.PeriodDay), lastClaim: ptr(now.Add(-72 * time.Hour))},
			want: "10",
		},
		{
			name: "minute rule fills up over an hour",
			args: args{rule: rule("6", entity.PeriodMinute), lastClaim: ptr(now.Add(-30 * time.Minute))},
			want: "3",
		},
		{
			name: "hour rule fills up over a day",
			args: args{rule: rule("24", entity.PeriodHour), lastClaim: ptr(now.Add(-6 * time.Hour))},
			want: "6",
		},
		{
			name: "claimed just now",
			args: args{rule: rule("10", entity.PeriodDay), lastClaim: ptr(now)},
			want: "0",
		},
		{
			name: "clock skew yields nothing",
			args: args{rule: rule("10", entity.PeriodDay), lastClaim: ptr(now.Add(time.Hour))},
			want: "0",
		},
		{
			name:    "unknown unit",
			args:    args{rule: rule("10", entity.PeriodUnit("WEEK")), lastClaim: ptr(now)},
			wantErr: ErrUnknownPeriodUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accrue(tt.args.rule, tt.args.lastClaim, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func Test_Accrue_BoundedAndMonotonic(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	rule := &entity.RewardRule{RewardAmount: decimal.RequireFromString("7.3"), PeriodUnit: entity.PeriodDay}

	previous := decimal.Zero
	for elapsed := time.Duration(0); elapsed <= 48*time.Hour; elapsed += 17 * time.Minute {
		last := now.Add(-elapsed)
		got, err := Accrue(rule, &last, now)
		require.NoError(t, err)
		require.False(t, got.IsNegative())
		require.False(t, got.GreaterThan(rule.RewardAmount))
		require.False(t, got.LessThan(previous), "elapsed %s", elapsed)
		previous = got
	}
}
