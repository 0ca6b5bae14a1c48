package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		actual float64
		target float64
		tier   Tier
		label  string
	}{
		{"120% of target is excellent", 120, 100, TierGreen, "Excelente"},
		{"exactly on target is above average", 100, 100, TierGreen, "Acima da média"},
		{"119% stays above average", 119, 100, TierGreen, "Acima da média"},
		{"85% is near average", 85, 100, TierYellow, "Próximo à média"},
		{"80% boundary is still yellow", 80, 100, TierYellow, "Próximo à média"},
		{"79% is below average", 79, 100, TierRed, "Abaixo da média"},
		{"zero actual is below average", 0, 100, TierRed, "Abaixo da média"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := Classify("pdv-1", tc.actual, tc.target)
			assert.Equal(t, tc.tier, status.Tier)
			assert.Equal(t, tc.label, status.Label)
			assert.InDelta(t, tc.actual/tc.target, status.AchievementRatio, 1e-9)
		})
	}

	t.Run("no target configured is unknown, not an error", func(t *testing.T) {
		status := Classify("regiao-sul", 500, 0)
		assert.Equal(t, TierUnknown, status.Tier)
		assert.Equal(t, "Sem meta definida", status.Label)
		assert.Equal(t, 0.0, status.AchievementRatio)
	})

	t.Run("classifies rollup entities the same way", func(t *testing.T) {
		status := Classify("regiao-norte", 360, 300)
		assert.Equal(t, TierGreen, status.Tier)
		assert.Equal(t, "Excelente", status.Label)
	})
}
