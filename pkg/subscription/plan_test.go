package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanValid(t *testing.T) {
	assert.True(t, PlanFree.Valid())
	assert.True(t, PlanBasico.Valid())
	assert.True(t, PlanPro.Valid())
	assert.False(t, Plan("ENTERPRISE").Valid())
	assert.False(t, Plan("").Valid())
}

func TestPlanIsPaid(t *testing.T) {
	assert.False(t, PlanFree.IsPaid())
	assert.True(t, PlanBasico.IsPaid())
	assert.True(t, PlanPro.IsPaid())
}

func TestCanUseFeature(t *testing.T) {
	assert.False(t, CanUseFeature(PlanFree, CSVExport))
	assert.True(t, CanUseFeature(PlanBasico, CSVExport))
	assert.False(t, CanUseFeature(PlanBasico, AdvancedReports))
	assert.True(t, CanUseFeature(PlanPro, AdvancedReports))
	assert.False(t, CanUseFeature(Plan("UNKNOWN"), CSVExport))
}

func TestDeterminePlan(t *testing.T) {
	ConfigureVariants("111", "222")
	defer ConfigureVariants("", "")

	assert.Equal(t, PlanBasico, DeterminePlan("111"))
	assert.Equal(t, PlanPro, DeterminePlan("222"))
	assert.Equal(t, PlanFree, DeterminePlan("999"))
}
