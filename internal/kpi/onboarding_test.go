package kpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

func TestOnboardingState(t *testing.T) {
	type args struct {
		counts    map[invoice.Type]int
		baselines []*kpi.Baseline
	}

	type testCase struct {
		name         string
		args         args
		wantState    kpi.State
		wantEligible []invoice.Type
	}

	tests := []testCase{
		{
			name:      "NoInvoices",
			args:      args{},
			wantState: kpi.StateNoData,
		},
		{
			name:      "BelowThreshold",
			args:      args{counts: map[invoice.Type]int{invoice.TypeEnergy: 2, invoice.TypeWater: 1}},
			wantState: kpi.StateNoData,
		},
		{
			name:         "OneTypeEligible",
			args:         args{counts: map[invoice.Type]int{invoice.TypeEnergy: 2, invoice.TypeWater: 5}},
			wantState:    kpi.StateDataNotBaselined,
			wantEligible: []invoice.Type{invoice.TypeWater},
		},
		{
			name:         "ExactlyThreshold",
			args:         args{counts: map[invoice.Type]int{invoice.TypeMinutes: 3}},
			wantState:    kpi.StateDataNotBaselined,
			wantEligible: []invoice.Type{invoice.TypeMinutes},
		},
		{
			name: "BaselineMakesReadyWithoutData",
			args: args{
				counts:    map[invoice.Type]int{invoice.TypeEnergy: 1},
				baselines: []*kpi.Baseline{{InvoiceType: invoice.TypeEnergy, BaselineValue: 1000}},
			},
			wantState: kpi.StateReady,
		},
		{
			name: "Ready",
			args: args{
				counts:    map[invoice.Type]int{invoice.TypeEnergy: 12, invoice.TypeWater: 4},
				baselines: []*kpi.Baseline{{InvoiceType: invoice.TypeEnergy, BaselineValue: 1000}},
			},
			wantState:    kpi.StateReady,
			wantEligible: []invoice.Type{invoice.TypeWater, invoice.TypeEnergy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantState, kpi.OnboardingState(tt.args.counts, tt.args.baselines))
			assert.Equal(t, tt.wantEligible, kpi.EligibleTypes(tt.args.counts))
		})
	}
}

func TestState_Message(t *testing.T) {
	assert.NotEmpty(t, kpi.StateNoData.Message())
	assert.NotEmpty(t, kpi.StateDataNotBaselined.Message())
	assert.Empty(t, kpi.StateReady.Message())
}
