package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alummah_backend/internals/features/finance/fees/model"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/helpers/apperr"
)

func testYear() academicmodel.AcademicYear {
	return academicmodel.AcademicYear{
		AcademicYearStartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2027, 4, 30, 0, 0, 0, 0, time.UTC),
	}
}

func testStructure(components ...model.FeeComponent) model.FeeStructure {
	var total int64
	for _, c := range components {
		total += c.FeeComponentAmount
	}
	return model.FeeStructure{
		FeeStructureTotalAmount: total,
		Components:              components,
	}
}

func TestDistributeQuarterly(t *testing.T) {
	structure := testStructure(
		model.FeeComponent{FeeComponentCategory: "Tuition", FeeComponentAmount: 100000},
		model.FeeComponent{FeeComponentCategory: "Transport", FeeComponentAmount: 20000},
	)

	dist, err := Distribute(structure, model.PlanQuarterly, nil, testYear(), nil)
	require.NoError(t, err)
	require.Len(t, dist.Periods, 4)

	for _, p := range dist.Periods {
		assert.EqualValues(t, 30000, p.Total)
		require.Len(t, p.Allocations, 2)
		assert.Equal(t, "Tuition", p.Allocations[0].Category)
		assert.EqualValues(t, 25000, p.Allocations[0].Amount)
		assert.Equal(t, "Transport", p.Allocations[1].Category)
		assert.EqualValues(t, 5000, p.Allocations[1].Amount)
	}

	// Quarterly due dates are three months apart from the year start.
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), dist.Periods[0].DueDate)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), dist.Periods[1].DueDate)
	assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), dist.Periods[3].DueDate)
}

func TestDistributeResidualGoesToFinalPeriod(t *testing.T) {
	structure := testStructure(
		model.FeeComponent{FeeComponentCategory: "Tuition", FeeComponentAmount: 1000},
	)

	dist, err := Distribute(structure, model.PlanMonthly, nil, testYear(), nil)
	require.NoError(t, err)
	require.Len(t, dist.Periods, 12)

	var sum int64
	for i, p := range dist.Periods {
		if i < 11 {
			assert.EqualValues(t, 83, p.Total)
		} else {
			assert.EqualValues(t, 87, p.Total)
		}
		sum += p.Total
	}
	assert.EqualValues(t, 1000, sum)
}

func TestDistributeReconstructsTotalAcrossPlans(t *testing.T) {
	structure := testStructure(
		model.FeeComponent{FeeComponentCategory: "Tuition", FeeComponentAmount: 99991},
		model.FeeComponent{FeeComponentCategory: "Transport", FeeComponentAmount: 777},
		model.FeeComponent{FeeComponentCategory: "Books", FeeComponentAmount: 13},
	)
	terms := []academicmodel.AcademicTerm{
		{AcademicTermStartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{AcademicTermStartDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		{AcademicTermStartDate: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	plans := []model.FeePlan{
		model.PlanMonthly, model.PlanQuarterly, model.PlanSemiAnnually,
		model.PlanAnnually, model.PlanTermWise,
	}
	for _, plan := range plans {
		t.Run(string(plan), func(t *testing.T) {
			dist, err := Distribute(structure, plan, nil, testYear(), terms)
			require.NoError(t, err)

			var sum int64
			for _, p := range dist.Periods {
				sum += p.Total
			}
			assert.Equal(t, structure.FeeStructureTotalAmount, sum)
		})
	}
}

func TestDistributeTermWise(t *testing.T) {
	structure := testStructure(
		model.FeeComponent{FeeComponentCategory: "Tuition", FeeComponentAmount: 90000},
	)
	terms := []academicmodel.AcademicTerm{
		{AcademicTermStartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{AcademicTermStartDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
	}

	dist, err := Distribute(structure, model.PlanTermWise, nil, testYear(), terms)
	require.NoError(t, err)
	require.Len(t, dist.Periods, 2)
	assert.Equal(t, terms[0].AcademicTermStartDate, dist.Periods[0].DueDate)
	assert.Equal(t, terms[1].AcademicTermStartDate, dist.Periods[1].DueDate)

	_, err = Distribute(structure, model.PlanTermWise, nil, testYear(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDistributeExplicitDueDates(t *testing.T) {
	structure := testStructure(
		model.FeeComponent{FeeComponentCategory: "Tuition", FeeComponentAmount: 40000},
	)

	dist, err := Distribute(structure, model.PlanSemiAnnually,
		[]string{"2026-07-15", "2027-01-15"}, testYear(), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), dist.Periods[0].DueDate)
	assert.Equal(t, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), dist.Periods[1].DueDate)

	_, err = Distribute(structure, model.PlanSemiAnnually,
		[]string{"2026-07-15"}, testYear(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = Distribute(structure, model.PlanSemiAnnually,
		[]string{"15/07/2026", "2027-01-15"}, testYear(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDistributeAnnually(t *testing.T) {
	structure := testStructure(
		model.FeeComponent{FeeComponentCategory: "Tuition", FeeComponentAmount: 123457},
	)

	dist, err := Distribute(structure, model.PlanAnnually, nil, testYear(), nil)
	require.NoError(t, err)
	require.Len(t, dist.Periods, 1)
	assert.EqualValues(t, 123457, dist.Periods[0].Total)
	assert.Equal(t, testYear().AcademicYearStartDate, dist.Periods[0].DueDate)
}
