// file: internals/features/finance/fees/service/distribution.go
package service

import (
	"time"

	"alummah_backend/internals/features/finance/fees/model"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/helpers/apperr"
)

// PeriodAllocation is one category's share of one billing period.
type PeriodAllocation struct {
	Category string
	Amount   int64
	Idx      int
}

// Period is one billing period of a distribution.
type Period struct {
	Index       int // 1-based
	DueDate     time.Time
	Total       int64
	Allocations []PeriodAllocation
}

// Distribution is the full period split of a structure under a plan.
type Distribution struct {
	Plan    model.FeePlan
	Periods []Period
}

// periodCount maps a plan to its number of billing periods within one
// academic year. Term-Wise follows however many terms the year defines.
func periodCount(plan model.FeePlan, terms []academicmodel.AcademicTerm) (int, error) {
	switch plan {
	case model.PlanMonthly:
		return 12, nil
	case model.PlanQuarterly:
		return 4, nil
	case model.PlanSemiAnnually:
		return 2, nil
	case model.PlanAnnually:
		return 1, nil
	case model.PlanTermWise:
		if len(terms) == 0 {
			return 0, apperr.Validation("plan %s requires the academic year to have terms", plan)
		}
		return len(terms), nil
	}
	return 0, apperr.Validation("unknown fee plan %q", plan)
}

// dueDates produces one due date per period: the caller's explicit dates
// when given (count must match), otherwise evenly spaced from the year
// start, or the term start dates for a Term-Wise plan.
func dueDates(plan model.FeePlan, n int, explicit []string, year academicmodel.AcademicYear, terms []academicmodel.AcademicTerm) ([]time.Time, error) {
	if len(explicit) > 0 {
		if len(explicit) != n {
			return nil, apperr.Validation("plan %s needs %d due dates, got %d", plan, n, len(explicit))
		}
		out := make([]time.Time, n)
		for i, raw := range explicit {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, apperr.Validation("invalid due date %q: use yyyy-mm-dd", raw)
			}
			out[i] = t
		}
		return out, nil
	}

	if plan == model.PlanTermWise {
		out := make([]time.Time, n)
		for i, term := range terms {
			out[i] = term.AcademicTermStartDate
		}
		return out, nil
	}

	step := 12 / n
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = year.AcademicYearStartDate.AddDate(0, i*step, 0)
	}
	return out, nil
}

// Distribute splits a structure's components across the plan's periods.
// Each component is divided with floor division and the remainder folded
// into the final period, then the whole split is re-summed against the
// structure total; any mismatch aborts rather than billing a wrong total.
func Distribute(structure model.FeeStructure, plan model.FeePlan, explicitDueDates []string, year academicmodel.AcademicYear, terms []academicmodel.AcademicTerm) (*Distribution, error) {
	n, err := periodCount(plan, terms)
	if err != nil {
		return nil, err
	}
	dates, err := dueDates(plan, n, explicitDueDates, year, terms)
	if err != nil {
		return nil, err
	}

	periods := make([]Period, n)
	for i := range periods {
		periods[i] = Period{Index: i + 1, DueDate: dates[i]}
	}

	for idx, comp := range structure.Components {
		per := comp.FeeComponentAmount / int64(n)
		residual := comp.FeeComponentAmount - per*int64(n-1)
		for i := range periods {
			amount := per
			if i == n-1 {
				amount = residual
			}
			periods[i].Allocations = append(periods[i].Allocations, PeriodAllocation{
				Category: comp.FeeComponentCategory,
				Amount:   amount,
				Idx:      idx,
			})
			periods[i].Total += amount
		}
	}

	var sum int64
	for i := range periods {
		sum += periods[i].Total
	}
	if sum != structure.ComponentsTotal() {
		return nil, apperr.Arithmetic("period split sums to %d, structure components sum to %d", sum, structure.ComponentsTotal())
	}

	return &Distribution{Plan: plan, Periods: periods}, nil
}
