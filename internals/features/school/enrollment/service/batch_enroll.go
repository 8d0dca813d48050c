// file: internals/features/school/enrollment/service/batch_enroll.go
package service

import (
	"fmt"
	"log"
	"sort"

	"gorm.io/gorm"

	academicService "alummah_backend/internals/features/school/academics/service"
	"alummah_backend/internals/features/school/enrollment/dto"
	accountService "alummah_backend/internals/features/users/account/service"
	"alummah_backend/internals/helpers/apperr"
)

// BatchEnroller orchestrates one upload: resolve the target group, filter
// and order the rows, onboard each row independently, then save the
// roster once at the end. One bad row never sinks the batch.
type BatchEnroller struct {
	DB        *gorm.DB
	Roster    *academicService.RosterManager
	Onboarder *StudentOnboarder
}

func NewBatchEnroller(db *gorm.DB, alloc *accountService.IdentityAllocator, defaultPassword string) *BatchEnroller {
	return &BatchEnroller{
		DB:        db,
		Roster:    academicService.NewRosterManager(db),
		Onboarder: NewStudentOnboarder(db, alloc, defaultPassword),
	}
}

func (b *BatchEnroller) EnrollBatch(req dto.BatchEnrollRequest) (*dto.BatchResult, error) {
	roster, err := b.Roster.Load(req.Program, req.Division)
	if err != nil {
		return nil, err
	}
	program, err := b.Roster.ProgramByName(req.Program)
	if err != nil {
		return nil, err
	}
	year, err := b.Roster.CurrentYear()
	if err != nil {
		return nil, err
	}
	term, err := b.Roster.FirstTerm(year.AcademicYearID)
	if err != nil {
		return nil, err
	}

	ctx := EnrollContext{
		Program: *program,
		Year:    *year,
		GroupID: roster.Group.StudentGroupID,
	}
	if term != nil {
		ctx.TermID = &term.AcademicTermID
	}

	result := &dto.BatchResult{
		Results: make(map[string]dto.RowResult),
		GroupID: roster.Group.StudentGroupID,
	}

	// Filter first so invalid rows never consume roll numbers.
	valid := make([]dto.StudentRow, 0, len(req.Students))
	for _, row := range req.Students {
		if row.Valid() {
			valid = append(valid, row)
			continue
		}
		result.Summary.SkippedInvalid++
		result.Results[row.FullName()] = dto.RowResult{
			Status:  "error",
			Message: "invalid row: roll number must be a positive integer and gr_number must be set",
		}
	}

	// Deterministic processing order regardless of upload order.
	sort.SliceStable(valid, func(i, j int) bool {
		return dto.SafeInt(valid[i].RollNo) < dto.SafeInt(valid[j].RollNo)
	})

	for _, row := range valid {
		result.Summary.TotalProcessed++
		name := row.FullName()

		person, err := b.Onboarder.Onboard(row, ctx)
		if err != nil {
			result.Summary.Failed++
			result.Results[name] = dto.RowResult{Status: "error", Message: err.Error()}
			result.FailedRows = append(result.FailedRows, dto.FailedRow{Row: row, Error: err.Error()})
			log.Printf("[ENROLL] row %s failed: %v", name, err)
			continue
		}

		result.Summary.Successful++
		result.Enrolled = append(result.Enrolled, name)
		msg := "enrolled"
		if person.StudentID != nil {
			if roll, added := roster.Stage(*person.StudentID, name); added {
				result.Summary.AddedToGroup++
				msg = fmt.Sprintf("enrolled, roll %d", roll)
			}
		}
		result.Results[name] = dto.RowResult{Status: "success", Message: msg}
	}

	staged := roster.StagedCount()
	if err := b.Roster.Save(roster); err != nil {
		return nil, err
	}
	result.SavedRoster = staged > 0

	result.Message = fmt.Sprintf("batch complete: %d enrolled, %d failed, %d skipped",
		result.Summary.Successful, result.Summary.Failed, result.Summary.SkippedInvalid)
	return result, nil
}

// EnrollOne runs the same chain for a single row and surfaces the row's
// own error instead of a batch summary.
func (b *BatchEnroller) EnrollOne(req dto.SingleEnrollRequest) (*dto.PersonResult, error) {
	if !req.Student.Valid() {
		return nil, apperr.Validation("roll number must be a positive integer and gr_number must be set")
	}

	roster, err := b.Roster.Load(req.Program, req.Division)
	if err != nil {
		return nil, err
	}
	program, err := b.Roster.ProgramByName(req.Program)
	if err != nil {
		return nil, err
	}
	year, err := b.Roster.CurrentYear()
	if err != nil {
		return nil, err
	}
	term, err := b.Roster.FirstTerm(year.AcademicYearID)
	if err != nil {
		return nil, err
	}

	ctx := EnrollContext{Program: *program, Year: *year, GroupID: roster.Group.StudentGroupID}
	if term != nil {
		ctx.TermID = &term.AcademicTermID
	}

	person, err := b.Onboarder.Onboard(req.Student, ctx)
	if err != nil {
		return nil, err
	}
	if person.StudentID != nil {
		roster.Stage(*person.StudentID, req.Student.FullName())
	}
	if err := b.Roster.Save(roster); err != nil {
		return nil, err
	}
	return &person, nil
}
