package repository

import (
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/logging"
	recordsDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/records/domain"
)

// StudentRepository extends the generic repository with the student queries
// the dashboards run.
type StudentRepository struct {
	*Repository[recordsDomain.Student]
}

// NewStudentRepository creates the student repository over the given file.
func NewStudentRepository(path string, crypter LineCrypter, logger logging.Logger) (*StudentRepository, error) {
	repo, err := NewRepository("student", path, crypter, logger, recordsDomain.ParseStudent)
	if err != nil {
		return nil, err
	}
	return &StudentRepository{Repository: repo}, nil
}

// ByAttribute returns the students whose selected attribute equals value.
func (r *StudentRepository) ByAttribute(get func(recordsDomain.Student) string, value string) []recordsDomain.Student {
	return r.Search(func(s recordsDomain.Student) bool {
		return get(s) == value
	})
}

// ByCGPARange returns the students whose CGPA lies in [min, max].
func (r *StudentRepository) ByCGPARange(min, max float64) []recordsDomain.Student {
	return r.Search(func(s recordsDomain.Student) bool {
		return s.CGPA >= min && s.CGPA <= max
	})
}

// GroupByDiscipline buckets the students by discipline.
func (r *StudentRepository) GroupByDiscipline() map[string][]recordsDomain.Student {
	groups := make(map[string][]recordsDomain.Student)
	for _, s := range r.FindAll() {
		groups[s.Discipline] = append(groups[s.Discipline], s)
	}
	return groups
}

// CountByGrade counts the students per grade.
func (r *StudentRepository) CountByGrade() map[string]int {
	counts := make(map[string]int)
	for _, s := range r.FindAll() {
		counts[s.Grade]++
	}
	return counts
}
