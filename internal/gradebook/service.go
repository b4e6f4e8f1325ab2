package gradebook

import (
	"context"
	"errors"
	"log/slog"

	"school-service/internal/db"
	"school-service/internal/metrics"
	"school-service/internal/student"
	"school-service/internal/teacher"
)

var (
	ErrNotCourseTeacher   = errors.New("not assigned to teach this course for this class")
	ErrAlreadyEnrolled    = errors.New("student is already enrolled in this course for this year")
	ErrMarksExceedTotal   = errors.New("marks obtained exceed total marks")
	ErrStudentNotEnrolled = errors.New("student profile not found for enrollment")
)

type Service interface {
	Enroll(ctx context.Context, teacherUserID int, req *EnrollRequest) (*Enrollment, error)
	TeacherEnrollments(ctx context.Context, teacherUserID int) ([]Enrollment, error)
	UpdateMarks(ctx context.Context, teacherUserID, enrollmentID int, req *UpdateMarksRequest) (*Enrollment, error)
	Performance(ctx context.Context, studentUserID int) ([]PerformanceEntry, error)
	ClassStudents(ctx context.Context, teacherUserID int) ([]student.Student, error)
	Statistics(ctx context.Context, teacherUserID int, courseCode, standard, academicYear string) (*CourseStatistics, error)
}

type service struct {
	repo     Repository
	teachers teacher.Repository
	students student.Repository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(repo Repository, teachers teacher.Repository, students student.Repository, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		teachers: teachers,
		students: students,
		metrics:  m,
		logger:   logger,
	}
}

// Enroll registers a student into a course. The calling teacher must
// hold a teaching assignment for the course in the student's class.
func (s *service) Enroll(ctx context.Context, teacherUserID int, req *EnrollRequest) (*Enrollment, error) {
	if req.AcademicYear == "" {
		req.AcademicYear = teacher.DefaultAcademicYear
	}

	profile, err := s.students.GetByUserID(ctx, req.StudentUserID)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return nil, ErrStudentNotEnrolled
		}
		return nil, err
	}

	if err := s.authorize(ctx, teacherUserID, req.CourseID, profile.Standard, req.AcademicYear); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Create(ctx, &Enrollment{
		StudentUserID: req.StudentUserID,
		CourseID:      req.CourseID,
		AcademicYear:  req.AcademicYear,
		TotalMarks:    100,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.metrics.RecordEnrollmentCreated(ctx)
	s.logger.InfoContext(ctx, "student enrolled",
		"student_user_id", enrollment.StudentUserID,
		"course_id", enrollment.CourseID,
		"academic_year", enrollment.AcademicYear)

	return enrollment, nil
}

func (s *service) TeacherEnrollments(ctx context.Context, teacherUserID int) ([]Enrollment, error) {
	return s.repo.ListForTeacher(ctx, teacherUserID)
}

// UpdateMarks records a score on an enrollment and recomputes its
// grade. Only a teacher assigned to the course for the student's class
// may write marks.
func (s *service) UpdateMarks(ctx context.Context, teacherUserID, enrollmentID int, req *UpdateMarksRequest) (*Enrollment, error) {
	enrollment, err := s.repo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	profile, err := s.students.GetByUserID(ctx, enrollment.StudentUserID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, teacherUserID, enrollment.CourseID, profile.Standard, enrollment.AcademicYear); err != nil {
		return nil, err
	}

	enrollment.MarksObtained = req.MarksObtained
	if req.TotalMarks != nil {
		enrollment.TotalMarks = *req.TotalMarks
	}
	if req.AttendancePercentage != nil {
		enrollment.AttendancePercentage = *req.AttendancePercentage
	}
	if enrollment.MarksObtained > enrollment.TotalMarks {
		return nil, ErrMarksExceedTotal
	}
	enrollment.Grade = GradeFor(enrollment.MarksObtained * 100 / enrollment.TotalMarks)

	if err := s.repo.UpdateMarks(ctx, enrollment); err != nil {
		return nil, err
	}

	s.metrics.RecordMarksUpdated(ctx)
	s.logger.InfoContext(ctx, "marks updated",
		"enrollment_id", enrollment.ID,
		"grade", enrollment.Grade)

	return enrollment, nil
}

func (s *service) Performance(ctx context.Context, studentUserID int) ([]PerformanceEntry, error) {
	return s.repo.Performance(ctx, studentUserID)
}

// ClassStudents lists the students in every class the teacher has a
// teaching assignment for.
func (s *service) ClassStudents(ctx context.Context, teacherUserID int) ([]student.Student, error) {
	teachings, err := s.teachers.ListTeachings(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	if len(teachings) == 0 {
		return []student.Student{}, nil
	}

	seen := make(map[string]bool, len(teachings))
	standards := make([]string, 0, len(teachings))
	for _, t := range teachings {
		if !seen[t.Standard] {
			seen[t.Standard] = true
			standards = append(standards, t.Standard)
		}
	}

	return s.students.ListByStandard(ctx, standards)
}

// Statistics aggregates marks for one course, class and year. Gated to
// teachers assigned to that course.
func (s *service) Statistics(ctx context.Context, teacherUserID int, courseCode, standard, academicYear string) (*CourseStatistics, error) {
	if academicYear == "" {
		academicYear = teacher.DefaultAcademicYear
	}

	course, err := s.teachers.GetCourseByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, teacherUserID, course.ID, standard, academicYear); err != nil {
		return nil, err
	}

	agg, err := s.repo.Aggregate(ctx, course.ID, standard, academicYear)
	if err != nil {
		return nil, err
	}

	stats := &CourseStatistics{
		CourseCode:   course.CourseCode,
		CourseName:   course.CourseName,
		Standard:     standard,
		AcademicYear: academicYear,
		StudentCount: agg.StudentCount,
		PassedCount:  agg.PassedCount,
		FailedCount:  agg.StudentCount - agg.PassedCount,
	}
	if agg.AverageMarks != nil {
		stats.AverageMarks = *agg.AverageMarks
	}
	if agg.HighestMarks != nil {
		stats.HighestMarks = *agg.HighestMarks
	}
	if agg.LowestMarks != nil {
		stats.LowestMarks = *agg.LowestMarks
	}
	if agg.StudentCount > 0 {
		stats.PassPercentage = float64(agg.PassedCount) * 100 / float64(agg.StudentCount)
	}

	return stats, nil
}

func (s *service) authorize(ctx context.Context, teacherUserID, courseID int, standard, academicYear string) error {
	teaches, err := s.teachers.Teaches(ctx, teacherUserID, courseID, standard, academicYear)
	if err != nil {
		return err
	}
	if !teaches {
		return ErrNotCourseTeacher
	}
	return nil
}
