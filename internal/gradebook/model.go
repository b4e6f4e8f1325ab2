// Package gradebook records which students take which courses and the
// marks they earn, and derives per-course statistics for teachers.
package gradebook

import (
	"time"

	"github.com/uptrace/bun"
)

// Enrollment ties a student to a course for one academic year. The
// triple is unique.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:e"`

	ID            int    `bun:"id,pk,autoincrement" json:"id"`
	StudentUserID int    `bun:"student_user_id,notnull,unique:enr_student_course_year" json:"studentUserId"`
	CourseID      int    `bun:"course_id,notnull,unique:enr_student_course_year" json:"courseId"`
	AcademicYear  string `bun:"academic_year,notnull,unique:enr_student_course_year" json:"academicYear"`

	Grade                string    `bun:"grade" json:"grade"`
	MarksObtained        float64   `bun:"marks_obtained" json:"marksObtained"`
	TotalMarks           float64   `bun:"total_marks,notnull,default:100" json:"totalMarks"`
	AttendancePercentage float64   `bun:"attendance_percentage,notnull,default:100" json:"attendancePercentage"`
	EnrolledOn           time.Time `bun:"enrolled_on,notnull,default:current_timestamp" json:"enrolledOn"`
}

type EnrollRequest struct {
	StudentUserID int    `json:"studentUserId" validate:"required"`
	CourseID      int    `json:"courseId" validate:"required"`
	AcademicYear  string `json:"academicYear"`
}

type UpdateMarksRequest struct {
	MarksObtained        float64  `json:"marksObtained" validate:"min=0"`
	TotalMarks           *float64 `json:"totalMarks" validate:"omitempty,gt=0"`
	AttendancePercentage *float64 `json:"attendancePercentage" validate:"omitempty,min=0,max=100"`
}

// CourseStatistics aggregates marks over one course, class and year.
type CourseStatistics struct {
	CourseCode   string `json:"courseCode"`
	CourseName   string `json:"courseName"`
	Standard     string `json:"standard"`
	AcademicYear string `json:"academicYear"`

	StudentCount   int     `json:"studentCount"`
	AverageMarks   float64 `json:"averageMarks"`
	HighestMarks   float64 `json:"highestMarks"`
	LowestMarks    float64 `json:"lowestMarks"`
	PassedCount    int     `json:"passedCount"`
	FailedCount    int     `json:"failedCount"`
	PassPercentage float64 `json:"passPercentage"`
}

// PassMark is the minimum percentage that counts as a pass.
const PassMark = 33.0

// GradeFor maps a percentage score onto the letter-grade bands.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 91:
		return "A1"
	case percentage >= 81:
		return "A2"
	case percentage >= 71:
		return "B1"
	case percentage >= 61:
		return "B2"
	case percentage >= 51:
		return "C1"
	case percentage >= 41:
		return "C2"
	case percentage >= PassMark:
		return "D"
	case percentage >= 21:
		return "E"
	default:
		return "F"
	}
}
