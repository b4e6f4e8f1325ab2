package teacher

import (
	"time"

	"github.com/uptrace/bun"
)

// Departments a teacher can belong to.
const (
	DepartmentPrimary   = "primary"
	DepartmentSecondary = "secondary"
)

// Teacher is the role-specific profile attached 1:1 to a teacher
// account. Created exactly once by the promotion engine.
type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:t"`

	UserID    int    `bun:"user_id,pk" json:"userId"`
	TeacherID string `bun:"teacher_id,unique,notnull" json:"teacherId"` // TCH%04d of the account key

	Department  string    `bun:"department,notnull" json:"department"`
	HireDate    time.Time `bun:"hire_date,notnull,default:current_timestamp" json:"hireDate"`
	DateOfBirth string    `bun:"date_of_birth" json:"dateOfBirth"`
	Address     string    `bun:"address" json:"address"`
	PhoneNumber string    `bun:"phone_number" json:"phoneNumber"`

	FirstName  string `bun:"first_name" json:"firstName"`
	MiddleName string `bun:"middle_name" json:"middleName"`
	LastName   string `bun:"last_name" json:"lastName"`
	Aadhaar    string `bun:"aadhaar" json:"aadhaar"`
	Gender     string `bun:"gender" json:"gender"`

	StreetName string `bun:"street_name" json:"streetName"`
	AreaName   string `bun:"area_name" json:"areaName"`
	City       string `bun:"city" json:"city"`
	Pincode    string `bun:"pincode" json:"pincode"`
}

// Course offered by the school.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	CourseCode  string    `bun:"course_code,unique,notnull" json:"courseCode" validate:"required"`
	CourseName  string    `bun:"course_name,notnull" json:"courseName" validate:"required"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// CourseTeaching assigns a teacher to a course for one class and
// academic year. The quadruple is unique.
type CourseTeaching struct {
	bun.BaseModel `bun:"table:course_teachings,alias:ct"`

	ID             int    `bun:"id,pk,autoincrement" json:"id"`
	TeacherUserID  int    `bun:"teacher_user_id,notnull,unique:ct_assignment" json:"teacherUserId" validate:"required"`
	CourseID       int    `bun:"course_id,notnull,unique:ct_assignment" json:"courseId" validate:"required"`
	Standard       string `bun:"standard,notnull,unique:ct_assignment" json:"standard" validate:"required"`
	AcademicYear   string `bun:"academic_year,notnull,unique:ct_assignment" json:"academicYear"`
	IsClassTeacher bool   `bun:"is_class_teacher,notnull" json:"isClassTeacher"`
}

// DefaultAcademicYear is used when a request omits the academic year.
const DefaultAcademicYear = "2024-2025"
