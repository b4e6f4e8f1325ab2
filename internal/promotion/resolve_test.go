package promotion

import (
	"testing"

	"school-service/internal/application"
	"school-service/internal/teacher"

	"github.com/stretchr/testify/assert"
)

func TestResolveStandard(t *testing.T) {
	tests := []struct {
		name           string
		admissionClass string
		standard       string
		want           string
	}{
		{"admission class wins", "8", "5", "8"},
		{"legacy standard when no admission class", "", "5", "5"},
		{"default when both absent", "", "", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &application.Application{
				AdmissionClass: tt.admissionClass,
				Standard:       tt.standard,
			}
			assert.Equal(t, tt.want, resolveStandard(app))
		})
	}
}

func TestResolveAddress(t *testing.T) {
	tests := []struct {
		name string
		app  application.Application
		want string
	}{
		{
			name: "all granular components",
			app: application.Application{
				StreetName: "12 MG Road",
				AreaName:   "Shivaji Nagar",
				City:       "Pune",
				Pincode:    "411005",
				Address:    "old free text",
			},
			want: "12 MG Road, Shivaji Nagar, Pune, 411005",
		},
		{
			name: "empty components omitted",
			app: application.Application{
				StreetName: "12 MG Road",
				City:       "Pune",
			},
			want: "12 MG Road, Pune",
		},
		{
			name: "single component stands alone",
			app:  application.Application{City: "Pune"},
			want: "Pune",
		},
		{
			name: "legacy address only when nothing granular",
			app:  application.Application{Address: "14 Lake View, Kochi"},
			want: "14 Lake View, Kochi",
		},
		{
			name: "nothing at all",
			app:  application.Application{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveAddress(&tt.app))
		})
	}
}

func TestResolveDateOfBirth(t *testing.T) {
	assert.Equal(t, "2010-04-01", resolveDateOfBirth(&application.Application{
		DOB:         "2010-04-01",
		DateOfBirth: "2011-09-30",
	}))
	assert.Equal(t, "2011-09-30", resolveDateOfBirth(&application.Application{
		DateOfBirth: "2011-09-30",
	}))
	assert.Empty(t, resolveDateOfBirth(&application.Application{}))
}

func TestResolveDisplayName(t *testing.T) {
	assert.Equal(t, "Asha Nair", resolveDisplayName(&application.Application{
		Name:  "Asha Nair",
		Email: "asha@example.com",
	}))
	assert.Equal(t, "User asha@example.com", resolveDisplayName(&application.Application{
		Email: "asha@example.com",
	}))
}

func TestResolveDepartment(t *testing.T) {
	assert.Equal(t, teacher.DepartmentSecondary, resolveDepartment(&application.Application{
		Department: teacher.DepartmentSecondary,
	}))
	assert.Equal(t, teacher.DepartmentPrimary, resolveDepartment(&application.Application{}))
}

func TestFormatProfileIDs(t *testing.T) {
	assert.Equal(t, "STU0007", formatStudentID(7))
	assert.Equal(t, "STU0123", formatStudentID(123))
	assert.Equal(t, "STU12345", formatStudentID(12345))
	assert.Equal(t, "TCH0042", formatTeacherID(42))
}

func TestBuildStudentProfile(t *testing.T) {
	app := &application.Application{
		Email:          "ravi@example.com",
		Role:           "student",
		AdmissionClass: "6",
		DOB:            "2012-01-15",
		StreetName:     "3 Temple Street",
		City:           "Chennai",
		PhoneNumber:    "9876543210",
		GuardianName:   "S. Kumar",
		FatherName:     "S. Kumar",
		FamilyIncome:   250000,
	}

	s := buildStudentProfile(app, 9)

	assert.Equal(t, 9, s.UserID)
	assert.Equal(t, "STU0009", s.StudentID)
	assert.Equal(t, "6", s.Standard)
	assert.Equal(t, "2012-01-15", s.DateOfBirth)
	assert.Equal(t, "3 Temple Street, Chennai", s.Address)
	assert.Equal(t, "9876543210", s.PhoneNumber)
	assert.Equal(t, "S. Kumar", s.GuardianName)
	assert.Equal(t, 250000.0, s.FamilyIncome)
}

func TestBuildTeacherProfile(t *testing.T) {
	app := &application.Application{
		Email:       "meera@example.com",
		Role:        "teacher",
		Address:     "7 Hill Road, Shimla",
		PhoneNumber: "9123456780",
	}

	tp := buildTeacherProfile(app, 31)

	assert.Equal(t, 31, tp.UserID)
	assert.Equal(t, "TCH0031", tp.TeacherID)
	assert.Equal(t, teacher.DepartmentPrimary, tp.Department)
	assert.Equal(t, "7 Hill Road, Shimla", tp.Address)
	assert.Equal(t, "9123456780", tp.PhoneNumber)
}
