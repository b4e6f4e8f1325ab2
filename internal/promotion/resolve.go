package promotion

import (
	"fmt"
	"strings"

	"school-service/internal/application"
	"school-service/internal/student"
	"school-service/internal/teacher"
)

// The resolvers below encode the precedence rules for deriving profile
// fields from an application's partially-overlapping field bag. Each is
// a pure function over the normalized application (blank == absent).

// resolveStandard picks the class a student is assigned to:
// admissions admission_class, else the legacy standard, else "1".
func resolveStandard(app *application.Application) string {
	if app.AdmissionClass != "" {
		return app.AdmissionClass
	}
	if app.Standard != "" {
		return app.Standard
	}
	return "1"
}

// resolveAddress prefers the granular address fields, joined by ", "
// with empty components omitted. The legacy free-text address is used
// verbatim only when no granular component is present.
func resolveAddress(app *application.Application) string {
	var parts []string
	for _, p := range []string{app.StreetName, app.AreaName, app.City, app.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return app.Address
}

// resolveDateOfBirth prefers the admissions-form value over the legacy one.
func resolveDateOfBirth(app *application.Application) string {
	if app.DOB != "" {
		return app.DOB
	}
	return app.DateOfBirth
}

// resolveDisplayName falls back to a synthesized placeholder when the
// applicant left the name blank.
func resolveDisplayName(app *application.Application) string {
	if app.Name != "" {
		return app.Name
	}
	return fmt.Sprintf("User %s", app.Email)
}

// resolveDepartment defaults teacher applicants into the primary section.
func resolveDepartment(app *application.Application) string {
	if app.Department != "" {
		return app.Department
	}
	return teacher.DepartmentPrimary
}

// Generated profile IDs are derived from the account's numeric key,
// zero-padded to 4 digits, so they are unique by construction.
func formatStudentID(userID int) string {
	return fmt.Sprintf("STU%04d", userID)
}

func formatTeacherID(userID int) string {
	return fmt.Sprintf("TCH%04d", userID)
}

// buildStudentProfile derives a student profile from the application.
// Optional fields copy through with absent-safe semantics; a missing
// value never fails the promotion.
func buildStudentProfile(app *application.Application, userID int) *student.Student {
	return &student.Student{
		UserID:    userID,
		StudentID: formatStudentID(userID),

		Standard:      resolveStandard(app),
		DateOfBirth:   resolveDateOfBirth(app),
		Address:       resolveAddress(app),
		PhoneNumber:   app.PhoneNumber,
		GuardianName:  app.GuardianName,
		GuardianPhone: app.GuardianPhone,

		FirstName:  app.FirstName,
		MiddleName: app.MiddleName,
		LastName:   app.LastName,
		Aadhaar:    app.Aadhaar,
		Gender:     app.Gender,
		Age:        app.Age,
		BloodGroup: app.BloodGroup,

		AdmissionClass:              app.AdmissionClass,
		PreviousSchool:              app.PreviousSchool,
		TransferCertificateProvided: app.TransferCertificateProvided,

		StreetName: app.StreetName,
		AreaName:   app.AreaName,
		City:       app.City,
		Pincode:    app.Pincode,

		FatherName:       app.FatherName,
		FatherAadhaar:    app.FatherAadhaar,
		FatherOccupation: app.FatherOccupation,
		MotherName:       app.MotherName,
		MotherAadhaar:    app.MotherAadhaar,
		MotherOccupation: app.MotherOccupation,
		FamilyIncome:     app.FamilyIncome,
	}
}

// buildTeacherProfile derives a teacher profile from the application.
func buildTeacherProfile(app *application.Application, userID int) *teacher.Teacher {
	return &teacher.Teacher{
		UserID:    userID,
		TeacherID: formatTeacherID(userID),

		Department:  resolveDepartment(app),
		DateOfBirth: resolveDateOfBirth(app),
		Address:     resolveAddress(app),
		PhoneNumber: app.PhoneNumber,

		FirstName:  app.FirstName,
		MiddleName: app.MiddleName,
		LastName:   app.LastName,
		Aadhaar:    app.Aadhaar,
		Gender:     app.Gender,

		StreetName: app.StreetName,
		AreaName:   app.AreaName,
		City:       app.City,
		Pincode:    app.Pincode,
	}
}
