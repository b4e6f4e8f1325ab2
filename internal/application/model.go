package application

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Application is a single admission/employment request. Besides the
// identity-bearing fields it carries a wide bag of optional candidate
// data; blank strings are normalized to absent at the ingestion
// boundary (see Normalize).
type Application struct {
	bun.BaseModel `bun:"table:applications,alias:a"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Role      string    `bun:"role,notnull" json:"role"`
	Password  string    `bun:"password,notnull" json:"-"` // raw until promotion hashes it
	Status    Status    `bun:"status,notnull" json:"status"`
	AppliedOn time.Time `bun:"applied_on,notnull,default:current_timestamp" json:"appliedOn"`

	// Personal identity
	FirstName   string `bun:"first_name" json:"firstName"`
	MiddleName  string `bun:"middle_name" json:"middleName"`
	LastName    string `bun:"last_name" json:"lastName"`
	Aadhaar     string `bun:"aadhaar" json:"aadhaar"`
	Gender      string `bun:"gender" json:"gender"`
	DOB         string `bun:"dob" json:"dob"`                   // admissions form value, YYYY-MM-DD
	DateOfBirth string `bun:"date_of_birth" json:"dateOfBirth"` // legacy value
	Age         int    `bun:"age" json:"age"`
	BloodGroup  string `bun:"blood_group" json:"bloodGroup"`

	// Admission / placement
	AdmissionClass              string `bun:"admission_class" json:"admissionClass"`
	Standard                    string `bun:"standard" json:"standard"` // legacy free-text class
	PreviousSchool              string `bun:"previous_school" json:"previousSchool"`
	TransferCertificateProvided bool   `bun:"transfer_certificate_provided" json:"transferCertificateProvided"`

	// Address, granular plus legacy free text
	StreetName  string `bun:"street_name" json:"streetName"`
	AreaName    string `bun:"area_name" json:"areaName"`
	City        string `bun:"city" json:"city"`
	Pincode     string `bun:"pincode" json:"pincode"`
	Address     string `bun:"address" json:"address"`
	PhoneNumber string `bun:"phone_number" json:"phoneNumber"`

	// Guardians / parents
	GuardianName     string  `bun:"guardian_name" json:"guardianName"`
	GuardianPhone    string  `bun:"guardian_phone" json:"guardianPhone"`
	FatherName       string  `bun:"father_name" json:"fatherName"`
	FatherAadhaar    string  `bun:"father_aadhaar" json:"fatherAadhaar"`
	FatherOccupation string  `bun:"father_occupation" json:"fatherOccupation"`
	MotherName       string  `bun:"mother_name" json:"motherName"`
	MotherAadhaar    string  `bun:"mother_aadhaar" json:"motherAadhaar"`
	MotherOccupation string  `bun:"mother_occupation" json:"motherOccupation"`
	FamilyIncome     float64 `bun:"family_income" json:"familyIncome"`

	// Teacher-specific
	Department string `bun:"department" json:"department"`

	Notes string `bun:"notes" json:"notes"`
}

// SubmitRequest is the request body for submitting an application.
// Only email, role and password are required; everything else is
// candidate data copied verbatim onto the Application.
type SubmitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
	Password string `json:"password" validate:"required,min=8"`

	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	Aadhaar     string `json:"aadhaar"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"`
	DateOfBirth string `json:"dateOfBirth"`
	Age         int    `json:"age" validate:"min=0,max=120"`
	BloodGroup  string `json:"bloodGroup"`

	AdmissionClass              string `json:"admissionClass"`
	Standard                    string `json:"standard"`
	PreviousSchool              string `json:"previousSchool"`
	TransferCertificateProvided bool   `json:"transferCertificateProvided"`

	StreetName  string `json:"streetName"`
	AreaName    string `json:"areaName"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`

	GuardianName     string  `json:"guardianName"`
	GuardianPhone    string  `json:"guardianPhone"`
	FatherName       string  `json:"fatherName"`
	FatherAadhaar    string  `json:"fatherAadhaar"`
	FatherOccupation string  `json:"fatherOccupation"`
	MotherName       string  `json:"motherName"`
	MotherAadhaar    string  `json:"motherAadhaar"`
	MotherOccupation string  `json:"motherOccupation"`
	FamilyIncome     float64 `json:"familyIncome" validate:"min=0"`

	Department string `json:"department" validate:"omitempty,oneof=primary secondary"`

	Notes string `json:"notes"`
}

// ToApplication maps the request onto a fresh pending Application.
func (r SubmitRequest) ToApplication() *Application {
	app := &Application{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Password: r.Password,
		Status:   StatusPending,

		FirstName:   r.FirstName,
		MiddleName:  r.MiddleName,
		LastName:    r.LastName,
		Aadhaar:     r.Aadhaar,
		Gender:      r.Gender,
		DOB:         r.DOB,
		DateOfBirth: r.DateOfBirth,
		Age:         r.Age,
		BloodGroup:  r.BloodGroup,

		AdmissionClass:              r.AdmissionClass,
		Standard:                    r.Standard,
		PreviousSchool:              r.PreviousSchool,
		TransferCertificateProvided: r.TransferCertificateProvided,

		StreetName:  r.StreetName,
		AreaName:    r.AreaName,
		City:        r.City,
		Pincode:     r.Pincode,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,

		GuardianName:     r.GuardianName,
		GuardianPhone:    r.GuardianPhone,
		FatherName:       r.FatherName,
		FatherAadhaar:    r.FatherAadhaar,
		FatherOccupation: r.FatherOccupation,
		MotherName:       r.MotherName,
		MotherAadhaar:    r.MotherAadhaar,
		MotherOccupation: r.MotherOccupation,
		FamilyIncome:     r.FamilyIncome,

		Department: r.Department,
		Notes:      r.Notes,
	}
	app.Normalize()
	return app
}

// Normalize trims whitespace on every free-text field so that "  " and
// "" are both stored as absent. Applied once at submission; readers can
// then treat empty string as missing without re-checking.
func (a *Application) Normalize() {
	fields := []*string{
		&a.Name, &a.Email, &a.Role,
		&a.FirstName, &a.MiddleName, &a.LastName, &a.Aadhaar, &a.Gender,
		&a.DOB, &a.DateOfBirth, &a.BloodGroup,
		&a.AdmissionClass, &a.Standard, &a.PreviousSchool,
		&a.StreetName, &a.AreaName, &a.City, &a.Pincode, &a.Address, &a.PhoneNumber,
		&a.GuardianName, &a.GuardianPhone,
		&a.FatherName, &a.FatherAadhaar, &a.FatherOccupation,
		&a.MotherName, &a.MotherAadhaar, &a.MotherOccupation,
		&a.Department, &a.Notes,
	}
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// Event names published to the message broker on lifecycle changes.
const (
	EventSubmitted      = "application.submitted"
	EventSchoolVerified = "application.school_verified"
	EventSuperVerified  = "application.super_verified"
	EventRejected       = "application.rejected"
	EventPromoted       = "application.promoted"
)

// Event is the payload published on lifecycle changes.
type Event struct {
	Event         string `json:"event"`
	ApplicationID int    `json:"applicationId"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Status        Status `json:"status"`
}
