package student

import (
	"time"

	"github.com/uptrace/bun"
)

// Student is the role-specific profile attached 1:1 to a student
// account. Created exactly once by the promotion engine.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	UserID    int    `bun:"user_id,pk" json:"userId"`
	StudentID string `bun:"student_id,unique,notnull" json:"studentId"` // STU%04d of the account key

	Standard       string    `bun:"standard,notnull" json:"standard"`
	DateOfBirth    string    `bun:"date_of_birth" json:"dateOfBirth"`
	Address        string    `bun:"address" json:"address"`
	PhoneNumber    string    `bun:"phone_number" json:"phoneNumber"`
	GuardianName   string    `bun:"guardian_name" json:"guardianName"`
	GuardianPhone  string    `bun:"guardian_phone" json:"guardianPhone"`
	EnrollmentDate time.Time `bun:"enrollment_date,notnull,default:current_timestamp" json:"enrollmentDate"`

	FirstName  string `bun:"first_name" json:"firstName"`
	MiddleName string `bun:"middle_name" json:"middleName"`
	LastName   string `bun:"last_name" json:"lastName"`
	Aadhaar    string `bun:"aadhaar" json:"aadhaar"`
	Gender     string `bun:"gender" json:"gender"`
	Age        int    `bun:"age" json:"age"`
	BloodGroup string `bun:"blood_group" json:"bloodGroup"`

	AdmissionClass              string `bun:"admission_class" json:"admissionClass"`
	PreviousSchool              string `bun:"previous_school" json:"previousSchool"`
	TransferCertificateProvided bool   `bun:"transfer_certificate_provided" json:"transferCertificateProvided"`

	StreetName string `bun:"street_name" json:"streetName"`
	AreaName   string `bun:"area_name" json:"areaName"`
	City       string `bun:"city" json:"city"`
	Pincode    string `bun:"pincode" json:"pincode"`

	FatherName       string  `bun:"father_name" json:"fatherName"`
	FatherAadhaar    string  `bun:"father_aadhaar" json:"fatherAadhaar"`
	FatherOccupation string  `bun:"father_occupation" json:"fatherOccupation"`
	MotherName       string  `bun:"mother_name" json:"motherName"`
	MotherAadhaar    string  `bun:"mother_aadhaar" json:"motherAadhaar"`
	MotherOccupation string  `bun:"mother_occupation" json:"motherOccupation"`
	FamilyIncome     float64 `bun:"family_income" json:"familyIncome"`
}
