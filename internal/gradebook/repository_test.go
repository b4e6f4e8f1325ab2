package gradebook_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"school-service/internal/gradebook"
	"school-service/internal/identity"
	"school-service/internal/metrics"
	"school-service/internal/student"
	"school-service/internal/teacher"
	"school-service/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradebook_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t,
		(*identity.User)(nil),
		(*student.Student)(nil),
		(*teacher.Teacher)(nil),
		(*teacher.Course)(nil),
		(*teacher.CourseTeaching)(nil),
		(*gradebook.Enrollment)(nil),
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockMetrics := metrics.NewMock()
	repo := gradebook.NewRepository(pgContainer.DB, mockMetrics)
	studentRepo := student.NewRepository(pgContainer.DB, mockMetrics)
	teacherRepo := teacher.NewRepository(pgContainer.DB, mockMetrics)
	svc := gradebook.NewService(repo, teacherRepo, studentRepo, mockMetrics, logger)

	ctx := context.Background()
	year := teacher.DefaultAcademicYear

	// Seed one teacher with an assignment for MATH8 in standard 8, two
	// students in standard 8 and one in standard 9.
	seed := func(t *testing.T) (teacherID int, courseID int, s1, s2, s3 *student.Student) {
		t.Helper()
		testdb.CleanupTables(t, pgContainer.DB,
			"users", "students", "teachers", "courses", "course_teachings", "enrollments")

		_, err := teacherRepo.Create(ctx, &teacher.Teacher{
			UserID: 100, TeacherID: "TCH0100", Department: teacher.DepartmentSecondary,
		})
		require.NoError(t, err)

		course, err := teacherRepo.CreateCourse(ctx, &teacher.Course{
			CourseCode: "MATH8", CourseName: "Mathematics",
		})
		require.NoError(t, err)

		_, err = teacherRepo.CreateTeaching(ctx, &teacher.CourseTeaching{
			TeacherUserID: 100, CourseID: course.ID, Standard: "8", AcademicYear: year,
		})
		require.NoError(t, err)

		s1, err = studentRepo.Create(ctx, &student.Student{UserID: 1, StudentID: "STU0001", Standard: "8"})
		require.NoError(t, err)
		s2, err = studentRepo.Create(ctx, &student.Student{UserID: 2, StudentID: "STU0002", Standard: "8"})
		require.NoError(t, err)
		s3, err = studentRepo.Create(ctx, &student.Student{UserID: 3, StudentID: "STU0003", Standard: "9"})
		require.NoError(t, err)

		return 100, course.ID, s1, s2, s3
	}

	t.Run("EnrollAndDuplicate", func(t *testing.T) {
		teacherID, courseID, s1, _, s3 := seed(t)

		_, err := svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s1.UserID, CourseID: courseID,
		})
		require.NoError(t, err)

		_, err = svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s1.UserID, CourseID: courseID,
		})
		require.ErrorIs(t, err, gradebook.ErrAlreadyEnrolled)

		// Standard 9 is outside the teaching assignment.
		_, err = svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s3.UserID, CourseID: courseID,
		})
		require.ErrorIs(t, err, gradebook.ErrNotCourseTeacher)
	})

	t.Run("MarksAndPerformance", func(t *testing.T) {
		teacherID, courseID, s1, _, _ := seed(t)

		enrollment, err := svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s1.UserID, CourseID: courseID,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateMarks(ctx, teacherID, enrollment.ID, &gradebook.UpdateMarksRequest{
			MarksObtained: 78,
		})
		require.NoError(t, err)
		assert.Equal(t, "B1", updated.Grade)

		entries, err := svc.Performance(ctx, s1.UserID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "MATH8", entries[0].CourseCode)
		assert.Equal(t, 78.0, entries[0].MarksObtained)
		assert.Equal(t, "B1", entries[0].Grade)
	})

	t.Run("TeacherEnrollmentsScopedToAssignments", func(t *testing.T) {
		teacherID, courseID, s1, s2, _ := seed(t)

		_, err := svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s1.UserID, CourseID: courseID,
		})
		require.NoError(t, err)
		_, err = svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s2.UserID, CourseID: courseID,
		})
		require.NoError(t, err)

		enrollments, err := svc.TeacherEnrollments(ctx, teacherID)
		require.NoError(t, err)
		assert.Len(t, enrollments, 2)

		// Another teacher with no assignments sees nothing.
		enrollments, err = svc.TeacherEnrollments(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, enrollments)
	})

	t.Run("Statistics", func(t *testing.T) {
		teacherID, courseID, s1, s2, _ := seed(t)

		e1, err := svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s1.UserID, CourseID: courseID,
		})
		require.NoError(t, err)
		e2, err := svc.Enroll(ctx, teacherID, &gradebook.EnrollRequest{
			StudentUserID: s2.UserID, CourseID: courseID,
		})
		require.NoError(t, err)

		_, err = svc.UpdateMarks(ctx, teacherID, e1.ID, &gradebook.UpdateMarksRequest{MarksObtained: 92})
		require.NoError(t, err)
		_, err = svc.UpdateMarks(ctx, teacherID, e2.ID, &gradebook.UpdateMarksRequest{MarksObtained: 20})
		require.NoError(t, err)

		stats, err := svc.Statistics(ctx, teacherID, "MATH8", "8", year)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.StudentCount)
		assert.Equal(t, 56.0, stats.AverageMarks)
		assert.Equal(t, 92.0, stats.HighestMarks)
		assert.Equal(t, 20.0, stats.LowestMarks)
		assert.Equal(t, 1, stats.PassedCount)
		assert.Equal(t, 1, stats.FailedCount)
		assert.Equal(t, 50.0, stats.PassPercentage)

		// Teachers without the assignment cannot read statistics.
		_, err = svc.Statistics(ctx, 999, "MATH8", "8", year)
		require.ErrorIs(t, err, gradebook.ErrNotCourseTeacher)
	})

	t.Run("ClassStudents", func(t *testing.T) {
		teacherID, _, s1, s2, _ := seed(t)

		students, err := svc.ClassStudents(ctx, teacherID)
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, s1.StudentID, students[0].StudentID)
		assert.Equal(t, s2.StudentID, students[1].StudentID)
	})
}
