package models

// MajorsDocument is the single reference document listing selectable majors.
// It is maintained out of band; this service only reads it.
type MajorsDocument struct {
	ID     string   `dynamodbav:"id" json:"id"`
	Majors []string `dynamodbav:"majors" json:"majors"`
}

// MajorsCoursesTable holds reference data shared by all users
const MajorsCoursesTable = "majorsCourses"

// MajorsDocumentID keys the majors list inside MajorsCoursesTable
const MajorsDocumentID = "majors"

// MaxMajorsPerProfile caps how many majors a student may select.
const MaxMajorsPerProfile = 3
