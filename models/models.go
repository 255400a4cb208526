package models

// Faculty is an instructor account. Passwords are stored as bcrypt hashes.
type Faculty struct {
	ID           string `json:"id" gorm:"primaryKey"`
	FirstName    string `json:"first_name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
}

func (Faculty) TableName() string { return "faculty" }

type Class struct {
	ID          string `json:"id" gorm:"primaryKey"`
	SubjectName string `json:"subject_name" gorm:"not null"`
	FacultyID   string `json:"faculty_id" gorm:"index;not null"`
}

func (Class) TableName() string { return "classes" }

type Student struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (Student) TableName() string { return "students" }

// Attendance is one (class, student, day) presence record. Date is kept as a
// YYYY-MM-DD string so equality filters behave the same on every driver.
type Attendance struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ClassID   string `json:"class_id" gorm:"index;not null"`
	StudentID string `json:"student_id" gorm:"index;not null"`
	Date      string `json:"date" gorm:"index;not null"`
	Present   bool   `json:"present"`
}

func (Attendance) TableName() string { return "attendance" }
