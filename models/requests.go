package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StudentCreate struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateClassRequest carries a class together with its full roster.
type CreateClassRequest struct {
	ID          string          `json:"id" binding:"required"`
	SubjectName string          `json:"subject_name" binding:"required"`
	FacultyID   string          `json:"faculty_id" binding:"required"`
	Students    []StudentCreate `json:"students"`
}

type AttendanceItem struct {
	StudentID string `json:"student_id" binding:"required"`
	Present   *bool  `json:"present" binding:"required"`
}

type AttendanceRequest struct {
	Attendees []AttendanceItem `json:"attendees" binding:"required"`
}

type SubmitAttendanceRequest struct {
	Token     string `json:"token" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
}

type CheckScanRequest struct {
	DeviceID  string `json:"device_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

type CancelRequest struct {
	Token string `json:"token" binding:"required"`
}
