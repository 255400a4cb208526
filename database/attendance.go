package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/DszGabriel04/attendance-nitgoa/models"
)

// SaveAttendance bulk-creates attendance rows for a class on date. Existing
// rows and unknown students are skipped and reported, never updated (updates go
// through UpdateAttendance).
func (s *Store) SaveAttendance(classID, date string, items []models.AttendanceItem) (created int, skipped []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	skipped = []string{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Class{}).Where("id = ?", classID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("class %q: %w", classID, ErrNotFound)
		}

		for _, item := range items {
			if err := tx.Model(&models.Student{}).Where("id = ?", item.StudentID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				skipped = append(skipped, fmt.Sprintf("Student '%s' not found", item.StudentID))
				continue
			}

			if err := tx.Model(&models.Attendance{}).
				Where("class_id = ? AND student_id = ? AND date = ?", classID, item.StudentID, date).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				skipped = append(skipped, fmt.Sprintf("Attendance already recorded for student '%s'", item.StudentID))
				continue
			}

			if err := tx.Create(&models.Attendance{
				ClassID:   classID,
				StudentID: item.StudentID,
				Date:      date,
				Present:   *item.Present,
			}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, skipped, err
}

// UpdateAttendance flips existing rows for (class, date). Students without an
// existing row are reported, not created.
func (s *Store) UpdateAttendance(classID, date string, items []models.AttendanceItem) (updated int, problems []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	problems = []string{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var rows []models.Attendance
		if err := tx.Where("class_id = ? AND date = ?", classID, date).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("attendance for class %q on %s: %w", classID, date, ErrNotFound)
		}

		existing := make(map[string]*models.Attendance, len(rows))
		for i := range rows {
			existing[rows[i].StudentID] = &rows[i]
		}

		for _, item := range items {
			rec, ok := existing[item.StudentID]
			if !ok {
				problems = append(problems, fmt.Sprintf("Student '%s' has no existing record for this date", item.StudentID))
				continue
			}
			if rec.Present != *item.Present {
				if err := tx.Model(&models.Attendance{}).
					Where("id = ?", rec.ID).
					Update("present", *item.Present).Error; err != nil {
					return err
				}
				updated++
			}
		}
		return nil
	})
	return updated, problems, err
}

// HistoryRecord joins one attendance row with the student's name.
type HistoryRecord struct {
	Date        string `json:"date"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"` // "P" or "A"
}

// History returns the full attendance history for a class ordered by date,
// then roll number. ErrNotFound when the class does not exist.
func (s *Store) History(classID string) ([]HistoryRecord, error) {
	exists, err := s.ClassExists(classID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("class %q: %w", classID, ErrNotFound)
	}

	type row struct {
		Date        string
		StudentID   string
		StudentName string
		Present     bool
	}
	var rows []row
	err = s.db.Model(&models.Attendance{}).
		Select("attendance.date, attendance.student_id, students.name as student_name, attendance.present").
		Joins("JOIN students ON students.id = attendance.student_id").
		Where("attendance.class_id = ?", classID).
		Order("attendance.date ASC, attendance.student_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make([]HistoryRecord, 0, len(rows))
	for _, r := range rows {
		status := "A"
		if r.Present {
			status = "P"
		}
		history = append(history, HistoryRecord{
			Date:        r.Date,
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			Status:      status,
		})
	}
	return history, nil
}

// FinalizeAttendance commits a session's submissions as durable attendance in
// one transaction: create the row as present, or flip an existing absent row.
// Rows already marked present are untouched, so replays are harmless. Returns
// how many students ended up marked present.
func (s *Store) FinalizeAttendance(classID, date string, studentIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, studentID := range studentIDs {
			var rec models.Attendance
			err := tx.Where("class_id = ? AND student_id = ? AND date = ?", classID, studentID, date).
				First(&rec).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&models.Attendance{
					ClassID:   classID,
					StudentID: studentID,
					Date:      date,
					Present:   true,
				}).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			case !rec.Present:
				if err := tx.Model(&models.Attendance{}).
					Where("id = ?", rec.ID).
					Update("present", true).Error; err != nil {
					return err
				}
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}
