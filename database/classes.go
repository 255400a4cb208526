package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/DszGabriel04/attendance-nitgoa/models"
)

var ErrClassExists = errors.New("class already exists")

func (s *Store) ClassExists(id string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Class{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateClassWithStudents creates the class, upserts its roster into the global
// students table and marks everyone present for today, all in one transaction.
func (s *Store) CreateClassWithStudents(req models.CreateClassRequest, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Faculty{}).Where("id = ?", req.FacultyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("faculty %q: %w", req.FacultyID, ErrNotFound)
		}

		if err := tx.Model(&models.Class{}).Where("id = ?", req.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrClassExists
		}

		if err := tx.Create(&models.Class{
			ID:          req.ID,
			SubjectName: req.SubjectName,
			FacultyID:   req.FacultyID,
		}).Error; err != nil {
			return err
		}

		for _, st := range req.Students {
			if err := tx.Model(&models.Student{}).Where("id = ?", st.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Create(&models.Student{ID: st.ID, Name: st.Name}).Error; err != nil {
					return err
				}
			}

			if err := tx.Model(&models.Attendance{}).
				Where("class_id = ? AND student_id = ? AND date = ?", req.ID, st.ID, date).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Create(&models.Attendance{
					ClassID:   req.ID,
					StudentID: st.ID,
					Date:      date,
					Present:   true,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// DeleteClass removes the class with its attendance, then prunes students that
// no longer appear in any class's attendance.
func (s *Store) DeleteClass(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Class{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("class %q: %w", id, ErrNotFound)
		}

		if err := tx.Where("class_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Class{}).Error; err != nil {
			return err
		}

		return tx.Where(
			"id NOT IN (?)",
			tx.Model(&models.Attendance{}).Select("student_id"),
		).Delete(&models.Student{}).Error
	})
}

// ClassSummary is one row of the class list, with today's attendance status.
type ClassSummary struct {
	ID              string `json:"id"`
	SubjectName     string `json:"subject_name"`
	AttendanceTaken string `json:"attendance_taken"` // "Yes" or "No"
}

func (s *Store) ListClasses(date string) ([]ClassSummary, error) {
	var classes []models.Class
	if err := s.db.Order("id").Find(&classes).Error; err != nil {
		return nil, err
	}

	type classCount struct {
		ClassID string
		Count   int64
	}
	var counts []classCount
	if err := s.db.Model(&models.Attendance{}).
		Select("class_id, count(*) as count").
		Where("date = ?", date).
		Group("class_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(counts))
	for _, c := range counts {
		taken[c.ClassID] = c.Count > 0
	}

	out := make([]ClassSummary, 0, len(classes))
	for _, cls := range classes {
		status := "No"
		if taken[cls.ID] {
			status = "Yes"
		}
		out = append(out, ClassSummary{ID: cls.ID, SubjectName: cls.SubjectName, AttendanceTaken: status})
	}
	return out, nil
}
