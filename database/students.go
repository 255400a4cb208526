package database

import "github.com/DszGabriel04/attendance-nitgoa/models"

func (s *Store) StudentExists(id string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Student{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// StudentEnrolled reports whether a student can submit against a class: known
// in the students table, or failing that, carrying any prior attendance row for
// the class (fallback enrollment proof).
func (s *Store) StudentEnrolled(classID, studentID string) (bool, error) {
	known, err := s.StudentExists(studentID)
	if err != nil {
		return false, err
	}
	if known {
		return true, nil
	}

	var count int64
	err = s.db.Model(&models.Attendance{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}
