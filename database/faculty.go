package database

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/DszGabriel04/attendance-nitgoa/models"
)

var ErrNotFound = errors.New("record not found")

func (s *Store) GetFacultyByEmail(email string) (models.Faculty, error) {
	var f models.Faculty
	err := s.db.Where("email = ?", email).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return f, ErrNotFound
	}
	return f, err
}

func (s *Store) FacultyExists(id string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Faculty{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// SeedFaculty inserts the development faculty fixtures, skipping any email that
// already exists. Plaintext fixture passwords are hashed on the way in.
func (s *Store) SeedFaculty() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fixtures := []struct {
		id, firstName, email, password string
	}{
		{"FAC-101", "Alice", "alice.smith@university.edu", "hashed_password_1"},
		{"FAC-102", "John", "john.doe@university.edu", "hashed_password_2"},
	}
	for _, f := range fixtures {
		var count int64
		if err := s.db.Model(&models.Faculty{}).Where("email = ?", f.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := s.db.Create(&models.Faculty{
			ID:           f.id,
			FirstName:    f.firstName,
			Email:        f.email,
			PasswordHash: string(hash),
		}).Error; err != nil {
			return err
		}
		log.Println("Seeded faculty", f.id, f.email)
	}
	return nil
}
