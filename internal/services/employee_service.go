package services

import (
	"errors"
	"fmt"

	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type EmployeeService struct {
	db *gorm.DB
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db}
}

// Upsert creates the employee on first sight or refreshes the display name.
// Called on every successful SSO callback.
func (s *EmployeeService) Upsert(email, name string) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.Where("email = ?", email).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		emp = models.Employee{Email: email, DisplayName: name, Status: "active"}
		if err := s.db.Create(&emp).Error; err != nil {
			return nil, fmt.Errorf("failed to create employee: %w", err)
		}
		return &emp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("employee lookup failed: %w", err)
	}
	if name != "" && emp.DisplayName != name {
		emp.DisplayName = name
		if err := s.db.Save(&emp).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh display name: %w", err)
		}
	}
	return &emp, nil
}

// Register creates an employee with a bcrypt password hash for the
// password-auth fallback.
func (s *EmployeeService) Register(req *dto.RegisterForm) (*models.Employee, error) {
	var existing models.Employee
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	emp := models.Employee{
		Email:        req.Email,
		DisplayName:  req.Name,
		PasswordHash: string(hash),
		Status:       "active",
	}
	if err := s.db.Create(&emp).Error; err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return &emp, nil
}

// Authenticate verifies a password login. Employees created through SSO have
// no hash and cannot log in with a password.
func (s *EmployeeService) Authenticate(email, password string) (*models.Employee, error) {
	var emp models.Employee
	if err := s.db.Where("email = ?", email).First(&emp).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if emp.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &emp, nil
}
