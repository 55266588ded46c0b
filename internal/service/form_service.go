package service

import (
	"context"
	"errors"
	"fmt"

	"pxsurvey/internal/model"
	"pxsurvey/internal/repository"
)

var ErrFormNotFound = errors.New("form not found")

// FormService handles survey form template operations
type FormService struct {
	formRepo repository.FormRepo
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo) *FormService {
	return &FormService{
		formRepo: formRepo,
	}
}

// Create stores a new form template after basic reference checks
func (s *FormService) Create(ctx context.Context, form *model.Form) (string, error) {
	if form.FormType == "" {
		return "", fmt.Errorf("formType is required")
	}
	seen := make(map[string]bool)
	for _, section := range form.Sections {
		if section.ID == "" {
			return "", fmt.Errorf("section without id")
		}
		if seen[section.ID] {
			return "", fmt.Errorf("duplicate section id %q", section.ID)
		}
		seen[section.ID] = true
		for _, q := range section.Questions {
			if q.ID == "" {
				return "", fmt.Errorf("section %q has a question without id", section.ID)
			}
		}
	}
	return s.formRepo.Create(ctx, form)
}

// GetByType retrieves the form template for a form type
func (s *FormService) GetByType(ctx context.Context, formType string) (*model.Form, error) {
	form, err := s.formRepo.GetByType(ctx, formType)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// List retrieves all form templates
func (s *FormService) List(ctx context.Context) ([]*model.Form, error) {
	return s.formRepo.List(ctx)
}
