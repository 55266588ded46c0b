package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxsurvey/internal/model"
)

func TestFormService_GetByType(t *testing.T) {
	form := twoSectionForm()
	svc := NewFormService(&stubFormRepo{form: form})

	got, err := svc.GetByType(context.Background(), "inpatient")
	require.NoError(t, err)
	assert.Equal(t, form.FormType, got.FormType)

	_, err = svc.GetByType(context.Background(), "outpatient")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestFormService_CreateValidation(t *testing.T) {
	svc := NewFormService(&stubFormRepo{})

	_, err := svc.Create(context.Background(), &model.Form{})
	assert.Error(t, err, "formType is required")

	_, err = svc.Create(context.Background(), &model.Form{
		FormType: "inpatient",
		Sections: []model.Section{{Title: "no id"}},
	})
	assert.Error(t, err, "sections need ids")

	_, err = svc.Create(context.Background(), &model.Form{
		FormType: "inpatient",
		Sections: []model.Section{{ID: "a"}, {ID: "a"}},
	})
	assert.Error(t, err, "section ids must be unique")

	_, err = svc.Create(context.Background(), &model.Form{
		FormType: "inpatient",
		Sections: []model.Section{{ID: "a", Questions: []model.Question{{Kind: model.QuestionKindRating}}}},
	})
	assert.Error(t, err, "questions need ids")
}
