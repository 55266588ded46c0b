package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pxsurvey/internal/model"
)

// ResponseRepo handles MongoDB operations for submitted survey responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.SurveyResponse) (string, error)
	GetByID(ctx context.Context, id string) (*model.SurveyResponse, error)
	ListByFormType(ctx context.Context, formType string) ([]*model.SurveyResponse, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.SurveyResponse) (string, error) {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, response); err != nil {
		return "", err
	}
	return response.ID, nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.SurveyResponse, error) {
	var response model.SurveyResponse
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepo) ListByFormType(ctx context.Context, formType string) ([]*model.SurveyResponse, error) {
	filter := bson.M{}
	if formType != "" {
		filter["formType"] = formType
	}

	opts := options.Find().SetSort(bson.M{"submittedAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.SurveyResponse
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// ResponseSink adapts the response repository to the submission sink
// contract: store the payload, resolve with a canned success message.
type ResponseSink struct {
	repo ResponseRepo
}

// NewResponseSink creates a sink backed by the response repository
func NewResponseSink(repo ResponseRepo) *ResponseSink {
	return &ResponseSink{repo: repo}
}

func (s *ResponseSink) Submit(ctx context.Context, response *model.SurveyResponse) (*model.SubmitResult, error) {
	id, err := s.repo.Create(ctx, response)
	if err != nil {
		return nil, err
	}
	return &model.SubmitResult{
		Success:  true,
		Message:  "Survey submitted successfully",
		SurveyID: id,
	}, nil
}
