package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"pxsurvey/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "pxsurvey"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(mongoDB)
	formColl := db.Collection("forms")

	form := model.Form{
		ID:       primitive.NewObjectID().Hex(),
		FormType: "inpatient",
		Title:    "Patient Experience Survey",
		Subtitle: "Rainbow Children's Hospital - Banjara Hills",
		Patient: model.PatientInfo{
			Name:      "BANDELA SIREESHA",
			EntryType: "Inpatient",
			Unit:      "Rainbow Children's Hospital - Banjara Hills",
			Doctor:    "DR.BHARGAVI REDDY K",
			Location:  "Banjara Hills",
		},
		Sections: []model.Section{
			{
				ID:    "doctor_care",
				Title: "Doctor Care",
				Icon:  "👨‍⚕️",
				Color: "primary",
				Questions: []model.Question{
					{
						ID:       "q4",
						Kind:     model.QuestionKindRating,
						Text:     "Was the discharge process completed in a timely manner?",
						Required: true,
						Options:  []string{"Yes", "No", "Some delay"},
					},
					{
						ID:       "q5",
						Kind:     model.QuestionKindRating,
						Text:     "How attentive and caring was the doctor towards you?",
						Required: true,
						Options:  []string{"Not at all", "Somewhat", "Moderately", "Very attentive"},
					},
					{
						ID:       "q6",
						Kind:     model.QuestionKindRating,
						Text:     "Did the doctor clearly explain the reason for your admission?",
						Required: true,
						Options:  []string{"Yes", "No", "Partially"},
					},
					{
						ID:       "q7",
						Kind:     model.QuestionKindRating,
						Text:     "Did the doctor provide timely updates about your treatment progress?",
						Required: true,
						Options:  []string{"Yes", "No", "Sometimes"},
					},
				},
			},
			{
				ID:    "nursing_care",
				Title: "Nursing Care",
				Icon:  "👩‍⚕️",
				Color: "secondary",
				Questions: []model.Question{
					{
						ID:       "q14",
						Kind:     model.QuestionKindRating,
						Text:     "How attentive, prompt, and caring was the nursing staff?",
						Required: true,
						Options:  []string{"Poor", "Fair", "Good", "Very Good", "Excellent"},
					},
					{
						ID:       "q15",
						Kind:     model.QuestionKindRating,
						Text:     "Did the nursing staff respond to your needs promptly?",
						Required: true,
						Options:  []string{"Never", "Rarely", "Sometimes", "Usually", "Always"},
					},
					{
						ID:       "q16",
						Kind:     model.QuestionKindRating,
						Text:     "How professional and respectful was the nursing staff?",
						Required: true,
						Options:  []string{"Poor", "Fair", "Good", "Very Good", "Excellent"},
					},
				},
			},
			{
				ID:    "facilities",
				Title: "Hospital Facilities",
				Icon:  "🏥",
				Color: "accent",
				Questions: []model.Question{
					{
						ID:       "q13",
						Kind:     model.QuestionKindRating,
						Text:     "How clean were your room and washroom during your stay?",
						Required: true,
						Options:  []string{"Very Unclean", "Unclean", "Clean", "Very Clean", "Spotless"},
					},
					{
						ID:       "q22",
						Kind:     model.QuestionKindRating,
						Text:     "How would you rate your overall hospital experience?",
						Required: true,
						Options:  []string{"Very Bad", "Bad", "Average", "Good", "Excellent"},
					},
				},
			},
			{
				ID:    "other_services",
				Title: "Other Services",
				Icon:  "🔧",
				Color: "quaternary",
				Questions: []model.Question{
					{
						ID:       "q1",
						Kind:     model.QuestionKindRating,
						Text:     "How would you rate the helpfulness and efficiency of the admission desk staff?",
						Required: true,
						Options:  []string{"Poor", "Fair", "Good", "Very Good", "Excellent"},
					},
					{
						ID:       "q23",
						Kind:     model.QuestionKindRating,
						Text:     "How efficient and helpful was the security staff?",
						Required: true,
						Options:  []string{"Poor", "Fair", "Good", "Very Good", "Excellent"},
					},
				},
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Re-running the seeder replaces the form rather than duplicating it
	if _, err := formColl.DeleteMany(ctx, bson.M{"formType": form.FormType}); err != nil {
		log.Fatalf("Failed to clear existing forms: %v", err)
	}

	if _, err := formColl.InsertOne(ctx, form); err != nil {
		log.Fatalf("Failed to insert form: %v", err)
	}

	fmt.Printf("Successfully seeded form '%s' (%s) with %d sections\n", form.Title, form.FormType, len(form.Sections))
}
