package services

import (
	"context"
	"crypto/tls"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maxiguillermo1/senior-project/internal/models"
)

// MongoSurveyService persists post-delete survey responses. Survey data is
// analytics, not product state, so it lives in Mongo rather than the user
// document store and survives the account deletion it describes.
type MongoSurveyService struct {
	client     *mongo.Client
	db         *mongo.Database
	surveysCol *mongo.Collection
}

func NewMongoSurveyService(ctx context.Context, mongoURI, dbName string) (*MongoSurveyService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("delete_survey_responses")

	// Best-effort index for the analytics queries.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})

	return &MongoSurveyService{
		client:     client,
		db:         db,
		surveysCol: col,
	}, nil
}

func (s *MongoSurveyService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Record stores one survey response. A zero timestamp is filled in.
func (s *MongoSurveyService) Record(ctx context.Context, response *models.DeleteSurveyResponse) error {
	if response.Timestamp.IsZero() {
		response.Timestamp = time.Now().UTC()
	}
	_, err := s.surveysCol.InsertOne(ctx, response)
	return err
}

// RecentResponses returns the latest survey responses, newest first.
func (s *MongoSurveyService) RecentResponses(ctx context.Context, limit int64) ([]models.DeleteSurveyResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := s.surveysCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var responses []models.DeleteSurveyResponse
	if err := cur.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}
