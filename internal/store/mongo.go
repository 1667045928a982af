package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pavelanni/quizserver/internal/model"
)

const (
	detailsCollection = "Details"
	resultsCollection = "Results"
)

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	client  *mongo.Client
	details *mongo.Collection
	results *mongo.Collection
}

// NewMongo connects to MongoDB and pings it before returning.
func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(dbName)
	return &Mongo{
		client:  client,
		details: db.Collection(detailsCollection),
		results: db.Collection(resultsCollection),
	}, nil
}

type studentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	RegNumber string             `bson:"reg_number"`
	Email     string             `bson:"email"`
	LoginTime time.Time          `bson:"login_time"`
}

type resultDoc struct {
	ID               primitive.ObjectID      `bson:"_id,omitempty"`
	StudentID        primitive.ObjectID      `bson:"student_id"`
	Name             string                  `bson:"name"`
	RegNumber        string                  `bson:"reg_number"`
	Answers          []model.SubmittedAnswer `bson:"answers"`
	Score            int                     `bson:"score"`
	Total            int                     `bson:"total"`
	TimeTaken        float64                 `bson:"time_taken"`
	SubmissionTime   time.Time               `bson:"submission_time"`
	Cancelled        bool                    `bson:"cancelled,omitempty"`
	MalpracticeCount int                     `bson:"malpractice_count,omitempty"`
}

// UpsertStudent implements Store with a single atomic FindOneAndUpdate.
func (m *Mongo) UpsertStudent(ctx context.Context, s model.Student) (model.Student, error) {
	filter := bson.M{"reg_number": s.RegNumber}
	update := bson.M{"$set": bson.M{
		"name":       s.Name,
		"reg_number": s.RegNumber,
		"email":      s.Email,
		"login_time": s.LastLoginAt,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc studentDoc
	if err := m.details.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return model.Student{}, fmt.Errorf("upsert student %s: %w", s.RegNumber, err)
	}
	return model.Student{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		RegNumber:   doc.RegNumber,
		Email:       doc.Email,
		LastLoginAt: doc.LoginTime,
	}, nil
}

// InsertResult implements Store. The cancellation fields are written
// only for cancelled submissions, matching the stored record shape the
// admin report expects.
func (m *Mongo) InsertResult(ctx context.Context, r model.Result) (string, error) {
	studentID, err := primitive.ObjectIDFromHex(r.StudentID)
	if err != nil {
		return "", fmt.Errorf("invalid student id %q: %w", r.StudentID, err)
	}
	doc := resultDoc{
		StudentID:      studentID,
		Name:           r.Name,
		RegNumber:      r.RegNumber,
		Answers:        r.Answers,
		Score:          r.Score,
		Total:          r.Total,
		TimeTaken:      r.TimeTakenSeconds,
		SubmissionTime: r.SubmittedAt,
	}
	if r.Cancelled {
		doc.Cancelled = true
		doc.MalpracticeCount = r.MalpracticeCount
	}
	res, err := m.results.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

// ListResults implements Store. Sorting happens server-side.
func (m *Mongo) ListResults(ctx context.Context) ([]model.Result, error) {
	sort := bson.D{
		{Key: "score", Value: -1},
		{Key: "time_taken", Value: 1},
		{Key: "submission_time", Value: 1},
	}
	cur, err := m.results.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	defer cur.Close(ctx)

	var docs []resultDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	results := make([]model.Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, model.Result{
			ID:               d.ID.Hex(),
			StudentID:        d.StudentID.Hex(),
			Name:             d.Name,
			RegNumber:        d.RegNumber,
			Answers:          d.Answers,
			Score:            d.Score,
			Total:            d.Total,
			TimeTakenSeconds: d.TimeTaken,
			SubmittedAt:      d.SubmissionTime,
			Cancelled:        d.Cancelled,
			MalpracticeCount: d.MalpracticeCount,
		})
	}
	return results, nil
}

// Ping implements Store.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close implements Store.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
