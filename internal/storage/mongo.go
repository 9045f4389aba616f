package storage

import (
	"civiceye/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection      = "users"
	complaintsCollection = "complaints"
)

// MongoStore is the document-store Storage. Identifiers are 24-character
// hex ObjectIDs.
type MongoStore struct {
	Client *mongo.Client
	DB     *mongo.Database

	now func() time.Time
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type complaintDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Type        string             `bson:"type"`
	Description string             `bson:"description"`
	Location    string             `bson:"location,omitempty"`
	Status      string             `bson:"status"`
	Proof       *string            `bson:"proof"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	ResolvedAt  *time.Time         `bson:"resolvedAt"`
}

// ConnectMongo dials uri, verifies the connection and returns a store bound
// to database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStore(client, dbName), nil
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		Client: client,
		DB:     client.Database(dbName),
		now:    time.Now,
	}
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(complaintsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func (s *MongoStore) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc userDoc
	err = s.DB.Collection(usersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) SaveUser(ctx context.Context, user *models.User) error {
	now := s.now()
	doc := userDoc{
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: now,
	}
	if user.ID == "" {
		doc.ID = primitive.NewObjectID()
	} else {
		oid, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			return fmt.Errorf("save user: invalid id %q", user.ID)
		}
		doc.ID = oid
	}
	if doc.Role == "" {
		doc.Role = models.RoleUser
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	_, err := s.DB.Collection(usersCollection).ReplaceOne(ctx,
		bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	*user = *doc.toModel()
	return nil
}

func (s *MongoStore) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	now := s.now()
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = now
	}
	complaint.UpdatedAt = now

	doc := complaintToDoc(complaint)
	doc.ID = primitive.NewObjectID()
	if _, err := s.DB.Collection(complaintsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	complaint.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) UpdateComplaint(ctx context.Context, complaint *models.Complaint) error {
	oid, err := primitive.ObjectIDFromHex(complaint.ID)
	if err != nil {
		return fmt.Errorf("update complaint: invalid id %q", complaint.ID)
	}
	complaint.UpdatedAt = s.now()

	doc := complaintToDoc(complaint)
	doc.ID = oid
	res, err := s.DB.Collection(complaintsCollection).ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update complaint %s: %w", complaint.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update complaint %s: %w", complaint.ID, mongo.ErrNoDocuments)
	}
	return nil
}

func (s *MongoStore) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc complaintDoc
	err = s.DB.Collection(complaintsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find complaint %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	return s.findComplaints(ctx, bson.M{})
}

func (s *MongoStore) ListComplaintsByUser(ctx context.Context, userID string) ([]models.Complaint, error) {
	return s.findComplaints(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) findComplaints(ctx context.Context, filter bson.M) ([]models.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.DB.Collection(complaintsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find complaints: %w", err)
	}
	var docs []complaintDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode complaints: %w", err)
	}

	complaints := make([]models.Complaint, 0, len(docs))
	for i := range docs {
		complaints = append(complaints, *docs[i].toModel())
	}
	return complaints, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func complaintToDoc(c *models.Complaint) complaintDoc {
	return complaintDoc{
		UserID:      c.UserID,
		Type:        c.Type,
		Description: c.Description,
		Location:    c.Location,
		Status:      string(c.Status),
		Proof:       c.Proof,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		ResolvedAt:  c.ResolvedAt,
	}
}

func (d *complaintDoc) toModel() *models.Complaint {
	return &models.Complaint{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Type:        d.Type,
		Description: d.Description,
		Location:    d.Location,
		Status:      models.Status(d.Status),
		Proof:       d.Proof,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		ResolvedAt:  d.ResolvedAt,
	}
}
