package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/etudiants-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStudentStore stores students in a MongoDB collection.
type MongoStudentStore struct {
	coll *mongo.Collection
}

func NewMongoStudentStore(coll *mongo.Collection) *MongoStudentStore {
	return &MongoStudentStore{coll: coll}
}

// now is truncated to the store's millisecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *MongoStudentStore) ExistsByName(ctx context.Context, nom, prenom string, exclude *primitive.ObjectID) (bool, error) {
	filter := bson.M{model.FieldNom: nom, model.FieldPrenom: prenom}
	if exclude != nil {
		filter[model.FieldID] = bson.M{"$ne": *exclude}
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: model.FieldID, Value: 1}})
	err := r.coll.FindOne(ctx, filter, opts).Err()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up student by name: %w", err)
	}
	return true, nil
}

func (r *MongoStudentStore) Create(ctx context.Context, s *model.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}

	s.ID = primitive.NewObjectID()
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt

	// Write errors are returned as is so duplicate keys stay detectable.
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		s.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (r *MongoStudentStore) Find(ctx context.Context, opts ListOptions) ([]bson.M, error) {
	findOpts := options.Find().
		SetSkip(opts.Skip).
		SetLimit(opts.Limit).
		SetSort(sortDocument(opts.Sort))
	if projection := projectionDocument(opts.Fields); projection != nil {
		findOpts.SetProjection(projection)
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return docs, nil
}

func (r *MongoStudentStore) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return total, nil
}

func (r *MongoStudentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Student, error) {
	var s model.Student
	err := r.coll.FindOne(ctx, bson.M{model.FieldID: id}).Decode(&s)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get student %s: %w", id.Hex(), err)
	}
	return &s, nil
}

func (r *MongoStudentStore) UpdateByID(ctx context.Context, id primitive.ObjectID, patch *model.StudentPatch) (*model.Student, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	set := patch.SetDocument()
	set[model.FieldUpdatedAt] = now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s model.Student
	err := r.coll.FindOneAndUpdate(ctx, bson.M{model.FieldID: id}, bson.M{"$set": set}, opts).Decode(&s)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &s, nil
}

func (r *MongoStudentStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{model.FieldID: id})
	if err != nil {
		return fmt.Errorf("failed to delete student %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStudentStore) Search(ctx context.Context, filter StudentFilter, sort []SortField) ([]model.Student, error) {
	cursor, err := r.coll.Find(ctx, filter.BSON(), options.Find().SetSort(sortDocument(sort)))
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}

	students := []model.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}
