package database

import (
	"context"
	"fmt"

	"github.com/deppfellow/etudiants-api/internal/model"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// studentIndexes are the indexes of the student collection.
//
// email_1 backs the email uniqueness rule. The (nom, prenom) index only
// speeds up the duplicate name lookup; uniqueness of the pair is checked by
// the service.
func studentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: model.FieldEmail, Value: 1}},
			Options: options.Index().SetName("email_1").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: model.FieldNom, Value: 1}, {Key: model.FieldPrenom, Value: 1}},
			Options: options.Index().SetName("nom_1_prenom_1"),
		},
		{
			Keys:    bson.D{{Key: model.FieldFiliere, Value: 1}},
			Options: options.Index().SetName("filiere_1"),
		},
	}
}

// Migrate creates the student collection indexes. Creating an index that
// already exists with the same options is a no-op, so Migrate is safe to run
// on every start.
func Migrate(ctx context.Context, logger *zerolog.Logger, coll *mongo.Collection) error {
	names, err := coll.Indexes().CreateMany(ctx, studentIndexes())
	if err != nil {
		return fmt.Errorf("creating %s indexes: %w", coll.Name(), err)
	}

	logger.Info().
		Str("collection", coll.Name()).
		Strs("indexes", names).
		Msg("database indexes up to date")
	return nil
}
