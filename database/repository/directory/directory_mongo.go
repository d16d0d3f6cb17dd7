package directoryRepo

import (
	"context"
	"fmt"
	"time"

	"mindease/database"
	"mindease/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDirectoryRepo implements DirectoryRepository using MongoDB.
type MongoDirectoryRepo struct {
	coll *mongo.Collection
}

// NewMongoDirectoryRepo creates a new instance of DirectoryRepository using MongoDB.
func NewMongoDirectoryRepo() DirectoryRepository {
	coll := database.MongoClient.Database("mindease").Collection("therapists")
	return &MongoDirectoryRepo{coll: coll}
}

func (r *MongoDirectoryRepo) ListActive(ctx context.Context) ([]models.DirectoryProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve active therapists: %w", err)
	}
	defer cursor.Close(ctx)
	var rows []models.DirectoryProvider
	for cursor.Next(ctx) {
		var p models.DirectoryProvider
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode therapist row: %w", err)
		}
		rows = append(rows, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return rows, nil
}

// UpsertFromClinic applies one pipeline update per clinic record so that the
// protection rule holds inside the database, not just in the snapshot the
// reconciler happened to read:
//   - identity fields (name, specialty, degree, experience, image, location,
//     email) take the clinic value whenever the clinic has one;
//   - protected fields (fee, about) are written only when the row's current
//     value is empty;
//   - id and active are set on first insert only, so an admin hiding a row
//     stays hidden across write-backs.
func (r *MongoDirectoryRepo) UpsertFromClinic(ctx context.Context, rows []models.ClinicProvider) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	opts := options.Update().SetUpsert(true)
	for _, c := range rows {
		if c.ID == "" {
			continue
		}
		set := bson.M{"externalId": c.ID}
		setIdentity(set, "name", c.Name)
		setIdentity(set, "specialty", c.Specialty)
		setIdentity(set, "degree", c.Degree)
		setIdentity(set, "experience", c.Experience)
		setIdentity(set, "imageUrl", c.ImageURL)
		setIdentity(set, "location", c.Address)
		setIdentity(set, "email", c.Email)

		set["fee"] = fillIfZero("$fee", c.Fee)
		set["about"] = fillIfEmpty("$about", c.About)
		set["id"] = bson.M{"$ifNull": bson.A{"$id", uuid.New().String()}}
		set["active"] = bson.M{"$ifNull": bson.A{"$active", true}}

		filter := bson.M{"externalId": c.ID}
		update := mongo.Pipeline{bson.D{{Key: "$set", Value: set}}}
		if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to upsert therapist %s: %w", c.ID, err)
		}
	}
	return nil
}

// setIdentity sets an identity-class field to the clinic value when the
// clinic has one, otherwise keeps whatever the row already holds.
func setIdentity(set bson.M, field, value string) {
	if value != "" {
		set[field] = value
	}
}

// fillIfEmpty keeps the current value of a protected string field and only
// falls back to the clinic value when the field is missing or empty.
func fillIfEmpty(ref string, value string) bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{bson.M{"$ifNull": bson.A{ref, ""}}, bson.A{"", nil}}},
		value,
		ref,
	}}
}

// fillIfZero is fillIfEmpty for protected numeric fields.
func fillIfZero(ref string, value float64) bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$lte": bson.A{bson.M{"$ifNull": bson.A{ref, 0}}, 0}},
		value,
		ref,
	}}
}
