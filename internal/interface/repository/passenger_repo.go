package repository

import (
	"context"
	"errors"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/domain/repository"
	"airportfm-service/pkg/apperror"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPassengerRepository implements PassengerRepository
type MongoPassengerRepository struct {
	collection *mongo.Collection
}

// NewMongoPassengerRepository creates a new passenger repository
func NewMongoPassengerRepository(db *mongo.Database) repository.PassengerRepository {
	collection := db.Collection("passengers")

	// Create unique index on PassengerID; this index, not the pre-check
	// read, is what rejects concurrent duplicate inserts.
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"PassengerID": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoPassengerRepository{
		collection: collection,
	}
}

// FindByID finds a passenger by its PassengerID
func (r *MongoPassengerRepository) FindByID(ctx context.Context, passengerID string) (*entity.Passenger, error) {
	var passenger entity.Passenger
	err := r.collection.FindOne(ctx, bson.M{"PassengerID": passengerID}).Decode(&passenger)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Unavailable("mongodb", err)
	}
	return &passenger, nil
}

// Insert creates a passenger document. The pre-check read keeps the common
// duplicate case cheap; the unique index settles the racy one.
func (r *MongoPassengerRepository) Insert(ctx context.Context, passenger *entity.Passenger) error {
	err := r.collection.FindOne(ctx, bson.M{"PassengerID": passenger.PassengerID}).Err()
	if err == nil {
		return apperror.ErrDuplicateEntity
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.Unavailable("mongodb", err)
	}

	_, err = r.collection.InsertOne(ctx, passenger)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.ErrDuplicateEntity
		}
		return apperror.Unavailable("mongodb", err)
	}
	return nil
}

// Update applies a $set built only from the fields the payload supplies.
// Absent fields never reach the update document, so the stored values
// survive; an empty payload degenerates to an existence check.
func (r *MongoPassengerRepository) Update(ctx context.Context, passengerID string, update *entity.PassengerUpdate) (int64, error) {
	updateDoc := passengerUpdateDoc(update)
	if len(updateDoc) == 0 {
		// $set rejects an empty document; report the match count without
		// writing anything.
		err := r.collection.FindOne(ctx, bson.M{"PassengerID": passengerID}).Err()
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return 0, nil
			}
			return 0, apperror.Unavailable("mongodb", err)
		}
		return 1, nil
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"PassengerID": passengerID},
		bson.M{"$set": updateDoc},
	)
	if err != nil {
		return 0, apperror.Unavailable("mongodb", err)
	}
	return result.MatchedCount, nil
}

// passengerUpdateDoc translates a partial payload into the $set document.
// Only supplied fields get a key; a present field replaces the stored value
// wholesale, embedded documents included.
func passengerUpdateDoc(update *entity.PassengerUpdate) bson.M {
	doc := bson.M{}
	if update.LastName != nil {
		doc["LastName"] = *update.LastName
	}
	if update.FirstName != nil {
		doc["FirstName"] = *update.FirstName
	}
	if update.MiddleName != nil {
		doc["MiddleName"] = *update.MiddleName
	}
	if update.DateOfBirth != nil {
		doc["DateOfBirth"] = *update.DateOfBirth
	}
	if update.ContactInfo != nil {
		doc["ContactInfo"] = *update.ContactInfo
	}
	if update.IsTransit != nil {
		doc["IsTransit"] = *update.IsTransit
	}
	if update.SpecialRequirements != nil {
		doc["SpecialRequirements"] = update.SpecialRequirements
	}
	if update.Tickets != nil {
		doc["Tickets"] = update.Tickets
	}
	return doc
}

// Delete removes a passenger document and returns the deleted count
func (r *MongoPassengerRepository) Delete(ctx context.Context, passengerID string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"PassengerID": passengerID})
	if err != nil {
		return 0, apperror.Unavailable("mongodb", err)
	}
	return result.DeletedCount, nil
}

// FindByMinTicketCount aggregates passengers whose Tickets collection holds
// at least minTickets entries. Documents without a Tickets field are
// excluded by the first $match stage.
func (r *MongoPassengerRepository) FindByMinTicketCount(ctx context.Context, minTickets int) ([]*entity.Passenger, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "Tickets", Value: bson.D{{Key: "$exists", Value: true}}}}}},
		bson.D{{Key: "$addFields", Value: bson.D{{Key: "tickets_count", Value: bson.D{{Key: "$size", Value: "$Tickets"}}}}}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "tickets_count", Value: bson.D{{Key: "$gte", Value: minTickets}}}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperror.Unavailable("mongodb", err)
	}
	defer cursor.Close(ctx)

	var passengers []*entity.Passenger
	for cursor.Next(ctx) {
		var passenger entity.Passenger
		if err := cursor.Decode(&passenger); err != nil {
			return nil, apperror.Unavailable("mongodb", err)
		}
		passengers = append(passengers, &passenger)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperror.Unavailable("mongodb", err)
	}
	return passengers, nil
}
