package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"mindease/database"
	"mindease/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	reservations *mongo.Collection
	summaries    *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("mindease")
	return &MongoAppointmentRepo{
		reservations: db.Collection("reservations"),
		summaries:    db.Collection("appointment_summaries"),
	}
}

func (r *MongoAppointmentRepo) InsertReservation(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.reservations.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var res models.Reservation
	filter := bson.M{"reservationId": reservationID}
	if err := r.reservations.FindOne(ctx, filter).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to fetch reservation %s: %w", reservationID, err)
	}
	return &res, nil
}

func (r *MongoAppointmentRepo) UpdateReservationStatus(ctx context.Context, reservationID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"reservationId": reservationID}
	update := bson.M{"$set": bson.M{"status": status}}
	result, err := r.reservations.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", reservationID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation %s not found", reservationID)
	}
	return nil
}

func (r *MongoAppointmentRepo) InsertSummary(ctx context.Context, s *models.AppointmentSummary) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.summaries.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to insert appointment summary: %w", err)
	}
	return nil
}
