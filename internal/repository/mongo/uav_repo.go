// internal/repository/mongo/uav_repo.go
package mongo

import (
	"context"
	"fmt"
	"time"

	"uav-maintenance-service/internal/domain/uav"
	xerrors "uav-maintenance-service/internal/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const uavCollection = "uavs"

type uavDocument struct {
	ID               string    `bson:"_id"`
	UAVNumber        string    `bson:"uav_number"`
	Location         string    `bson:"location"`
	Status           string    `bson:"status"`
	Malfunctions     string    `bson:"malfunctions"`
	ArrivalDate      string    `bson:"arrival_date"`
	CompletionDate   *string   `bson:"completion_date"`
	ManagerSignature *string   `bson:"manager_signature"`
	Notes            *string   `bson:"notes"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func (d *uavDocument) toEntity() (uav.UAV, error) {
	arrival, err := uav.ParseDate(d.ArrivalDate)
	if err != nil {
		return uav.UAV{}, fmt.Errorf("record %s: %w", d.ID, err)
	}

	u := uav.UAV{
		ID:               d.ID,
		UAVNumber:        d.UAVNumber,
		Location:         d.Location,
		Status:           uav.Status(d.Status),
		Malfunctions:     d.Malfunctions,
		ArrivalDate:      arrival,
		ManagerSignature: d.ManagerSignature,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.CompletionDate != nil && *d.CompletionDate != "" {
		completion, err := uav.ParseDate(*d.CompletionDate)
		if err != nil {
			return uav.UAV{}, fmt.Errorf("record %s: %w", d.ID, err)
		}
		u.CompletionDate = &completion
	}
	return u, nil
}

type UAVRepository struct {
	collection *mongo.Collection
}

func NewUAVRepository(db *mongo.Database) *UAVRepository {
	return &UAVRepository{collection: db.Collection(uavCollection)}
}

// ListAll retrieves every record, newest first
func (r *UAVRepository) ListAll(ctx context.Context) ([]uav.UAV, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list uavs: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]uav.UAV, 0)
	for cursor.Next(ctx) {
		var doc uavDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode uav: %w", err)
		}
		u, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, u)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uavs: %w", err)
	}

	return records, nil
}

func (r *UAVRepository) Insert(ctx context.Context, req *uav.CreateUAVRequest) error {
	now := time.Now()
	status := req.StatusOrDefault()

	doc := uavDocument{
		ID:               primitive.NewObjectID().Hex(),
		UAVNumber:        req.UAVNumber,
		Location:         req.Location,
		Status:           string(status),
		Malfunctions:     req.MalfunctionText(),
		ArrivalDate:      req.ArrivalDate.String(),
		ManagerSignature: req.ManagerSignature,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.CompletionDate != nil {
		s := req.CompletionDate.String()
		doc.CompletionDate = &s
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create uav: %w", err)
	}
	return nil
}

// Patch sets only the provided fields
func (r *UAVRepository) Patch(ctx context.Context, id string, req *uav.UpdateUAVRequest) error {
	set := bson.M{"updated_at": time.Now()}
	for _, a := range req.Assignments() {
		if d, ok := a.Value.(uav.Date); ok {
			set[a.Column] = d.String()
			continue
		}
		set[a.Column] = a.Value
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update uav: %w", err)
	}
	if result.MatchedCount == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *UAVRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete uav: %w", err)
	}
	if result.DeletedCount == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func bsonD(key string, value int) bson.D {
	return bson.D{{Key: key, Value: value}}
}
