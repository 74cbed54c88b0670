package mongodb

import (
	"context"
	"errors"

	"Wayfarer/internal/world/app/port"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "worlds"

type WorldRepository struct {
	coll *mongo.Collection
}

func NewWorldRepository(db *mongo.Database) *WorldRepository {
	return &WorldRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.World, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb world collection is nil")
	}

	var doc model.WorldDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	switch {
	case err == nil:
		return entity.HydrateWorld(model.WorldDocToState(doc)), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	}
	return nil, err
}

// Save 按 _id upsert；库里版本更新时跳过（version 过滤 + upsert 冲突视为已是新版本）。
func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb world collection is nil")
	}

	doc := model.WorldStateToDoc(s.State, s.Version)
	filter := bson.M{"_id": doc.WorldID, "version": bson.M{"$lte": doc.Version}}
	_, err := r.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
