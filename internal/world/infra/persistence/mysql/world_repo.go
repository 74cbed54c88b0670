package mysql

import (
	"context"
	"errors"

	"Wayfarer/internal/world/app/port"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/infra/persistence/model"
	"Wayfarer/modules/kit/errx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorldRepository struct {
	db *gorm.DB
}

func NewWorldRepository(db *gorm.DB) *WorldRepository {
	return &WorldRepository{db: db}
}

// AutoMigrate 建表，只在启动时调用。
func (r *WorldRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&model.GeneratedWorld{})
}

const OpLoadWorld = "repo.world.LoadWorld"

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.World, error) {
	var m model.GeneratedWorld
	err := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&m).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	default:
		return nil, errx.ErrUnavailable.WithData("op", OpLoadWorld).WithData("world_id", id).WithCause(err)
	}
	s, err := model.WorldRowToState(&m)
	if err != nil {
		return nil, errx.ErrInternal.WithData("op", OpLoadWorld).WithData("world_id", id).WithCause(err)
	}
	return entity.HydrateWorld(s), nil
}

const OpSaveWorld = "repo.world.Save"

// Save 按主键 upsert，只有快照版本不旧于库里版本时才覆盖。
func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	row, err := model.WorldStateToRow(s.State, s.Version)
	if err != nil {
		return errx.ErrInternal.WithData("op", OpSaveWorld).WithCause(err)
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":    gorm.Expr("IF(VALUES(version) >= version, VALUES(name), name)"),
			"version": gorm.Expr("GREATEST(version, VALUES(version))"),
		}),
	}).Create(row).Error
	if err != nil {
		return errx.ErrUnavailable.WithData("op", OpSaveWorld).WithData("world_id", row.ID).WithCause(err)
	}
	return nil
}
