package database

import (
	"github.com/robalyx/reaper/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	action *models.ActionModel
	guild  *models.GuildModel
	grant  *models.GrantModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		action: models.NewAction(db, logger),
		guild:  models.NewGuild(db, logger),
		grant:  models.NewGrant(db, logger),
	}
}

// Action returns the moderation action model repository.
func (r *Repository) Action() *models.ActionModel {
	return r.action
}

// Guild returns the guild configuration model repository.
func (r *Repository) Guild() *models.GuildModel {
	return r.guild
}

// Grant returns the permission grant model repository.
func (r *Repository) Grant() *models.GrantModel {
	return r.grant
}
