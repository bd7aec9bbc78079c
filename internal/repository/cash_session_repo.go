package repository

import (
	"github.com/dussanclaurer/Licoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	Create(tx *gorm.DB, session *model.CashSession) error
	Update(tx *gorm.DB, session *model.CashSession) error
	FindByID(id uuid.UUID) (*model.CashSession, error)
	// FindOpenByUserID returns gorm.ErrRecordNotFound when the user has no
	// OPEN session.
	FindOpenByUserID(userID uuid.UUID) (*model.CashSession, error)
	// FindOpenForUpdate locks the user's OPEN session row inside a
	// transaction, for the open/close check-and-set.
	FindOpenForUpdate(tx *gorm.DB, userID uuid.UUID) (*model.CashSession, error)
}

type cashSessionRepo struct {
	db *gorm.DB
}

func NewCashSessionRepo(db *gorm.DB) CashSessionRepository {
	return &cashSessionRepo{db}
}

func (r *cashSessionRepo) Create(tx *gorm.DB, session *model.CashSession) error {
	return tx.Create(session).Error
}

func (r *cashSessionRepo) Update(tx *gorm.DB, session *model.CashSession) error {
	return tx.Save(session).Error
}

func (r *cashSessionRepo) FindByID(id uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	if err := r.db.Preload("User").First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *cashSessionRepo) FindOpenByUserID(userID uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	err := r.db.
		Where("user_id = ? AND status = ?", userID, model.SessionOpen).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *cashSessionRepo) FindOpenForUpdate(tx *gorm.DB, userID uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Where("user_id = ? AND status = ?", userID, model.SessionOpen).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
