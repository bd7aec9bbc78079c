package service

import (
	"errors"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/model"
	"github.com/dussanclaurer/Licoreria/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrNoOpenSession      = errors.New("no open cash session found for user")
	ErrSessionAlreadyOpen = errors.New("user already has an open cash session")
)

// CashSessionService is the gate in front of sale registration: a cashier
// must open a session before selling, and closing it records the declared
// final amount. A CLOSED session is terminal; re-opening creates a new one.
type CashSessionService interface {
	Open(userID uuid.UUID, initialAmount decimal.Decimal, openedBy string) (*model.CashSession, error)
	Close(userID uuid.UUID, finalAmount decimal.Decimal, closedBy string) (*model.CashSession, error)
	// RequireOpen returns the user's OPEN session or ErrNoOpenSession.
	RequireOpen(userID uuid.UUID) (*model.CashSession, error)
	Status(userID uuid.UUID) (bool, *model.CashSession, error)
}

type cashSessionService struct {
	sessions repository.CashSessionRepository
	db       Transactor
}

func NewCashSessionService(sessions repository.CashSessionRepository, db Transactor) CashSessionService {
	return &cashSessionService{
		sessions: sessions,
		db:       db,
	}
}

func (s *cashSessionService) Open(userID uuid.UUID, initialAmount decimal.Decimal, openedBy string) (*model.CashSession, error) {
	var session *model.CashSession

	// Check-and-create as one unit. The partial unique index on
	// (user_id) WHERE status = 'OPEN' backstops concurrent opens that both
	// pass the check.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.sessions.FindOpenForUpdate(tx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return ErrSessionAlreadyOpen
		}

		session = &model.CashSession{
			UserID:        userID,
			InitialAmount: initialAmount,
			StartTime:     time.Now(),
			Status:        model.SessionOpen,
		}
		session.CreatedBy = openedBy
		session.UpdatedBy = openedBy

		return s.sessions.Create(tx, session)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *cashSessionService) Close(userID uuid.UUID, finalAmount decimal.Decimal, closedBy string) (*model.CashSession, error) {
	var session *model.CashSession

	err := s.db.Transaction(func(tx *gorm.DB) error {
		open, err := s.sessions.FindOpenForUpdate(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenSession
			}
			return err
		}

		now := time.Now()
		open.Status = model.SessionClosed
		open.EndTime = &now
		open.FinalAmount = &finalAmount
		open.UpdatedBy = closedBy

		if err := s.sessions.Update(tx, open); err != nil {
			return err
		}
		session = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *cashSessionService) RequireOpen(userID uuid.UUID) (*model.CashSession, error) {
	session, err := s.sessions.FindOpenByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return session, nil
}

func (s *cashSessionService) Status(userID uuid.UUID) (bool, *model.CashSession, error) {
	session, err := s.RequireOpen(userID)
	if err != nil {
		if errors.Is(err, ErrNoOpenSession) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, session, nil
}
