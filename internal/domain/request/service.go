package request

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/db"
	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

// StockMover adjusts facility inventory when a request is accepted. It is
// satisfied by the blood inventory service; both calls run inside the
// accept transaction.
type StockMover interface {
	DebitStock(ctx context.Context, facilityID uuid.UUID, bt bloodtype.BloodType, units int) error
	CreditStock(ctx context.Context, facilityID uuid.UUID, bt bloodtype.BloodType, units int) error
}

type Service struct {
	repo Repository
	txr  db.TxRunner

	// stock is nil unless the inventory transfer on accept is enabled;
	// when nil, accepting a request changes only the request row, matching
	// deployments where labs reconcile stock manually.
	stock StockMover
	now   func() time.Time
}

func NewService(repo Repository, txr db.TxRunner, stock StockMover) *Service {
	return &Service{repo: repo, txr: txr, stock: stock, now: time.Now}
}

type CreateInput struct {
	LabID     uuid.UUID `json:"lab_id"`
	BloodType string    `json:"blood_type"`
	Units     int       `json:"units"`
}

func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, in CreateInput) (*Request, error) {
	bt, err := bloodtype.Parse(in.BloodType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if in.Units <= 0 {
		return nil, apperr.Validation("units must be positive, got %d", in.Units)
	}
	if in.LabID == uuid.Nil {
		return nil, apperr.Validation("lab_id is required")
	}
	if in.LabID == hospitalID {
		return nil, apperr.Validation("a facility cannot request blood from itself")
	}

	req := &Request{
		HospitalID: hospitalID,
		LabID:      in.LabID,
		BloodType:  bt,
		Units:      in.Units,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

// Actions accepted by Process.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Process transitions a pending request exactly once. Only the addressed
// lab may process it. The row is locked so a concurrent second decision
// observes the terminal status and fails. When stock transfer is enabled,
// accept debits the lab and credits the hospital in the same transaction:
// either everything lands or nothing does.
func (s *Service) Process(ctx context.Context, labID, id uuid.UUID, action string) (*Request, error) {
	if action != ActionAccept && action != ActionReject {
		return nil, apperr.Validation("action must be %q or %q, got %q", ActionAccept, ActionReject, action)
	}

	var processed *Request
	err := s.txr.WithTx(ctx, func(ctx context.Context) error {
		req, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.LabID != labID {
			return apperr.NotFound("blood request not found")
		}
		if req.Status != StatusPending {
			return apperr.InvalidState("blood request is already %s", req.Status)
		}

		now := s.now()
		req.ProcessedAt = &now
		if action == ActionAccept {
			req.Status = StatusAccepted
			if s.stock != nil {
				if err := s.stock.DebitStock(ctx, req.LabID, req.BloodType, req.Units); err != nil {
					return err
				}
				if err := s.stock.CreditStock(ctx, req.HospitalID, req.BloodType, req.Units); err != nil {
					return err
				}
			}
		} else {
			req.Status = StatusRejected
		}

		if err := s.repo.Update(ctx, req); err != nil {
			return err
		}
		processed = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return processed, nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status: %q", f.Status)
	}
	return s.repo.List(ctx, f, limit, offset)
}
