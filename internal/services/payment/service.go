// Package payment orchestrates the transfer/refund engine: it parses and
// normalizes requests, then delegates to the payment repository, which runs
// each movement as a single database transaction.
package payment

import (
	"strings"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"

	"github.com/shopspring/decimal"
)

// SearchPage is one page of search results.
type SearchPage struct {
	Items   []models.Transfer `json:"items"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	HasMore bool              `json:"has_more"`
}

// Service exposes the money-movement use cases to the HTTP layer.
type Service interface {
	CreateTransfer(initiatedBy uint, req CreateTransferRequest) (*models.Transfer, error)
	GetPaymentDetails(initiatedBy, paymentID uint) (*repositories.PaymentDetails, error)
	SearchPayments(initiatedBy uint, req SearchRequest) (*SearchPage, error)
	CreateRefund(initiatedBy, originalPaymentID uint) (*models.Transfer, error)
	ListRefunds(initiatedBy, originalPaymentID uint) ([]models.Transfer, error)
}

type service struct {
	repo repositories.PaymentRepository
}

// NewService creates a new payment service.
func NewService(repo repositories.PaymentRepository) Service {
	if repo == nil {
		panic("payment repository is required")
	}
	return &service{repo: repo}
}

func (s *service) CreateTransfer(initiatedBy uint, req CreateTransferRequest) (*models.Transfer, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, errors.BadRequest("amount must be a valid decimal number")
	}

	var description *string
	if d := strings.TrimSpace(req.Description); d != "" {
		description = &d
	}

	return s.repo.CreateTransfer(initiatedBy, req.FromAccountID, req.ToAccountID, amount, description)
}

func (s *service) GetPaymentDetails(initiatedBy, paymentID uint) (*repositories.PaymentDetails, error) {
	return s.repo.FindPaymentDetails(initiatedBy, paymentID)
}

func (s *service) SearchPayments(initiatedBy uint, req SearchRequest) (*SearchPage, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.SearchTransfers(initiatedBy, *filter, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	items := page.Items
	if items == nil {
		items = []models.Transfer{}
	}
	return &SearchPage{
		Items:   items,
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: page.HasMore,
	}, nil
}

func (s *service) CreateRefund(initiatedBy, originalPaymentID uint) (*models.Transfer, error) {
	return s.repo.CreateRefund(initiatedBy, originalPaymentID)
}

func (s *service) ListRefunds(initiatedBy, originalPaymentID uint) ([]models.Transfer, error) {
	refunds, err := s.repo.ListRefunds(initiatedBy, originalPaymentID)
	if err != nil {
		return nil, err
	}
	if refunds == nil {
		refunds = []models.Transfer{}
	}
	return refunds, nil
}

// buildFilter validates and converts the raw query values.
func buildFilter(req SearchRequest) (*repositories.TransferSearchFilter, error) {
	var filter repositories.TransferSearchFilter

	if st := strings.TrimSpace(req.Status); st != "" {
		st = strings.ToUpper(st)
		if !models.ValidStatus(st) {
			return nil, errors.BadRequest("status is invalid")
		}
		filter.Status = &st
	}
	if req.FromAccountID != 0 {
		id := req.FromAccountID
		filter.FromAccountID = &id
	}
	if req.ToAccountID != 0 {
		id := req.ToAccountID
		filter.ToAccountID = &id
	}
	if c := strings.TrimSpace(req.Currency); c != "" {
		c = strings.ToUpper(c)
		filter.Currency = &c
	}
	if v := strings.TrimSpace(req.CreatedFrom); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.BadRequest("createdFrom must be an RFC 3339 timestamp")
		}
		filter.CreatedFrom = &t
	}
	if v := strings.TrimSpace(req.CreatedTo); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.BadRequest("createdTo must be an RFC 3339 timestamp")
		}
		filter.CreatedTo = &t
	}

	return &filter, nil
}
