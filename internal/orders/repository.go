package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wisetee/orderline-backend/pkg/db"
	"github.com/wisetee/orderline-backend/pkg/db/models"
	"github.com/wisetee/orderline-backend/pkg/enums"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
)

// Repository persists and loads order records keyed by order number.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, order *models.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	MarkVerified(ctx context.Context, orderNumber, proofURL string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository backed by the provided DB.
func NewRepository(gdb *gorm.DB) Repository {
	if gdb == nil {
		return nil
	}
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order record required")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
	}
	return nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var record models.Order
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return &record, nil
}

// MarkVerified moves a pending order to payment_verified_pending_shipping
// and stores the proof URL. The status filter makes the write idempotent:
// an already verified order matches zero rows and the method reports false.
func (r *repository) MarkVerified(ctx context.Context, orderNumber, proofURL string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ? AND status = ?", orderNumber, enums.OrderStatusPendingPayment).
		Updates(map[string]any{
			"status":    enums.OrderStatusPaymentVerified,
			"proof_url": proofURL,
		})
	if result.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "finalize order")
	}
	return result.RowsAffected > 0, nil
}
