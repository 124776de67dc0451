package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/models"
)

// IPaymentService records rent payments.
type IPaymentService interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
	ListByContract(ctx context.Context, contractID primitive.ObjectID) ([]models.Payment, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.PaymentPatch) (*models.Payment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const paymentsCollection = "payments"

type paymentService struct {
	store     *store[models.Payment, *models.Payment]
	contracts *store[models.Contract, *models.Contract]
}

func NewPaymentService(db *mongo.Database) IPaymentService {
	return &paymentService{
		store:     newStore[models.Payment](db, paymentsCollection, "Payment"),
		contracts: newStore[models.Contract](db, contractsCollection, "Contract"),
	}
}

func (s *paymentService) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	contract, err := s.contracts.findByID(ctx, payment.ContractID)
	if err != nil {
		return nil, err
	}
	if contract.TenantAuthID != payment.TenantAuthID {
		return nil, fieldError("tenantAuthID", "does not match the contract's tenant")
	}
	if err := s.store.insert(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return s.store.findByID(ctx, id)
}

func (s *paymentService) List(ctx context.Context) ([]models.Payment, error) {
	return s.store.find(ctx, nil)
}

func (s *paymentService) ListByContract(ctx context.Context, contractID primitive.ObjectID) ([]models.Payment, error) {
	return s.store.find(ctx, bson.M{"contract_id": contractID})
}

func (s *paymentService) Update(ctx context.Context, id primitive.ObjectID, patch *models.PaymentPatch) (*models.Payment, error) {
	return s.store.patch(ctx, bson.M{"_id": id}, patch)
}

func (s *paymentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.store.delete(ctx, bson.M{"_id": id})
	return err
}
