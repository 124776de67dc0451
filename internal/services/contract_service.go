package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhunter5/Backend/internal/cache"
	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/readmodel"
	"github.com/jhunter5/Backend/internal/saga"
	"github.com/jhunter5/Backend/internal/storage"
)

// ContractDetails is a contract with its stored documents.
type ContractDetails struct {
	Contract  *models.Contract          `json:"contract"`
	Documents []models.ContractDocument `json:"documents"`
}

// IContractService manages rental contracts and their documents.
type IContractService interface {
	Create(ctx context.Context, contract *models.Contract, documents []AttachmentInput) (*ContractDetails, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*ContractDetails, error)
	ListByTenant(ctx context.Context, tenantAuthID string) ([]models.Contract, error)
	ListActiveByTenant(ctx context.Context, tenantAuthID string) ([]models.Contract, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Contract, error)
	ListByPropertyAndTenant(ctx context.Context, propertyID primitive.ObjectID, tenantAuthID string) ([]models.Contract, error)
	ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.Contract, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.ContractPatch) (*models.Contract, error)
	Terminate(ctx context.Context, id primitive.ObjectID) (*models.Contract, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

const (
	contractsCollection         = "contracts"
	contractDocumentsCollection = "contract_documents"
)

type contractService struct {
	cfg        *config.Config
	store      *store[models.Contract, *models.Contract]
	documents  *store[models.ContractDocument, *models.ContractDocument]
	properties *store[models.Property, *models.Property]
	tenants    *store[models.Tenant, *models.Tenant]
	storage    storage.IS3Storage
	locker     cache.Locker
	now        func() time.Time
}

func NewContractService(db *mongo.Database, cfg *config.Config, storage storage.IS3Storage, locker cache.Locker) IContractService {
	return &contractService{
		cfg:        cfg,
		store:      newStore[models.Contract](db, contractsCollection, "Contract"),
		documents:  newStore[models.ContractDocument](db, contractDocumentsCollection, "Contract document"),
		properties: newStore[models.Property](db, propertiesCollection, "Property"),
		tenants:    newStore[models.Tenant](db, tenantsCollection, "Tenant"),
		storage:    storage,
		locker:     locker,
		now:        time.Now,
	}
}

// Create books the property for the contract's dates and stores the contract with its documents.
// Bookings on one property are serialized with a lock, and a contract whose dates overlap a
// non-terminated contract on the same property is a Conflict.
func (s *contractService) Create(ctx context.Context, contract *models.Contract, documents []AttachmentInput) (*ContractDetails, error) {
	if !contract.EndDate.After(contract.StartDate) {
		return nil, fieldError("endDate", "must be after startDate")
	}
	if contract.Status != models.ContractDerived && contract.Status != models.ContractActive {
		return nil, fieldError("status", "a new contract cannot be %q", contract.Status)
	}
	files, err := decodeAttachments("documents", documents, s.cfg.ImageMaxSizeMB<<20)
	if err != nil {
		return nil, err
	}
	if _, err := s.properties.findByID(ctx, contract.PropertyID); err != nil {
		return nil, err
	}
	if _, err := s.tenants.findOne(ctx, bson.M{"auth_id": contract.TenantAuthID}); err != nil {
		return nil, err
	}
	contract.Duration = contract.DurationMonths()

	release, err := s.lockProperty(ctx, contract.PropertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkOverlap(ctx, contract.PropertyID, primitive.NilObjectID, contract.StartDate, contract.EndDate); err != nil {
		return nil, err
	}

	sg := saga.New("create contract")
	err = sg.Run(ctx, saga.Step{
		Name:   "insert contract",
		Action: func(ctx context.Context) error { return s.store.insert(ctx, contract) },
		Compensate: func(ctx context.Context) error {
			_, err := s.store.delete(ctx, bson.M{"_id": contract.ID})
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	uploads, err := uploadAll(ctx, s.storage, sg, "contracts/"+contract.ID.Hex(), files, s.cfg.UploadConcurrency)
	if err != nil {
		return nil, sg.Abort(err)
	}

	docs := make([]*models.ContractDocument, 0, len(uploads))
	for _, u := range uploads {
		docType := u.input.Type
		if docType == "" {
			docType = u.object.ContentType
		}
		docs = append(docs, &models.ContractDocument{
			ContractID:   contract.ID,
			DocumentType: docType,
			DocumentURL:  u.object.URL,
			ObjectKey:    u.object.Key,
		})
	}
	if err := sg.Run(ctx, saga.Step{
		Name:   "insert contract documents",
		Action: func(ctx context.Context) error { return s.documents.insertMany(ctx, docs) },
	}); err != nil {
		return nil, err
	}

	details := &ContractDetails{Contract: contract, Documents: make([]models.ContractDocument, 0, len(docs))}
	for _, d := range docs {
		details.Documents = append(details.Documents, *d)
	}
	return details, nil
}

func (s *contractService) lockProperty(ctx context.Context, propertyID primitive.ObjectID) (func(), error) {
	release, err := s.locker.Obtain(ctx, "contract:property:"+propertyID.Hex(), s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("error locking property %s for booking: %w", propertyID.Hex(), err)
	}
	return func() {
		if err := release(context.Background()); err != nil {
			log.Printf("Failed to release booking lock for property %s: %v", propertyID.Hex(), err)
		}
	}, nil
}

// checkOverlap fails with a Conflict when [start, end] intersects a live contract on the property.
func (s *contractService) checkOverlap(ctx context.Context, propertyID, exclude primitive.ObjectID, start, end time.Time) error {
	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$ne": models.ContractTerminated},
		"start_date":  bson.M{"$lte": end},
		"end_date":    bson.M{"$gte": start},
	}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	taken, err := s.store.exists(ctx, filter)
	if err != nil {
		return err
	}
	if taken {
		return Conflict("The property already has a contract for these dates")
	}
	return nil
}

func (s *contractService) FindByID(ctx context.Context, id primitive.ObjectID) (*ContractDetails, error) {
	contract, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.find(ctx, bson.M{"contract_id": id})
	if err != nil {
		return nil, err
	}
	return &ContractDetails{Contract: contract, Documents: docs}, nil
}

func (s *contractService) ListByTenant(ctx context.Context, tenantAuthID string) ([]models.Contract, error) {
	return s.store.find(ctx, bson.M{"tenant_auth_id": tenantAuthID})
}

// ListActiveByTenant returns the tenant's contracts in force now.
func (s *contractService) ListActiveByTenant(ctx context.Context, tenantAuthID string) ([]models.Contract, error) {
	contracts, err := s.ListByTenant(ctx, tenantAuthID)
	if err != nil {
		return nil, err
	}
	return readmodel.ActiveContractsForTenant(tenantAuthID, contracts, s.now()), nil
}

func (s *contractService) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Contract, error) {
	return s.store.find(ctx, bson.M{"property_id": propertyID})
}

func (s *contractService) ListByPropertyAndTenant(ctx context.Context, propertyID primitive.ObjectID, tenantAuthID string) ([]models.Contract, error) {
	return s.store.find(ctx, bson.M{"property_id": propertyID, "tenant_auth_id": tenantAuthID})
}

func (s *contractService) ListByProperties(ctx context.Context, propertyIDs []primitive.ObjectID) ([]models.Contract, error) {
	return s.store.find(ctx, bson.M{"property_id": bson.M{"$in": propertyIDs}})
}

// Update changes dates or rent. New dates are re-checked against the property's other contracts.
func (s *contractService) Update(ctx context.Context, id primitive.ObjectID, patch *models.ContractPatch) (*models.Contract, error) {
	if patch.StartDate == nil && patch.EndDate == nil {
		return s.store.patch(ctx, bson.M{"_id": id}, patch)
	}

	current, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if patch.StartDate != nil {
		next.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		next.EndDate = *patch.EndDate
	}
	if !next.EndDate.After(next.StartDate) {
		return nil, fieldError("endDate", "must be after startDate")
	}

	release, err := s.lockProperty(ctx, current.PropertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkOverlap(ctx, current.PropertyID, id, next.StartDate, next.EndDate); err != nil {
		return nil, err
	}

	set, err := toSet(patch)
	if err != nil {
		return nil, err
	}
	set["duration"] = next.DurationMonths()
	return s.store.update(ctx, bson.M{"_id": id}, set)
}

// Terminate stores the terminated status, which overrides the date range.
func (s *contractService) Terminate(ctx context.Context, id primitive.ObjectID) (*models.Contract, error) {
	return s.transition(ctx, id, models.ContractTerminated)
}

func (s *contractService) transition(ctx context.Context, id primitive.ObjectID, next models.ContractStatus) (*models.Contract, error) {
	current, err := s.store.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, InvalidTransition("Contract", current.Status, next)
	}
	updated, err := s.store.update(ctx, bson.M{"_id": id, "status": current.Status}, bson.M{"status": next})
	if err != nil {
		if IsNotFound(err) {
			return nil, Conflict("Contract was modified concurrently")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the contract, its document records and their stored objects.
func (s *contractService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.store.delete(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	docs, err := s.documents.find(ctx, bson.M{"contract_id": id})
	if err != nil {
		return err
	}
	if err := s.documents.deleteMany(ctx, bson.M{"contract_id": id}); err != nil {
		return err
	}
	for _, d := range docs {
		removeObject(ctx, s.storage, d.ObjectKey, d.DocumentURL)
	}
	return nil
}

// ExpireEnded stores "expired" on contracts whose end date has passed and that were not terminated.
func (s *contractService) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.store.coll.UpdateMany(ctx,
		bson.M{
			"end_date": bson.M{"$lt": now},
			"status":   bson.M{"$in": []models.ContractStatus{models.ContractDerived, models.ContractActive}},
		},
		bson.M{"$set": bson.M{"status": models.ContractExpired, "updated_at": now.UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("error expiring ended contracts: %w", err)
	}
	return res.ModifiedCount, nil
}
