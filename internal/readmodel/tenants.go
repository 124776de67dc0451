package readmodel

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/models"
)

// ActiveTenant is a tenant profile with the contract that makes it active folded in.
// A tenant renting several of the landlord's properties appears once per contract.
type ActiveTenant struct {
	models.Tenant
	MonthlyRent     float64            `json:"monthlyRent"`
	CurrentProperty string             `json:"currentProperty"`
	PropertyID      primitive.ObjectID `json:"propertyId"`
	ContractID      primitive.ObjectID `json:"contractId"`
	ContractStart   time.Time          `json:"contractStart"`
	ContractEnd     time.Time          `json:"contractEnd"`
}

// LandlordTenants groups a landlord's active tenants.
type LandlordTenants struct {
	LandlordID     primitive.ObjectID `json:"id"`
	LandlordAuthID string             `json:"authID"`
	Tenants        []ActiveTenant     `json:"tenants"`
}

// ActiveTenantsByLandlord walks landlord -> owned properties -> active contracts -> tenant.
// Properties owned by someone else, contracts on unknown properties and contracts whose tenant
// has no profile are skipped. Tenants are ordered by their contract, newest first.
func ActiveTenantsByLandlord(landlord models.Landlord, properties []models.Property, contracts []models.Contract, tenants []models.Tenant, now time.Time) LandlordTenants {
	owned := make(map[primitive.ObjectID]models.Property)
	for _, p := range properties {
		if p.LandlordAuthID == landlord.AuthID {
			owned[p.ID] = p
		}
	}
	tenantsByAuthID := indexTenants(tenants)

	type row struct {
		tenant   ActiveTenant
		contract models.Contract
	}
	var rows []row
	for _, c := range contracts {
		property, ok := owned[c.PropertyID]
		if !ok || !IsContractActive(c, now) {
			continue
		}
		tenant, ok := tenantsByAuthID[c.TenantAuthID]
		if !ok {
			continue
		}
		rows = append(rows, row{
			tenant: ActiveTenant{
				Tenant:          tenant,
				MonthlyRent:     c.MonthlyRent,
				CurrentProperty: property.Address,
				PropertyID:      property.ID,
				ContractID:      c.ID,
				ContractStart:   c.StartDate,
				ContractEnd:     c.EndDate,
			},
			contract: c,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].contract, rows[j].contract
		return newerFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})

	result := LandlordTenants{
		LandlordID:     landlord.ID,
		LandlordAuthID: landlord.AuthID,
		Tenants:        make([]ActiveTenant, 0, len(rows)),
	}
	for _, r := range rows {
		result.Tenants = append(result.Tenants, r.tenant)
	}
	return result
}

// ActiveContractsForTenant returns the tenant's contracts in force at now, newest first.
func ActiveContractsForTenant(tenantAuthID string, contracts []models.Contract, now time.Time) []models.Contract {
	active := make([]models.Contract, 0)
	for _, c := range contracts {
		if c.TenantAuthID == tenantAuthID && IsContractActive(c, now) {
			active = append(active, c)
		}
	}
	SortNewestFirst(active)
	return active
}
