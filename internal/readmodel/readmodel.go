// Package readmodel builds the denormalized dashboard views from collections that have
// already been loaded into memory. Nothing here touches the database; callers fetch the
// candidate documents and these functions join, filter, shape and order them.
//
// Joins use the external auth identifier (landlord/tenant AuthID) or the property id, as
// stored on the documents. A reference with no matching document yields an empty join.
// Every list is ordered newest first by creation time with ties broken by ascending id.
package readmodel

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/models"
	"github.com/jhunter5/Backend/internal/utils"
)

// IsContractActive reports whether c is in force at now.
// A terminated or expired status always wins; otherwise the date range decides, inclusive on both ends.
func IsContractActive(c models.Contract, now time.Time) bool {
	switch c.Status {
	case models.ContractTerminated, models.ContractExpired:
		return false
	}
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// SortNewestFirst orders items by CreatedAt descending, then by id ascending.
func SortNewestFirst[T any, PT interface {
	*T
	models.IBase
}](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := PT(&items[i]), PT(&items[j])
		return newerFirst(a.GetCreatedAt(), a.GetID(), b.GetCreatedAt(), b.GetID())
	})
}

func newerFirst(aAt time.Time, aID primitive.ObjectID, bAt time.Time, bID primitive.ObjectID) bool {
	if !aAt.Equal(bAt) {
		return aAt.After(bAt)
	}
	return utils.CompareIDs(aID, bID) < 0
}

// TenantSummary is the tenant projection embedded in contract views.
type TenantSummary struct {
	AuthID    string `json:"authID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func summarizeTenant(t models.Tenant) *TenantSummary {
	return &TenantSummary{
		AuthID:    t.AuthID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Email:     t.Email,
	}
}

func indexTenants(tenants []models.Tenant) map[string]models.Tenant {
	byAuthID := make(map[string]models.Tenant, len(tenants))
	for _, t := range tenants {
		byAuthID[t.AuthID] = t
	}
	return byAuthID
}

func groupMedia(media []models.PropertyMedia) map[primitive.ObjectID][]models.PropertyMedia {
	grouped := make(map[primitive.ObjectID][]models.PropertyMedia)
	for _, m := range media {
		grouped[m.PropertyID] = append(grouped[m.PropertyID], m)
	}
	for id := range grouped {
		SortNewestFirst(grouped[id])
	}
	return grouped
}
