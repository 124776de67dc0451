package readmodel

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/models"
)

// MediaSummary is a media record without storage bookkeeping.
type MediaSummary struct {
	ID          primitive.ObjectID `json:"id"`
	MediaType   string             `json:"mediaType"`
	MediaURL    string             `json:"mediaUrl"`
	Description string             `json:"description"`
	UploadDate  time.Time          `json:"uploadDate"`
}

// PropertyWithMedia is the public listing card: the property without timestamps, plus its media.
type PropertyWithMedia struct {
	ID             primitive.ObjectID `json:"id"`
	LandlordAuthID string             `json:"landlordAuthID"`
	Address        string             `json:"address"`
	City           string             `json:"city"`
	State          string             `json:"state"`
	Type           string             `json:"type"`
	Rooms          int                `json:"rooms"`
	Parking        int                `json:"parking"`
	SquareMeters   float64            `json:"squareMeters"`
	Tier           int                `json:"tier"`
	Bathrooms      int                `json:"bathrooms"`
	Age            int                `json:"age"`
	Floors         int                `json:"floors"`
	Description    string             `json:"description"`
	IsAvailable    bool               `json:"isAvailable"`
	RentPrice      float64            `json:"rentPrice"`
	Media          []MediaSummary     `json:"media"`
}

// ContractView is a contract with its tenant projected to contact fields.
// Tenant is nil when no profile exists for the contract's tenant.
type ContractView struct {
	models.Contract
	Tenant *TenantSummary `json:"tenant"`
}

// PropertyView is a property with all of its media and its active contract, if any.
type PropertyView struct {
	Property models.Property        `json:"property"`
	Media    []models.PropertyMedia `json:"media"`
	Contract *ContractView          `json:"contract"`
}

// AvailablePropertiesWithMedia keeps only properties flagged available and attaches their media.
func AvailablePropertiesWithMedia(properties []models.Property, media []models.PropertyMedia) []PropertyWithMedia {
	available := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if p.IsAvailable {
			available = append(available, p)
		}
	}
	SortNewestFirst(available)

	mediaByProperty := groupMedia(media)
	result := make([]PropertyWithMedia, 0, len(available))
	for _, p := range available {
		card := PropertyWithMedia{
			ID:             p.ID,
			LandlordAuthID: p.LandlordAuthID,
			Address:        p.Address,
			City:           p.City,
			State:          p.State,
			Type:           p.Type,
			Rooms:          p.Rooms,
			Parking:        p.Parking,
			SquareMeters:   p.SquareMeters,
			Tier:           p.Tier,
			Bathrooms:      p.Bathrooms,
			Age:            p.Age,
			Floors:         p.Floors,
			Description:    p.Description,
			IsAvailable:    p.IsAvailable,
			RentPrice:      p.RentPrice,
			Media:          make([]MediaSummary, 0, len(mediaByProperty[p.ID])),
		}
		for _, m := range mediaByProperty[p.ID] {
			card.Media = append(card.Media, MediaSummary{
				ID:          m.ID,
				MediaType:   m.MediaType,
				MediaURL:    m.MediaURL,
				Description: m.Description,
				UploadDate:  m.UploadDate,
			})
		}
		result = append(result, card)
	}
	return result
}

// PropertyDetail joins one property with its media and the contract active at now.
// When more than one contract is active the latest start date wins.
func PropertyDetail(property models.Property, media []models.PropertyMedia, contracts []models.Contract, tenants []models.Tenant, now time.Time) PropertyView {
	own := make([]models.PropertyMedia, 0)
	for _, m := range media {
		if m.PropertyID == property.ID {
			own = append(own, m)
		}
	}
	SortNewestFirst(own)

	view := PropertyView{Property: property, Media: own}
	if c := activeContractFor(property.ID, contracts, now); c != nil {
		cv := &ContractView{Contract: *c}
		if t, ok := indexTenants(tenants)[c.TenantAuthID]; ok {
			cv.Tenant = summarizeTenant(t)
		}
		view.Contract = cv
	}
	return view
}

// PropertiesWithMediaAndContract builds a PropertyView for each property, newest property first.
func PropertiesWithMediaAndContract(properties []models.Property, media []models.PropertyMedia, contracts []models.Contract, tenants []models.Tenant, now time.Time) []PropertyView {
	ordered := append([]models.Property(nil), properties...)
	SortNewestFirst(ordered)

	mediaByProperty := groupMedia(media)
	tenantsByAuthID := indexTenants(tenants)
	views := make([]PropertyView, 0, len(ordered))
	for _, p := range ordered {
		view := PropertyView{Property: p, Media: mediaByProperty[p.ID]}
		if view.Media == nil {
			view.Media = []models.PropertyMedia{}
		}
		if c := activeContractFor(p.ID, contracts, now); c != nil {
			cv := &ContractView{Contract: *c}
			if t, ok := tenantsByAuthID[c.TenantAuthID]; ok {
				cv.Tenant = summarizeTenant(t)
			}
			view.Contract = cv
		}
		views = append(views, view)
	}
	return views
}

func activeContractFor(propertyID primitive.ObjectID, contracts []models.Contract, now time.Time) *models.Contract {
	var active []models.Contract
	for _, c := range contracts {
		if c.PropertyID == propertyID && IsContractActive(c, now) {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return newerFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return &active[0]
}
