package readmodel

import (
	"sort"

	"github.com/jhunter5/Backend/internal/models"
)

// Candidate is one application on a property with the applicant's profile, when it exists.
type Candidate struct {
	Application models.Application `json:"application"`
	Tenant      *models.Tenant     `json:"tenant"`
}

// PropertyCandidates lists the applications received for a property.
type PropertyCandidates struct {
	Property   models.Property `json:"property"`
	Candidates []Candidate     `json:"candidates"`
}

// PropertiesWithCandidates pairs each property with its applications, best score first.
// Withdrawn and rejected applications are left out.
func PropertiesWithCandidates(properties []models.Property, applications []models.Application, tenants []models.Tenant) []PropertyCandidates {
	ordered := append([]models.Property(nil), properties...)
	SortNewestFirst(ordered)

	tenantsByAuthID := indexTenants(tenants)
	byProperty := make(map[string][]models.Application)
	for _, a := range applications {
		if a.Status == models.ApplicationWithdrawn || a.Status == models.ApplicationRejected {
			continue
		}
		key := a.PropertyID.Hex()
		byProperty[key] = append(byProperty[key], a)
	}

	result := make([]PropertyCandidates, 0, len(ordered))
	for _, p := range ordered {
		apps := byProperty[p.ID.Hex()]
		sort.SliceStable(apps, func(i, j int) bool {
			a, b := apps[i], apps[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return newerFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
		})

		entry := PropertyCandidates{Property: p, Candidates: make([]Candidate, 0, len(apps))}
		for _, a := range apps {
			c := Candidate{Application: a}
			if t, ok := tenantsByAuthID[a.TenantAuthID]; ok {
				tenant := t
				c.Tenant = &tenant
			}
			entry.Candidates = append(entry.Candidates, c)
		}
		result = append(result, entry)
	}
	return result
}
