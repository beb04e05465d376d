package core

import (
	"context"
	"fmt"

	"retailcore/pkg/domain"
)

// HierarchySymmetryRule blocks commits that leave the store/district relation
// asymmetric or dangling. Both sides carry the membership, so any transaction
// touching a store or district must leave every reference mirrored.
func HierarchySymmetryRule() domain.Rule {
	return hierarchySymmetryRule{}
}

type hierarchySymmetryRule struct{}

func (hierarchySymmetryRule) Name() string { return "hierarchy_symmetry" }

func (hierarchySymmetryRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	touched := false
	for _, change := range changes {
		if change.Entity == domain.EntityStore || change.Entity == domain.EntityDistrict {
			touched = true
			break
		}
	}
	res := domain.Result{}
	if !touched {
		return res, nil
	}

	for _, store := range view.ListStores() {
		for _, districtID := range store.DistrictIDs {
			district, ok := view.FindDistrict(districtID)
			if !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "hierarchy_symmetry",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("store %s references missing district %s", store.ID, districtID),
					Entity:   domain.EntityStore,
					EntityID: store.ID,
				})
				continue
			}
			if !containsID(district.StoreIDs, store.ID) {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "hierarchy_symmetry",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("store %s lists district %s but the district does not list it back", store.ID, districtID),
					Entity:   domain.EntityStore,
					EntityID: store.ID,
				})
			}
		}
	}
	for _, district := range view.ListDistricts() {
		for _, storeID := range district.StoreIDs {
			store, ok := view.FindStore(storeID)
			if !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "hierarchy_symmetry",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("district %s references missing store %s", district.ID, storeID),
					Entity:   domain.EntityDistrict,
					EntityID: district.ID,
				})
				continue
			}
			if !containsID(store.DistrictIDs, district.ID) {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "hierarchy_symmetry",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("district %s lists store %s but the store does not list it back", district.ID, storeID),
					Entity:   domain.EntityDistrict,
					EntityID: district.ID,
				})
			}
		}
	}
	return res, nil
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
