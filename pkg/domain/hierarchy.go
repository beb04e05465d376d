package domain

// Hierarchy resolution helpers. The Store↔District relation is stored on both
// sides; these helpers read it through a consistent snapshot so callers never
// observe a half-applied link.

// Linked reports whether the store is currently a member of the district.
func Linked(view RuleView, districtID, storeID string) bool {
	district, ok := view.FindDistrict(districtID)
	if !ok {
		return false
	}
	for _, id := range district.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// ReviewersFor returns the district actors whose district currently includes
// the given store.
func ReviewersFor(view RuleView, storeID string) []Actor {
	store, ok := view.FindStore(storeID)
	if !ok {
		return nil
	}
	var reviewers []Actor
	for _, districtID := range store.DistrictIDs {
		district, ok := view.FindDistrict(districtID)
		if !ok {
			continue
		}
		if actor, ok := view.FindActor(district.ActorID); ok {
			reviewers = append(reviewers, actor)
		}
	}
	return reviewers
}

// StoresFor returns the stores currently linked to the given district.
func StoresFor(view RuleView, districtID string) []Store {
	district, ok := view.FindDistrict(districtID)
	if !ok {
		return nil
	}
	var stores []Store
	for _, storeID := range district.StoreIDs {
		if store, ok := view.FindStore(storeID); ok {
			stores = append(stores, store)
		}
	}
	return stores
}

// OwnerOf returns the store actor owning the given store.
func OwnerOf(view RuleView, storeID string) (Actor, bool) {
	store, ok := view.FindStore(storeID)
	if !ok {
		return Actor{}, false
	}
	return view.FindActor(store.ActorID)
}
