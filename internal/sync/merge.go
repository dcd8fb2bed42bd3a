package sync

import "github.com/nivke/cartmate/internal/models"

// Merge reconciles locally held state with a decoded incoming payload.
//
// Items merge by set-union on ID: incoming items whose ID is unknown locally
// are prepended, unchanged, ahead of the existing items (they take the "most
// recent" display position); items whose ID is already known keep the local
// copy, even if the incoming copy differs. Identical IDs are assumed to mean
// identical content, a deliberate simplification for a two-person household
// list. Preferences are replaced wholesale by the incoming ones.
//
// Applying the same payload twice is harmless: the second pass finds no
// unknown IDs and changes nothing.
func Merge(localItems []models.Item, localPrefs *models.Preferences, incoming *models.SyncPayload) ([]models.Item, *models.Preferences) {
	if incoming == nil {
		return localItems, localPrefs
	}

	known := make(map[string]struct{}, len(localItems))
	for _, item := range localItems {
		known[item.ID] = struct{}{}
	}

	var fresh []models.Item
	for _, item := range incoming.Items {
		if _, ok := known[item.ID]; !ok {
			fresh = append(fresh, item)
		}
	}

	merged := make([]models.Item, 0, len(fresh)+len(localItems))
	merged = append(merged, fresh...)
	merged = append(merged, localItems...)

	prefs := localPrefs
	if incoming.Prefs != nil {
		p := *incoming.Prefs
		prefs = &p
	}
	return merged, prefs
}
