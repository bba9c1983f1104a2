package services

import (
	"time"

	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
)

// nextChangeTime keeps a dish's ledger monotonic: a new entry is never
// stamped before the latest one already recorded for that dish.
func nextChangeTime(tx *repository.Store, dishID uint, now time.Time) (time.Time, error) {
	latest, err := tx.History.LatestForPlate(dishID)
	if err != nil {
		if isNotFound(err) {
			return now, nil
		}
		return time.Time{}, err
	}
	if latest.ChangeTime.After(now) {
		return latest.ChangeTime, nil
	}
	return now, nil
}

// recordPlateStatus appends one ledger entry for the plate's current
// cooking status, attributed to changedBy.
func recordPlateStatus(tx *repository.Store, plate *models.Plate, changedBy uint, now time.Time) (*models.CookingStatusHistory, error) {
	at, err := nextChangeTime(tx, plate.MenuItemID, now)
	if err != nil {
		return nil, err
	}
	orderID, plateID := plate.OrderID, plate.ID
	entry := &models.CookingStatusHistory{
		ChangeTime:   at,
		NewStatus:    string(plate.CookingStatus),
		OrderID:      &orderID,
		PlateID:      plate.MenuItemID,
		OrderPlateID: &plateID,
	}
	if changedBy != 0 {
		entry.ChangeBy = &changedBy
	}
	if err := tx.History.Create(entry); err != nil {
		return nil, storage(err, "record cooking status")
	}
	return entry, nil
}
