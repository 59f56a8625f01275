package models

// AvailabilitySlot is one entry of the computed bookable grid for a
// provider/service/date. Derived on demand, never persisted.
type AvailabilitySlot struct {
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}
