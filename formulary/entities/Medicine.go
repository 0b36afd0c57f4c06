package entities

// Medicine is the descriptive payload returned for a matched medicine.
// Field names follow the public API response format.
type Medicine struct {
	Name        string `json:"name"`
	GenericName string `json:"genericName"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
	SideEffects string `json:"sideEffects"`
	Precautions string `json:"precautions"`
}
