package formulary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/giygas/prescriptions-api/formulary/entities"
	"github.com/giygas/prescriptions-api/logging"
)

// fileEntry is the on-disk JSON shape of a formulary entry. The file holds
// an array, not an object, so entry order is explicit and preserved.
type fileEntry struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	GenericName string `json:"genericName"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
	SideEffects string `json:"sideEffects"`
	Precautions string `json:"precautions"`
}

func validateEntry(e *fileEntry) error {
	if strings.TrimSpace(e.Key) == "" {
		return fmt.Errorf("missing key")
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("missing name for key %q", e.Key)
	}
	if len(e.Key) > 100 {
		return fmt.Errorf("key too long: %d characters", len(e.Key))
	}
	if len(e.Name) > 200 {
		return fmt.Errorf("name too long for key %q: %d characters", e.Key, len(e.Name))
	}
	return nil
}

// ParseFile loads a formulary table from a JSON file. Entries that fail
// validation are skipped with a warning rather than failing the whole load.
func ParseFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read formulary file: %w", err)
	}

	var fileEntries []fileEntry
	if err := json.Unmarshal(raw, &fileEntries); err != nil {
		return nil, fmt.Errorf("failed to parse formulary file %s: %w", path, err)
	}

	if len(fileEntries) == 0 {
		return nil, fmt.Errorf("formulary file %s contains no entries", path)
	}

	entries := make([]Entry, 0, len(fileEntries))
	for i := range fileEntries {
		fe := &fileEntries[i]
		if err := validateEntry(fe); err != nil {
			logging.Warn("Skipping invalid formulary entry", "index", i, "error", err)
			continue
		}
		entries = append(entries, Entry{
			Key: fe.Key,
			Medicine: entities.Medicine{
				Name:        fe.Name,
				GenericName: fe.GenericName,
				Dosage:      fe.Dosage,
				Frequency:   fe.Frequency,
				Duration:    fe.Duration,
				SideEffects: fe.SideEffects,
				Precautions: fe.Precautions,
			},
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("formulary file %s contains no valid entries", path)
	}

	return NewTable(entries), nil
}

// DefaultTable returns the built-in reference table, used when no formulary
// file is configured.
func DefaultTable() *Table {
	return NewTable([]Entry{
		{
			Key: "paracetamol",
			Medicine: entities.Medicine{
				Name:        "Paracetamol",
				GenericName: "Acetaminophen",
				Dosage:      "500mg",
				Frequency:   "3 times daily",
				Duration:    "As needed",
				SideEffects: "Rare: skin rash, blood disorders",
				Precautions: "Do not exceed 4g per day. Avoid alcohol.",
			},
		},
		{
			Key: "ibuprofen",
			Medicine: entities.Medicine{
				Name:        "Ibuprofen",
				GenericName: "Ibuprofen",
				Dosage:      "400mg",
				Frequency:   "2-3 times daily",
				Duration:    "Maximum 10 days",
				SideEffects: "Stomach upset, dizziness, headache",
				Precautions: "Take with food. Avoid if allergic to NSAIDs.",
			},
		},
		{
			Key: "amoxicillin",
			Medicine: entities.Medicine{
				Name:        "Amoxicillin",
				GenericName: "Amoxicillin",
				Dosage:      "250mg-500mg",
				Frequency:   "3 times daily",
				Duration:    "7-10 days",
				SideEffects: "Nausea, diarrhea, skin rash",
				Precautions: "Complete full course. Inform doctor of allergies.",
			},
		},
		{
			Key: "aspirin",
			Medicine: entities.Medicine{
				Name:        "Aspirin",
				GenericName: "Acetylsalicylic acid",
				Dosage:      "75mg-300mg",
				Frequency:   "Once daily",
				Duration:    "As prescribed",
				SideEffects: "Stomach irritation, bleeding",
				Precautions: "Take with food. Monitor for bleeding.",
			},
		},
		{
			Key: "metformin",
			Medicine: entities.Medicine{
				Name:        "Metformin",
				GenericName: "Metformin HCl",
				Dosage:      "500mg-1000mg",
				Frequency:   "2-3 times daily",
				Duration:    "Long term",
				SideEffects: "Nausea, diarrhea, metallic taste",
				Precautions: "Take with meals. Monitor kidney function.",
			},
		},
	})
}

// Load returns the table from path when set, or the built-in default table.
func Load(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	return ParseFile(path)
}
