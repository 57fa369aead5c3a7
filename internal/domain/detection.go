package domain

// Detection is one label reported by the object detector
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// DetectedFood is a detected label resolved against the catalog.
// Food is nil when the label has no catalog entry.
type DetectedFood struct {
	Label string      `json:"label"`
	Food  *FoodRecord `json:"food,omitempty"`
	Error string      `json:"error,omitempty"`
}

// DetectionResult is the response for an uploaded image
type DetectionResult struct {
	DetectedClasses []string       `json:"detected_classes"`
	FoodDetails     []DetectedFood `json:"food_details"`
	Source          string         `json:"source"` // "Detector" or "Cache"
}
