package domain

// PhotoStatus is the terminal outcome for a single photo in an indexing run.
type PhotoStatus string

const (
	PhotoStatusIndexed        PhotoStatus = "indexed"
	PhotoStatusSkipped        PhotoStatus = "skipped"
	PhotoStatusNoFoodDetected PhotoStatus = "no_food_detected"
	PhotoStatusError          PhotoStatus = "error"
)

// PhotoResult is the per-photo detail entry in an index report.
type PhotoResult struct {
	PhotoID   string      `json:"photo_id"`
	Status    PhotoStatus `json:"status"`
	FoodClass string      `json:"food_class,omitempty"`
	IsFood    bool        `json:"is_food,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// IndexReport aggregates the outcome of one indexing batch. A single photo
// failure never aborts the batch; errors are enumerated here instead.
type IndexReport struct {
	Status       string        `json:"status"`
	Total        int           `json:"total_photos"`
	UserPhotos   int           `json:"user_photos_count"`
	FriendPhotos int           `json:"friend_photos_count"`
	Indexed      int           `json:"indexed"`
	Skipped      int           `json:"skipped"`
	NoFood       int           `json:"no_food_detected"`
	Errors       []PhotoResult `json:"errors"`
	Details      []PhotoResult `json:"details"`
}

// Tally recomputes the aggregate counters from Details. Errors is rebuilt so
// failed photos stay visible without scanning the full detail list.
func (r *IndexReport) Tally() {
	r.Indexed, r.Skipped, r.NoFood = 0, 0, 0
	r.Errors = r.Errors[:0]
	for _, d := range r.Details {
		switch d.Status {
		case PhotoStatusIndexed:
			r.Indexed++
		case PhotoStatusSkipped:
			r.Skipped++
		case PhotoStatusNoFoodDetected:
			r.NoFood++
		case PhotoStatusError:
			r.Errors = append(r.Errors, d)
		}
	}
	r.Total = len(r.Details)
}
