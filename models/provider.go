package models

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// ClinicProvider is a therapist row exactly as the clinic system-of-record
// returns it. Its keys are 24-char hex tokens.
type ClinicProvider struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Specialty  string  `json:"speciality"`
	Degree     string  `json:"degree"`
	Experience string  `json:"experience"`
	About      string  `json:"about"`
	Fee        float64 `json:"fees"`
	ImageURL   string  `json:"image"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	Available  bool    `json:"available"`
	Email      string  `json:"email"`
}

// DirectoryProvider is the admin-editable therapist row in our own store.
// Rows are keyed by UUID; ExternalID links back to the clinic record when the
// therapist exists there too.
type DirectoryProvider struct {
	ID         string    `bson:"id" json:"id"`
	ExternalID string    `bson:"externalId,omitempty" json:"externalId,omitempty"`
	Name       string    `bson:"name" json:"name"`
	Specialty  string    `bson:"specialty" json:"specialty"`
	Degree     string    `bson:"degree" json:"degree"`
	Experience string    `bson:"experience" json:"experience"`
	About      string    `bson:"about" json:"about"`
	Fee        float64   `bson:"fee" json:"fee"`
	ImageURL   string    `bson:"imageUrl" json:"imageUrl"`
	Location   string    `bson:"location" json:"location"`
	Geo        *GeoPoint `bson:"geo,omitempty" json:"geo,omitempty"`
	Active     bool      `bson:"active" json:"active"`
	Email      string    `bson:"email" json:"email"`
}

// ProviderRecord is the single canonical therapist record shown to users,
// merged from the clinic record and the directory row.
type ProviderRecord struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId,omitempty"`
	Name       string    `json:"name"`
	Specialty  string    `json:"specialty"`
	Degree     string    `json:"degree"`
	Experience string    `json:"experienceLabel"`
	About      string    `json:"about"`
	Fee        float64   `json:"fee"`
	ImageURL   string    `json:"imageUrl"`
	Location   string    `json:"locationLabel"`
	Geo        *GeoPoint `json:"coordinates,omitempty"`
	Available  bool      `json:"isAvailable"`
	Email      string    `json:"contactEmail"`
}

// Defaults applied when neither store carries a value.
const (
	DefaultSpecialty  = "General Therapist"
	DefaultDegree     = "MBBS"
	DefaultExperience = "1 Year"
	DefaultAbout      = "Dedicated mental health professional."
	DefaultFee        = 500
	DefaultLocation   = "Online"
)
