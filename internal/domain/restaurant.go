package domain

// Restaurant is metadata fetched from the restaurant collaborator.
// Enrichment only: listings degrade to a nil Restaurant when the
// collaborator is unavailable.
type Restaurant struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
	CuisineType string
}
