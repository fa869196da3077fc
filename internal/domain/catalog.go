package domain

// CatalogEntry is one record of the external food catalog. Entries flagged
// with Error are crawler failures and are excluded from enrichment.
type CatalogEntry struct {
	Name           string `json:"name"`
	Price          string `json:"price"`
	Description    string `json:"description"`
	PopularAddress string `json:"popular_address"`
	Error          bool   `json:"error,omitempty"`
}
