package feed

// OfferRecord is one offer row from a feed export. Optional text fields are
// pointers so missing and empty stay distinct.
type OfferRecord struct {
	ID          string   `json:"id"`
	Card        *string  `json:"card"`
	Merchant    *string  `json:"merchant"`
	OfferText   *string  `json:"offerText"`
	Description *string  `json:"description"`
	Source      *string  `json:"source"`
	Stackable   bool     `json:"stackable"`
	Expires     string   `json:"expires"`
	Categories  []string `json:"categories"`
}
