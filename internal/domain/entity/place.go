package entity

// Place is a business listing as returned by the places provider, before its
// website has been reviewed.
type Place struct {
	ID      string
	Name    string
	Address string
	Phone   string
	Website string
	Rating  float64
	Reviews int
}
