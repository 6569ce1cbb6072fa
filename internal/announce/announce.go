// Package announce defines the normalized rental-listing record that every
// acquisition strategy produces and every downstream consumer (filters, the
// daily aggregator, notification sinks) reads.
package announce

// Announcement is one normalized rental-housing listing.
//
// All eight fields are always present; when a source omits a value the field
// stays "". ID must be non-empty and stable across polls for the same listing;
// each fetch strategy guarantees that on its own.
type Announcement struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	RentalType string `json:"rental_type"`
	Status     string `json:"status"`
	RegDate    string `json:"reg_date"`
	RcptBegin  string `json:"rcpt_begin"`
	RcptEnd    string `json:"rcpt_end"`
	URL        string `json:"url"`
}

// rentalTypes maps LH category codes to display labels.
var rentalTypes = map[string]string{
	"01": "국민임대",
	"02": "공공임대",
	"03": "영구임대",
	"04": "행복주택",
	"05": "장기전세",
	"06": "공공지원민간임대",
	"07": "통합공공임대",
	"08": "전세임대",
	"09": "매입임대",
	"10": "기타",
}

// RentalTypeLabel resolves a category code to its label.
// Unknown codes pass through verbatim.
func RentalTypeLabel(code string) string {
	if label, ok := rentalTypes[code]; ok {
		return label
	}
	return code
}
