package bot

import (
	"regexp"
	"strings"

	"dataseller/internal/catalog"
)

// ExtractedOrder holds the order fields pulled out of a free-text
// purchase message. Extraction is best-effort: any subset of the three
// fields may be empty.
type ExtractedOrder struct {
	Network catalog.Network // "" when no network was named
	Size    string          // "" when no known size label was found
	Phone   string          // "" when no 11-digit number was found
}

// Complete reports whether all three fields were extracted.
func (o ExtractedOrder) Complete() bool {
	return o.Network != "" && o.Size != "" && o.Phone != ""
}

// sizeLabels is scanned in this exact order. "2.5GB" sits last and is
// unreachable: fractional parts are dropped before matching, so a
// message saying "2.5GB" resolves to "2GB". Downstream replies depend
// on that resolution; keep the order and the normalization as they are.
var sizeLabels = []string{"1GB", "2GB", "5GB", "10GB", "2.5GB"}

var fractionPart = regexp.MustCompile(`\.\d+`)

// phonePattern takes the first 11 consecutive digits anywhere in the
// text. A longer run is truncated to its first 11 digits; no carrier
// prefix or checksum validation is applied.
var phonePattern = regexp.MustCompile(`[0-9]{11}`)

// Extractor parses order fields out of order-submission messages.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract pulls (network, size, phone) from text. It never fails; fields
// that cannot be found are left empty.
func (e *Extractor) Extract(text string) ExtractedOrder {
	upper := strings.ToUpper(text)

	var order ExtractedOrder
	for _, n := range []catalog.Network{catalog.NetworkMTN, catalog.NetworkGLO, catalog.NetworkAirtel} {
		if strings.Contains(upper, string(n)) {
			order.Network = n
			break
		}
	}

	sized := fractionPart.ReplaceAllString(upper, "")
	for _, label := range sizeLabels {
		if strings.Contains(sized, label) {
			order.Size = label
			break
		}
	}

	order.Phone = phonePattern.FindString(text)
	return order
}
