package feed

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Field aliases seen across scraped feed exports. First present wins.
var (
	idKeys       = []string{"id", "offerId"}
	textKeys     = []string{"offerText", "offer", "savings", "text", "deal"}
	merchantKeys = []string{"merchant", "store", "brand"}
	cardKeys     = []string{"card", "cardName", "issuer"}
	descKeys     = []string{"description", "details"}
	sourceKeys   = []string{"source", "origin"}
	stackKeys    = []string{"stackable", "isStackable"}
	expiresKeys  = []string{"expires", "validTo", "endDate"}
	categoryKeys = []string{"categories", "tags"}
)

// Load reads a feed of offers from r. It accepts a top-level array or an
// object carrying an "offers" array, and tolerates the field-name drift of
// scraped exports.
func Load(r io.Reader) ([]OfferRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a feed from path; "-" reads stdin.
func LoadFile(path string) ([]OfferRecord, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feed: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Parse decodes feed bytes. Records without an id get a generated one so
// downstream selection stays stable within a run.
func Parse(data []byte) ([]OfferRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing feed: invalid JSON")
	}

	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("offers")
		if !list.Exists() {
			return nil, fmt.Errorf("parsing feed: no offers array")
		}
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("parsing feed: expected an array of offers")
	}

	var records []OfferRecord
	list.ForEach(func(_, v gjson.Result) bool {
		records = append(records, recordFrom(v))
		return true
	})
	return records, nil
}

func recordFrom(v gjson.Result) OfferRecord {
	rec := OfferRecord{
		ID:      firstString(v, idKeys),
		Expires: firstString(v, expiresKeys),
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	rec.OfferText = optString(v, textKeys)
	rec.Merchant = optString(v, merchantKeys)
	rec.Card = optString(v, cardKeys)
	rec.Description = optString(v, descKeys)
	rec.Source = optString(v, sourceKeys)

	for _, key := range stackKeys {
		if f := v.Get(key); f.Exists() {
			rec.Stackable = f.Bool()
			break
		}
	}
	for _, key := range categoryKeys {
		if f := v.Get(key); f.IsArray() {
			f.ForEach(func(_, c gjson.Result) bool {
				rec.Categories = append(rec.Categories, c.String())
				return true
			})
			break
		}
	}
	return rec
}

func firstString(v gjson.Result, keys []string) string {
	for _, key := range keys {
		if f := v.Get(key); f.Exists() && f.String() != "" {
			return f.String()
		}
	}
	return ""
}

func optString(v gjson.Result, keys []string) *string {
	for _, key := range keys {
		if f := v.Get(key); f.Exists() {
			s := f.String()
			return &s
		}
	}
	return nil
}
