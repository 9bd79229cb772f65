package repository

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"storefront/internal/domain"
)

// seedProduct is the catalog export shape. _id may be a plain string or an
// extended-JSON {"$oid": "..."} object.
type seedProduct struct {
	ID                  json.RawMessage `json:"_id"`
	ObjectID            string          `json:"objectID"`
	Name                string          `json:"name"`
	ShortDescription    string          `json:"shortDescription"`
	BestSellingRank     int             `json:"bestSellingRank"`
	ThumbnailImage      string          `json:"thumbnailImage"`
	SalePrice           float64         `json:"salePrice"`
	Manufacturer        string          `json:"manufacturer"`
	URL                 string          `json:"url"`
	Type                string          `json:"type"`
	Image               *string         `json:"image"`
	CustomerReviewCount *int            `json:"customerReviewCount"`
	Shipping            string          `json:"shipping"`
	SalePriceRange      string          `json:"salePrice_range"`
	Categories          []string        `json:"categories"`
}

// ReadSeedFile parses a JSON array of products.
func ReadSeedFile(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]domain.Product, error) {
	var raw []seedProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for i, s := range raw {
		id, err := parseSeedID(s.ID)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}

		p := domain.Product{
			ID:                  id,
			ObjectID:            s.ObjectID,
			Name:                s.Name,
			ShortDescription:    s.ShortDescription,
			BestSellingRank:     s.BestSellingRank,
			ThumbnailImage:      s.ThumbnailImage,
			SalePrice:           s.SalePrice,
			Manufacturer:        s.Manufacturer,
			URL:                 s.URL,
			Type:                s.Type,
			CustomerReviewCount: s.CustomerReviewCount,
			Shipping:            s.Shipping,
			SalePriceRange:      s.SalePriceRange,
			Categories:          s.Categories,
		}
		if s.Image != nil {
			p.Image = *s.Image
		}
		if p.Categories == nil {
			p.Categories = []string{}
		}
		products = append(products, p)
	}

	return products, nil
}

func parseSeedID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err != nil {
		return "", fmt.Errorf("unsupported _id %s", string(raw))
	}
	return oid.OID, nil
}
