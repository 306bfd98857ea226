package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Product is a server-defined catalog entry. Fields the client does not
// know about are kept in Attributes and written back unchanged.
type Product struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       float64
	Attributes  map[string]any
}

var productKnownFields = map[string]struct{}{
	"id":          {},
	"_id":         {},
	"name":        {},
	"description": {},
	"image_url":   {},
	"price":       {},
}

// UnmarshalJSON decodes a product, tolerating numeric ids and string prices.
// A price that is not a number is read as 0 and kept verbatim in Attributes.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode product: %w", err)
	}

	id := raw["id"]
	if id == nil {
		id = raw["_id"]
	}
	p.ID = stringify(id)
	p.Name = stringify(raw["name"])
	p.Description = stringify(raw["description"])
	p.ImageURL = stringify(raw["image_url"])

	p.Attributes = nil
	price, err := toFloat(raw["price"])
	if err != nil {
		price = 0
		p.Attributes = map[string]any{"price": raw["price"]}
	}
	p.Price = price

	for k, v := range raw {
		if _, known := productKnownFields[k]; known {
			continue
		}
		if p.Attributes == nil {
			p.Attributes = make(map[string]any)
		}
		p.Attributes[k] = v
	}
	return nil
}

// MarshalJSON re-emits the product including unknown attributes
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Attributes)+5)
	for k, v := range p.Attributes {
		out[k] = v
	}
	out["id"] = p.ID
	out["name"] = p.Name
	out["description"] = p.Description
	out["image_url"] = p.ImageURL
	if _, rawPrice := p.Attributes["price"]; !rawPrice || p.Price != 0 {
		out["price"] = p.Price
	}
	return json.Marshal(out)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case string:
		if t == "" {
			return 0, nil
		}
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// CloneProducts copies a product list so callers cannot mutate view state
func CloneProducts(in []Product) []Product {
	if in == nil {
		return nil
	}
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p
		if p.Attributes != nil {
			attrs := make(map[string]any, len(p.Attributes))
			for k, v := range p.Attributes {
				attrs[k] = cloneValue(v)
			}
			out[i].Attributes = attrs
		}
	}
	return out
}
