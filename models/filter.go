package models

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyFilter enumerates every recognized listing query parameter. Each set
// field narrows the result set independently; the conditions AND together.
// Unknown parameters and unparseable values are ignored.
type PropertyFilter struct {
	MinPrice      *float64
	MaxPrice      *float64
	Type          string
	State         string
	City          string
	MinArea       *float64
	MaxArea       *float64
	Bedrooms      *int
	Bathrooms     *int
	Furnished     *bool
	ListingType   string
	IsVerified    *bool
	MinRating     *float64
	Amenities     []string
	Tags          []string
	AvailableFrom *time.Time
}

func ParsePropertyFilter(q url.Values) PropertyFilter {
	var f PropertyFilter

	f.MinPrice = parseFloat(q.Get("minPrice"))
	f.MaxPrice = parseFloat(q.Get("maxPrice"))
	f.Type = q.Get("type")
	f.State = q.Get("state")
	f.City = q.Get("city")
	f.MinArea = parseFloat(q.Get("minArea"))
	f.MaxArea = parseFloat(q.Get("maxArea"))
	f.Bedrooms = parseInt(q.Get("bedrooms"))
	f.Bathrooms = parseInt(q.Get("bathrooms"))
	f.Furnished = parseBool(q.Get("furnished"))
	f.ListingType = q.Get("listingType")
	f.IsVerified = parseBool(q.Get("isVerified"))
	f.MinRating = parseFloat(q.Get("minRating"))
	f.Amenities = splitList(q.Get("amenities"))
	f.Tags = splitList(q.Get("tags"))

	if v := q.Get("availableFrom"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.AvailableFrom = &t
		}
	}

	return f
}

// Query builds the Mongo filter document. Range parameters for the same field
// merge into a single inclusive range condition.
func (f PropertyFilter) Query() bson.M {
	q := bson.M{}

	if r := rangeCond(f.MinPrice, f.MaxPrice); r != nil {
		q["price"] = r
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.State != "" {
		q["state"] = f.State
	}
	if f.City != "" {
		q["city"] = bson.M{"$regex": primitive.Regex{Pattern: f.City, Options: "i"}}
	}
	if r := rangeCond(f.MinArea, f.MaxArea); r != nil {
		q["areaSqFt"] = r
	}
	if f.Bedrooms != nil {
		q["bedrooms"] = *f.Bedrooms
	}
	if f.Bathrooms != nil {
		q["bathrooms"] = *f.Bathrooms
	}
	if f.Furnished != nil {
		q["furnished"] = *f.Furnished
	}
	if f.ListingType != "" {
		q["listingType"] = f.ListingType
	}
	if f.IsVerified != nil {
		q["isVerified"] = *f.IsVerified
	}
	if f.MinRating != nil {
		q["rating"] = bson.M{"$gte": *f.MinRating}
	}
	if len(f.Amenities) > 0 {
		q["amenities"] = bson.M{"$all": f.Amenities}
	}
	if len(f.Tags) > 0 {
		q["tags"] = bson.M{"$all": f.Tags}
	}
	if f.AvailableFrom != nil {
		q["availableFrom"] = bson.M{"$gte": *f.AvailableFrom}
	}

	return q
}

// CanonicalString serializes the active filter fields as sorted key=value
// pairs so that identical filters always produce identical cache keys.
func (f PropertyFilter) CanonicalString() string {
	pairs := make([]string, 0, 16)
	add := func(key, val string) {
		pairs = append(pairs, key+"="+val)
	}

	if f.MinPrice != nil {
		add("minPrice", formatFloat(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		add("maxPrice", formatFloat(*f.MaxPrice))
	}
	if f.Type != "" {
		add("type", f.Type)
	}
	if f.State != "" {
		add("state", f.State)
	}
	if f.City != "" {
		add("city", f.City)
	}
	if f.MinArea != nil {
		add("minArea", formatFloat(*f.MinArea))
	}
	if f.MaxArea != nil {
		add("maxArea", formatFloat(*f.MaxArea))
	}
	if f.Bedrooms != nil {
		add("bedrooms", strconv.Itoa(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		add("bathrooms", strconv.Itoa(*f.Bathrooms))
	}
	if f.Furnished != nil {
		add("furnished", strconv.FormatBool(*f.Furnished))
	}
	if f.ListingType != "" {
		add("listingType", f.ListingType)
	}
	if f.IsVerified != nil {
		add("isVerified", strconv.FormatBool(*f.IsVerified))
	}
	if f.MinRating != nil {
		add("minRating", formatFloat(*f.MinRating))
	}
	if len(f.Amenities) > 0 {
		add("amenities", strings.Join(f.Amenities, ","))
	}
	if len(f.Tags) > 0 {
		add("tags", strings.Join(f.Tags, ","))
	}
	if f.AvailableFrom != nil {
		add("availableFrom", f.AvailableFrom.Format("2006-01-02"))
	}

	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

func rangeCond(min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	return r
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseInt(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// parseBool treats the literal "true" as true and any other present value as
// false; an absent parameter imposes no constraint.
func parseBool(v string) *bool {
	if v == "" {
		return nil
	}
	b := v == "true"
	return &b
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
