// Command import bulk-loads the property seed dataset from a CSV file into
// the properties collection. It exits non-zero when the file is missing or
// the store is unreachable.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propnest/backend/config"
	"github.com/propnest/backend/store"
)

// record mirrors one CSV row. The dataset's own id and listedBy columns are
// free-form strings, kept verbatim; they are not the ObjectID references the
// API creates.
type record struct {
	ID            primitive.ObjectID `bson:"_id"`
	ExternalID    string             `bson:"externalId"`
	Title         string             `bson:"title"`
	Type          string             `bson:"type"`
	Price         int                `bson:"price"`
	State         string             `bson:"state"`
	City          string             `bson:"city"`
	AreaSqFt      int                `bson:"areaSqFt"`
	Bedrooms      int                `bson:"bedrooms"`
	Bathrooms     int                `bson:"bathrooms"`
	Amenities     []string           `bson:"amenities"`
	Furnished     bool               `bson:"furnished"`
	AvailableFrom time.Time          `bson:"availableFrom"`
	ListedBy      string             `bson:"listedBy"`
	Tags          []string           `bson:"tags"`
	ColorTheme    string             `bson:"colorTheme"`
	Rating        float64            `bson:"rating"`
	IsVerified    bool               `bson:"isVerified"`
	ListingType   string             `bson:"listingType"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	path := flag.String("file", "properties.csv", "path to the CSV file to import")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}
	cfg := config.Load()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("cannot open CSV file")
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("parsing CSV failed")
	}
	log.Info().Int("count", len(records)).Msg("parsed CSV records")

	ctx := context.Background()
	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("closing mongodb connection failed")
		}
	}()

	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}

	res, err := db.Properties().InsertMany(ctx, docs)
	if err != nil {
		log.Fatal().Err(err).Msg("bulk insert failed")
	}
	log.Info().Int("count", len(res.InsertedIDs)).Msg("import completed")
}

func parseCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var records []record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		line++

		rec, err := parseRecord(cols, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(cols map[string]int, row []string) (record, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	price, err := strconv.Atoi(field("price"))
	if err != nil {
		return record{}, fmt.Errorf("invalid price %q", field("price"))
	}
	area, err := strconv.Atoi(field("areaSqFt"))
	if err != nil {
		return record{}, fmt.Errorf("invalid areaSqFt %q", field("areaSqFt"))
	}
	bedrooms, err := strconv.Atoi(field("bedrooms"))
	if err != nil {
		return record{}, fmt.Errorf("invalid bedrooms %q", field("bedrooms"))
	}
	bathrooms, err := strconv.Atoi(field("bathrooms"))
	if err != nil {
		return record{}, fmt.Errorf("invalid bathrooms %q", field("bathrooms"))
	}
	rating, err := strconv.ParseFloat(field("rating"), 64)
	if err != nil {
		return record{}, fmt.Errorf("invalid rating %q", field("rating"))
	}
	availableFrom, err := time.Parse("2006-01-02", field("availableFrom"))
	if err != nil {
		return record{}, fmt.Errorf("invalid availableFrom %q", field("availableFrom"))
	}

	now := time.Now()
	return record{
		ID:            primitive.NewObjectID(),
		ExternalID:    field("id"),
		Title:         field("title"),
		Type:          field("type"),
		Price:         price,
		State:         field("state"),
		City:          field("city"),
		AreaSqFt:      area,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Amenities:     splitPipe(field("amenities")),
		Furnished:     strings.EqualFold(field("furnished"), "true"),
		AvailableFrom: availableFrom,
		ListedBy:      field("listedBy"),
		Tags:          splitPipe(field("tags")),
		ColorTheme:    field("colorTheme"),
		Rating:        rating,
		IsVerified:    strings.EqualFold(field("isVerified"), "true"),
		ListingType:   field("listingType"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func splitPipe(v string) []string {
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
