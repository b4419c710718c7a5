// Command seed-markers generates a randomized dataset snapshot for local
// development and load experiments.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/placora/geoview/internal/adapters/dataset"
	"github.com/placora/geoview/internal/domain/model"
)

// Default configuration constants.
const (
	defaultNumMarkers   = 500
	defaultPremiumShare = 0.15
	defaultOutputFile   = "snapshot.json"
)

// Bounding box roughly covering the Netherlands.
const (
	minLat = 50.75
	maxLat = 53.50
	minLng = 3.35
	maxLng = 7.20
)

var categories = []model.Category{
	{Slug: "veterinarian", Icon: "🩺", Label: "Veterinarians"},
	{Slug: "groomer", Icon: "✂️", Label: "Groomers"},
	{Slug: "pet-store", Icon: "🛒", Label: "Pet stores"},
	{Slug: "shelter", Icon: "🏠", Label: "Shelters"},
	{Slug: "trainer", Icon: "🎾", Label: "Trainers"},
}

var cities = []model.City{
	{Name: "Amsterdam", Slug: "amsterdam"},
	{Name: "Rotterdam", Slug: "rotterdam"},
	{Name: "Utrecht", Slug: "utrecht"},
	{Name: "Groningen", Slug: "groningen"},
	{Name: "Eindhoven", Slug: "eindhoven"},
	{Name: "Maastricht", Slug: "maastricht"},
}

var namePrefixes = []string{"Happy", "City", "Royal", "Golden", "Northern", "Little", "Central"}
var nameSuffixes = []string{"Paws", "Tails", "Whiskers", "Friends", "Care", "Clinic", "Corner"}

func main() {
	var (
		num     = flag.Int("markers", defaultNumMarkers, "Number of markers to generate")
		output  = flag.String("output", defaultOutputFile, "Output file for the snapshot")
		seed    = flag.Int64("seed", 0, "Random seed (0 picks a random one)")
		premium = flag.Float64("premium", defaultPremiumShare, "Share of premium markers [0,1]")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	snap := dataset.Snapshot{
		Categories: categories,
		Markers:    make([]model.Marker, 0, *num),
	}
	for i := 0; i < *num; i++ {
		snap.Markers = append(snap.Markers, randomMarker(rng, *premium))
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		os.Stderr.WriteString("failed to encode snapshot: " + err.Error() + "\n")
		return
	}
	if err := os.WriteFile(*output, raw, 0o644); err != nil {
		os.Stderr.WriteString("failed to write snapshot: " + err.Error() + "\n")
		return
	}
	fmt.Printf("wrote %d markers to %s\n", len(snap.Markers), *output)
}

func randomMarker(rng *rand.Rand, premiumShare float64) model.Marker {
	name := namePrefixes[rng.Intn(len(namePrefixes))] + " " + nameSuffixes[rng.Intn(len(nameSuffixes))]
	city := cities[rng.Intn(len(cities))]
	cat := categories[rng.Intn(len(categories))]

	m := model.Marker{
		ID:           uuid.NewString(),
		Name:         name,
		Slug:         slugify(name) + "-" + fmt.Sprintf("%04d", rng.Intn(10000)),
		CategorySlug: cat.Slug,
		City:         city,
		Premium:      rng.Float64() < premiumShare,
		Coordinate: model.Coordinate{
			Lat: minLat + rng.Float64()*(maxLat-minLat),
			Lng: minLng + rng.Float64()*(maxLng-minLng),
		},
	}
	if rng.Float64() < 0.8 {
		m.ReviewCount = rng.Intn(200)
		if m.ReviewCount > 0 {
			// One decimal place between 1.0 and 5.0.
			m.Rating = float64(10+rng.Intn(41)) / 10
		}
	}
	if rng.Float64() < 0.9 {
		m.Address = fmt.Sprintf("%s %d, %s", nameSuffixes[rng.Intn(len(nameSuffixes))]+"straat", 1+rng.Intn(200), city.Name)
	}
	return m
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}
