package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	regions "github.com/tingold/orb-regions"
	"go.uber.org/zap"
)

type City struct {
	Name       string
	Country    string
	Longitude  float64
	Latitude   float64
	Population int
	Capital    bool
}

var cities = []City{
	{"Tokyo", "Japan", 139.6917, 35.6895, 13960000, true},
	{"New York", "United States", -73.9857, 40.7484, 8336817, false},
	{"London", "United Kingdom", -0.1276, 51.5074, 8982000, true},
	{"Paris", "France", 2.3522, 48.8566, 2161000, true},
	{"Beijing", "China", 116.4074, 39.9042, 21540000, true},
	{"Moscow", "Russia", 37.6173, 55.7558, 12615000, true},
	{"São Paulo", "Brazil", -46.6333, -23.5505, 12300000, false},
	{"Mumbai", "India", 72.8777, 19.0760, 12400000, false},
	{"Los Angeles", "United States", -118.2437, 34.0522, 3971883, false},
	{"Shanghai", "China", 121.4737, 31.2304, 24870000, false},
	{"Istanbul", "Turkey", 28.9784, 41.0082, 15520000, false},
	{"Buenos Aires", "Argentina", -58.3816, -34.6037, 3075646, true},
	{"Cairo", "Egypt", 31.2357, 30.0444, 10230000, true},
	{"Sydney", "Australia", 151.2093, -33.8688, 5312000, false},
	{"Berlin", "Germany", 13.4050, 52.5200, 3669491, true},
}

// kmPerDegree is the length of one degree of longitude at the equator.
const kmPerDegree = 111.32

// sampleData builds the built-in city layer: one square region per city,
// a "longitude" column equivalent to the x center and a "km east" column
// linked to it by an affine transform.
func sampleData(logger *zap.Logger) (*regions.RegionData, error) {
	links := regions.NewLinks()
	d := regions.New("world_cities",
		regions.WithCRS(regions.WGS84()),
		regions.WithLinks(links),
		regions.WithLogger(logger))

	n := len(cities)
	names := make(regions.Strings, n)
	countries := make(regions.Strings, n)
	population := make(regions.Int64s, n)
	capital := make(regions.Bools, n)
	lon := make(regions.Float64s, n)
	km := make(regions.Float64s, n)
	areas := make(regions.Geometries, n)
	for i, c := range cities {
		names[i] = c.Name
		countries[i] = c.Country
		population[i] = int64(c.Population)
		capital[i] = c.Capital
		lon[i] = c.Longitude
		km[i] = c.Longitude * kmPerDegree
		areas[i] = cityArea(c)
	}

	for _, c := range []struct {
		values regions.ColumnValue
		label  string
	}{
		{names, "name"},
		{countries, "country"},
		{population, "population"},
		{capital, "capital"},
	} {
		if _, err := d.Add(c.values, c.label); err != nil {
			return nil, err
		}
	}
	lonID, err := d.Add(lon, "longitude")
	if err != nil {
		return nil, err
	}
	kmID, err := d.Add(km, "km east")
	if err != nil {
		return nil, err
	}
	if _, err := d.Add(areas, "city"); err != nil {
		return nil, err
	}

	cx, err := d.CenterXID()
	if err != nil {
		return nil, err
	}
	links.AddEquivalence(lonID, cx)

	link, err := regions.AffineLink(cx, kmID, kmPerDegree, 0)
	if err != nil {
		return nil, err
	}
	if err := links.AddLink(link); err != nil {
		return nil, err
	}
	return d, nil
}

// cityArea is a one degree square centred on the city.
func cityArea(c City) orb.Polygon {
	const half = 0.5
	b := orb.Bound{
		Min: orb.Point{c.Longitude - half, c.Latitude - half},
		Max: orb.Point{c.Longitude + half, c.Latitude + half},
	}
	return b.ToPolygon()
}

// loadData reads the input file named in cfg, or builds the sample.
func loadData(cfg *Config, logger *zap.Logger) (*regions.RegionData, error) {
	if cfg.Input == "" {
		logger.Info("serving built-in sample", zap.Int("cities", len(cities)))
		return sampleData(logger)
	}

	links := regions.NewLinks()
	opts := []regions.DataOption{regions.WithLinks(links), regions.WithLogger(logger)}

	switch ext := strings.ToLower(filepath.Ext(cfg.Input)); ext {
	case ".geojson", ".json":
		data, err := os.ReadFile(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
		}
		return regions.FromFeatureCollection(fc, cfg.Label, opts...)
	case ".fgb":
		r, err := regions.NewReader(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open FlatGeobuf: %w", err)
		}
		defer func() { _ = r.Close() }()
		return r.RegionData(opts...)
	default:
		return nil, fmt.Errorf("unsupported input extension %q", ext)
	}
}
