// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package gazetteer holds the static reference table of regions, their places and the
// coordinates of those places. A Gazetteer is built once and is read-only afterwards, so it
// can be shared between goroutines without locking.
package gazetteer

import (
	"bytes"
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wneessen/agriwatch/internal/errs"
)

//go:embed data/south_sudan.yaml
var defaultData []byte

// Place is a named location that belongs to exactly one region.
type Place struct {
	Name       string     `json:"name"`
	Region     string     `json:"region"`
	Coordinate Coordinate `json:"coordinate"`
}

// Region is a named, insertion-ordered collection of places.
type Region struct {
	Name   string
	places []Place
	index  map[string]int
}

// Places returns the places of the region in gazetteer order.
func (r Region) Places() []Place {
	places := make([]Place, len(r.places))
	copy(places, r.places)
	return places
}

// Len returns the number of places in the region.
func (r Region) Len() int {
	return len(r.places)
}

// Place looks up a place of the region by name.
func (r Region) Place(name string) (Place, bool) {
	idx, ok := r.index[name]
	if !ok {
		return Place{}, false
	}
	return r.places[idx], true
}

// Gazetteer is an ordered mapping from region name to place name to coordinate.
type Gazetteer struct {
	regions []Region
	index   map[string]int
}

// RegionEntry is the file representation of a region.
type RegionEntry struct {
	Name   string       `yaml:"name" json:"name"`
	Places []PlaceEntry `yaml:"places" json:"places"`
}

// PlaceEntry is the file representation of a place.
type PlaceEntry struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
}

type document struct {
	Regions []RegionEntry `yaml:"regions"`
}

// New builds a Gazetteer from the given entries, keeping their order. Empty or duplicate
// names and invalid coordinates are reported as ErrConfiguration.
func New(entries []RegionEntry) (*Gazetteer, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: gazetteer has no regions", errs.ErrConfiguration)
	}
	gaz := &Gazetteer{
		regions: make([]Region, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: gazetteer region without name", errs.ErrConfiguration)
		}
		if _, ok := gaz.index[name]; ok {
			return nil, fmt.Errorf("%w: duplicate gazetteer region %q", errs.ErrConfiguration, name)
		}
		if len(entry.Places) == 0 {
			return nil, fmt.Errorf("%w: gazetteer region %q has no places", errs.ErrConfiguration, name)
		}

		region := Region{
			Name:   name,
			places: make([]Place, 0, len(entry.Places)),
			index:  make(map[string]int, len(entry.Places)),
		}
		for _, pe := range entry.Places {
			placeName := strings.TrimSpace(pe.Name)
			if placeName == "" {
				return nil, fmt.Errorf("%w: place without name in region %q", errs.ErrConfiguration, name)
			}
			if _, ok := region.index[placeName]; ok {
				return nil, fmt.Errorf("%w: duplicate place %q in region %q", errs.ErrConfiguration,
					placeName, name)
			}
			coord := Coordinate{Lat: pe.Lat, Lon: pe.Lon}
			if !coord.Valid() {
				return nil, fmt.Errorf("%w: place %q in region %q has invalid coordinate %s",
					errs.ErrConfiguration, placeName, name, coord)
			}
			region.index[placeName] = len(region.places)
			region.places = append(region.places, Place{Name: placeName, Region: name, Coordinate: coord})
		}

		gaz.index[name] = len(gaz.regions)
		gaz.regions = append(gaz.regions, region)
	}
	return gaz, nil
}

// Parse builds a Gazetteer from a YAML document.
func Parse(data []byte) (*Gazetteer, error) {
	doc := new(document)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse gazetteer: %s", errs.ErrConfiguration, err)
	}
	return New(doc.Regions)
}

// Load reads and parses the gazetteer file at path.
func Load(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read gazetteer file %q: %s", errs.ErrConfiguration, path, err)
	}
	return Parse(data)
}

// Default returns the built-in gazetteer of South Sudan's states and counties.
func Default() *Gazetteer {
	gaz, err := Parse(defaultData)
	if err != nil {
		panic("embedded gazetteer is invalid: " + err.Error())
	}
	return gaz
}

// Regions returns all regions in gazetteer order.
func (g *Gazetteer) Regions() []Region {
	regions := make([]Region, len(g.regions))
	copy(regions, g.regions)
	return regions
}

// RegionNames returns the region names in gazetteer order.
func (g *Gazetteer) RegionNames() []string {
	names := make([]string, 0, len(g.regions))
	for _, region := range g.regions {
		names = append(names, region.Name)
	}
	return names
}

// Region looks up a region by name.
func (g *Gazetteer) Region(name string) (Region, error) {
	idx, ok := g.index[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: region %q", errs.ErrNotFound, name)
	}
	return g.regions[idx], nil
}

// Place looks up a place by region and place name.
func (g *Gazetteer) Place(region, place string) (Place, error) {
	reg, err := g.Region(region)
	if err != nil {
		return Place{}, err
	}
	p, ok := reg.Place(place)
	if !ok {
		return Place{}, fmt.Errorf("%w: place %q in region %q", errs.ErrNotFound, place, region)
	}
	return p, nil
}

// Places returns every place, iterating regions and then places within a region in
// gazetteer order.
func (g *Gazetteer) Places() []Place {
	places := make([]Place, 0, g.Len())
	for _, region := range g.regions {
		places = append(places, region.places...)
	}
	return places
}

// Len returns the total number of places.
func (g *Gazetteer) Len() int {
	total := 0
	for _, region := range g.regions {
		total += len(region.places)
	}
	return total
}

// Nearest returns the place closest to coord and its distance in meters.
func (g *Gazetteer) Nearest(coord Coordinate) (Place, float64, error) {
	if !coord.Valid() {
		return Place{}, 0, fmt.Errorf("%w: coordinate %s out of range", errs.ErrInvalidInput, coord)
	}
	var nearest Place
	best := math.Inf(1)
	for _, region := range g.regions {
		for _, place := range region.places {
			if dist := coord.Distance(place.Coordinate); dist < best {
				best = dist
				nearest = place
			}
		}
	}
	return nearest, best, nil
}
