// Package location ships the administrative catalog the alarm form selects
// from: provinces, their cities, and each city's districts. The catalog is
// embedded at build time so selection works without a network round-trip.
package location

import (
	_ "embed"
	"encoding/json"
)

//go:embed locations.json
var locationsJSON []byte

type catalog struct {
	Provinces []Province `json:"provinces"`
}

// Province is one top-level administrative region and its cities.
type Province struct {
	Name   string `json:"name"`
	Cities []City `json:"cities"`
}

// City is a second-level region and its districts.
type City struct {
	Name      string   `json:"name"`
	Districts []string `json:"districts"`
}

var data catalog

func init() {
	// The catalog is a build-time asset; a decode failure is a broken build.
	if err := json.Unmarshal(locationsJSON, &data); err != nil {
		panic("location: embedded catalog is malformed: " + err.Error())
	}
}

// Provinces returns all province names in catalog order.
func Provinces() []string {
	names := make([]string, len(data.Provinces))
	for i, p := range data.Provinces {
		names[i] = p.Name
	}
	return names
}

// Cities returns the city names of a province, or nil if the province is
// not in the catalog.
func Cities(province string) []string {
	p := findProvince(province)
	if p == nil {
		return nil
	}
	names := make([]string, len(p.Cities))
	for i, c := range p.Cities {
		names[i] = c.Name
	}
	return names
}

// Districts returns the district names of a city, or nil if the province or
// city is not in the catalog.
func Districts(province, city string) []string {
	c := findCity(province, city)
	if c == nil {
		return nil
	}
	out := make([]string, len(c.Districts))
	copy(out, c.Districts)
	return out
}

// Contains reports whether the full triple exists in the catalog.
func Contains(province, city, district string) bool {
	c := findCity(province, city)
	if c == nil {
		return false
	}
	for _, d := range c.Districts {
		if d == district {
			return true
		}
	}
	return false
}

func findProvince(name string) *Province {
	for i := range data.Provinces {
		if data.Provinces[i].Name == name {
			return &data.Provinces[i]
		}
	}
	return nil
}

func findCity(province, city string) *City {
	p := findProvince(province)
	if p == nil {
		return nil
	}
	for i := range p.Cities {
		if p.Cities[i].Name == city {
			return &p.Cities[i]
		}
	}
	return nil
}
