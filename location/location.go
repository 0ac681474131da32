// Package location derives the country, state and city option lists of the
// address and route forms. Options are computed from the current form values
// on every call; nothing is cached between calls.
package location

import (
	"sort"
	"strings"

	"github.com/Jaysins/ohship-tenant-sub001/models"
)

type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Source is the lookup data behind the option lists.
type Source interface {
	Countries() []Option
	States(countryCode string) []Option
	Cities(countryCode, stateCode string) []string
}

func CountryOptions(src Source) []Option {
	return sortedOptions(src.Countries())
}

// StateOptions is empty until a country is chosen.
func StateOptions(src Source, loc models.Location) []Option {
	if strings.TrimSpace(loc.Country) == "" {
		return nil
	}
	return sortedOptions(src.States(strings.ToUpper(loc.Country)))
}

// CityOptions is empty until both country and state are chosen.
func CityOptions(src Source, loc models.Location) []string {
	if strings.TrimSpace(loc.Country) == "" || strings.TrimSpace(loc.State) == "" {
		return nil
	}
	cities := append([]string(nil), src.Cities(strings.ToUpper(loc.Country), strings.ToUpper(loc.State))...)
	sort.Strings(cities)
	return cities
}

// Contains reports whether loc names a state and city known to src. The
// match is case-insensitive because quote requests lower-case both.
func Contains(src Source, loc models.Location) bool {
	stateCode := ""
	for _, s := range StateOptions(src, loc) {
		if strings.EqualFold(s.Code, loc.State) || strings.EqualFold(s.Name, loc.State) {
			stateCode = s.Code
			break
		}
	}
	if stateCode == "" {
		return false
	}
	loc.State = stateCode
	for _, c := range CityOptions(src, loc) {
		if strings.EqualFold(c, loc.City) {
			return true
		}
	}
	return false
}

func sortedOptions(in []Option) []Option {
	out := append([]Option(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
