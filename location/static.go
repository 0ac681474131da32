package location

type Country struct {
	Option
	States []State
}

type State struct {
	Option
	Cities []string
}

// StaticSource serves options from an in-process table.
type StaticSource struct {
	countries []Country
}

func NewStaticSource(countries []Country) *StaticSource {
	return &StaticSource{countries: countries}
}

func (s *StaticSource) country(code string) *Country {
	for i := range s.countries {
		if s.countries[i].Code == code {
			return &s.countries[i]
		}
	}
	return nil
}

func (s *StaticSource) Countries() []Option {
	out := make([]Option, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, c.Option)
	}
	return out
}

func (s *StaticSource) States(countryCode string) []Option {
	c := s.country(countryCode)
	if c == nil {
		return nil
	}
	out := make([]Option, 0, len(c.States))
	for _, st := range c.States {
		out = append(out, st.Option)
	}
	return out
}

func (s *StaticSource) Cities(countryCode, stateCode string) []string {
	c := s.country(countryCode)
	if c == nil {
		return nil
	}
	for _, st := range c.States {
		if st.Code == stateCode {
			return st.Cities
		}
	}
	return nil
}

// DefaultCountries is a small built-in table used when no lookup service is configured.
var DefaultCountries = []Country{
	{
		Option: Option{Code: "US", Name: "United States"},
		States: []State{
			{Option: Option{Code: "CA", Name: "California"}, Cities: []string{"Los Angeles", "San Diego", "San Francisco"}},
			{Option: Option{Code: "NY", Name: "New York"}, Cities: []string{"Buffalo", "New York"}},
			{Option: Option{Code: "TX", Name: "Texas"}, Cities: []string{"Austin", "Dallas", "Houston"}},
		},
	},
	{
		Option: Option{Code: "CA", Name: "Canada"},
		States: []State{
			{Option: Option{Code: "ON", Name: "Ontario"}, Cities: []string{"Ottawa", "Toronto"}},
			{Option: Option{Code: "BC", Name: "British Columbia"}, Cities: []string{"Vancouver", "Victoria"}},
		},
	},
	{
		Option: Option{Code: "NG", Name: "Nigeria"},
		States: []State{
			{Option: Option{Code: "LA", Name: "Lagos"}, Cities: []string{"Ikeja", "Lagos"}},
			{Option: Option{Code: "FC", Name: "Federal Capital Territory"}, Cities: []string{"Abuja"}},
		},
	},
}
