package forecast

// WeatherDesc is one provider-reported weather condition entry.
type WeatherDesc struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Current holds the conditions at fetch time. Dt is UTC epoch seconds.
type Current struct {
	Dt        int64         `json:"dt"`
	Temp      float64       `json:"temp"`
	FeelsLike float64       `json:"feels_like"`
	Pressure  int           `json:"pressure"`
	Humidity  int           `json:"humidity"`
	UVI       float64       `json:"uvi"`
	Clouds    int           `json:"clouds"`
	WindSpeed float64       `json:"wind_speed"`
	Weather   []WeatherDesc `json:"weather"`
}

// Hourly is one entry of the hourly series, ordered by Dt ascending.
type Hourly struct {
	Dt      int64         `json:"dt"`
	Temp    float64       `json:"temp"`
	UVI     float64       `json:"uvi"`
	Pop     float64       `json:"pop"`
	Weather []WeatherDesc `json:"weather"`
}

// DayTemp holds per-daypart temperatures of a daily entry.
type DayTemp struct {
	Morn  float64 `json:"morn"`
	Day   float64 `json:"day"`
	Eve   float64 `json:"eve"`
	Night float64 `json:"night"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// DayFeelsLike holds per-daypart feels-like temperatures of a daily entry.
type DayFeelsLike struct {
	Morn  float64 `json:"morn"`
	Day   float64 `json:"day"`
	Eve   float64 `json:"eve"`
	Night float64 `json:"night"`
}

// Daily is one entry of the daily series, ordered by Dt ascending.
// Pop is the probability of precipitation in [0, 1].
type Daily struct {
	Dt        int64         `json:"dt"`
	Temp      DayTemp       `json:"temp"`
	FeelsLike DayFeelsLike  `json:"feels_like"`
	Pop       float64       `json:"pop"`
	UVI       float64       `json:"uvi"`
	Weather   []WeatherDesc `json:"weather"`
}

// Document is the result of one successful forecast fetch. All timestamps in
// sub-records are UTC epoch seconds; local wall-clock time is derived via
// TimezoneOffset and never stored back. A Document is owned by the run that
// fetched it.
type Document struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Timezone       string  `json:"timezone"`
	TimezoneOffset int64   `json:"timezone_offset"`

	// Address is the free-text address the coordinates were resolved from,
	// attached after a successful fetch; empty for literal-coordinate runs.
	Address string `json:"address,omitempty"`

	Current Current  `json:"current"`
	Hourly  []Hourly `json:"hourly"`
	Daily   []Daily  `json:"daily"`
}
