// Package config loads the Settings bundle of spec §6 using viper, the way
// the teacher's cmd/cli/cmd/root.go loads its own YAML + env configuration
// (viper.SetEnvPrefix/AutomaticEnv, a well-known config file name).
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings mirrors spec §6's settings table, plus the
// TreatFirstRedTwoWayAsEOL switch. All fields are non-negative integers
// except the look-ahead coefficients RailLookAheadSignalP0-P2, which are
// floats and may be negative.
type Settings struct {
	RailSlopePenalty        int64 `mapstructure:"rail_slope_penalty"`
	RailCurve45Penalty      int64 `mapstructure:"rail_curve45_penalty"`
	RailCurve90Penalty      int64 `mapstructure:"rail_curve90_penalty"`
	RailCrossingPenalty     int64 `mapstructure:"rail_crossing_penalty"`
	RailDoubleslipPenalty   int64 `mapstructure:"rail_doubleslip_penalty"`
	RailFirstRedPenalty     int64 `mapstructure:"rail_firstred_penalty"`
	RailFirstRedExitPenalty int64 `mapstructure:"rail_firstred_exit_penalty"`
	RailLastRedPenalty      int64 `mapstructure:"rail_lastred_penalty"`
	RailLastRedExitPenalty  int64 `mapstructure:"rail_lastred_exit_penalty"`
	RailStationPenalty      int64 `mapstructure:"rail_station_penalty"`
	RailPBSStationPenalty   int64 `mapstructure:"rail_pbs_station_penalty"`
	RailPBSCrossPenalty     int64 `mapstructure:"rail_pbs_cross_penalty"`
	RailPBSSignalBackPenalty int64 `mapstructure:"rail_pbs_signal_back_penalty"`

	RailLookAheadMaxSignals int     `mapstructure:"rail_look_ahead_max_signals"`
	RailLookAheadSignalP0   float64 `mapstructure:"rail_look_ahead_signal_p0"`
	RailLookAheadSignalP1   float64 `mapstructure:"rail_look_ahead_signal_p1"`
	RailLookAheadSignalP2   float64 `mapstructure:"rail_look_ahead_signal_p2"`

	RailLongerPlatformPenalty         int64 `mapstructure:"rail_longer_platform_penalty"`
	RailLongerPlatformPerTilePenalty  int64 `mapstructure:"rail_longer_platform_per_tile_penalty"`
	RailShorterPlatformPenalty        int64 `mapstructure:"rail_shorter_platform_penalty"`
	RailShorterPlatformPerTilePenalty int64 `mapstructure:"rail_shorter_platform_per_tile_penalty"`
	RailDepotReversePenalty           int64 `mapstructure:"rail_depot_reverse_penalty"`

	RoadSlopePenalty           int64 `mapstructure:"road_slope_penalty"`
	RoadCurvePenalty           int64 `mapstructure:"road_curve_penalty"`
	RoadCrossingPenalty        int64 `mapstructure:"road_crossing_penalty"`
	RoadStopPenalty            int64 `mapstructure:"road_stop_penalty"`
	RoadStopBayOccupiedPenalty int64 `mapstructure:"road_stop_bay_occupied_penalty"`
	RoadStopOccupiedPenalty    int64 `mapstructure:"road_stop_occupied_penalty"`

	WaterCurvePenalty int64 `mapstructure:"water_curve_penalty"`
	WaterBuoyPenalty  int64 `mapstructure:"water_buoy_penalty"`

	Forbid90Deg             bool `mapstructure:"forbid_90_deg"`
	DisableNodeOptimization bool `mapstructure:"disable_node_optimization"`
	TreatFirstRedTwoWayAsEOL bool `mapstructure:"treat_first_red_two_way_as_eol"`

	MaxSearchNodes  int `mapstructure:"max_search_nodes"`
	RiverRouteRandom int `mapstructure:"river_route_random"`
}

// Default returns the settings the source ships as defaults, using the
// constants named in spec §6/§8 where the spec gives an exact value and
// otherwise a conservative OpenTTD-equivalent default.
func Default() Settings {
	return Settings{
		RailSlopePenalty:        100,
		RailCurve45Penalty:      1,
		RailCurve90Penalty:      10,
		RailCrossingPenalty:     3,
		RailDoubleslipPenalty:   1,
		RailFirstRedPenalty:     10,
		RailFirstRedExitPenalty: 100,
		RailLastRedPenalty:      10,
		RailLastRedExitPenalty:  100,
		RailStationPenalty:      30,
		RailPBSStationPenalty:   20,
		RailPBSCrossPenalty:     30,
		RailPBSSignalBackPenalty: 15,

		RailLookAheadMaxSignals: 10,
		RailLookAheadSignalP0:   500,
		RailLookAheadSignalP1:   -100,
		RailLookAheadSignalP2:   5,

		RailLongerPlatformPenalty:         8,
		RailLongerPlatformPerTilePenalty:  0,
		RailShorterPlatformPenalty:        40,
		RailShorterPlatformPerTilePenalty: 0,
		RailDepotReversePenalty:           50,

		RoadSlopePenalty:           100,
		RoadCurvePenalty:           1,
		RoadCrossingPenalty:        3,
		RoadStopPenalty:            2,
		RoadStopBayOccupiedPenalty: 15,
		RoadStopOccupiedPenalty:    10,

		WaterCurvePenalty: 1,
		WaterBuoyPenalty:  2,

		Forbid90Deg:             false,
		DisableNodeOptimization: false,
		TreatFirstRedTwoWayAsEOL: true,

		MaxSearchNodes:   10000, // AYSTAR_DEF_MAX_SEARCH_NODES
		RiverRouteRandom: 5,
	}
}

// Load reads settings from path (a YAML file) overlaid on Default(), with
// TTDPF_-prefixed environment variables overriding both (mirrors the
// teacher's LILBATTLE_ env prefix pattern in cmd/cli/cmd/root.go).
func Load(path string) (Settings, error) {
	v := viper.New()
	def := Default()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pathfinder")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TTDPF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return def, err
		}
	}

	out := def
	if err := v.Unmarshal(&out); err != nil {
		return def, err
	}
	return out, nil
}
