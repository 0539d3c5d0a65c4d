package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/attack"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/boat"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/mapgen"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/navigation"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/rules"
)

// Config holds all configuration for the application
type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
}

// SimConfig holds simulation balancing
type SimConfig struct {
	Mode       string           `mapstructure:"mode"`
	Teams      int              `mapstructure:"teams"`
	Attack     AttackConfig     `mapstructure:"attack"`
	Economy    EconomyConfig    `mapstructure:"economy"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Boat       BoatConfig       `mapstructure:"boat"`
	Spawn      SpawnConfig      `mapstructure:"spawn"`
	Map        MapConfig        `mapstructure:"map"`
}

// AttackConfig holds land attack constants
type AttackConfig struct {
	JitterBase           float64 `mapstructure:"jitter_base"`
	JitterRange          float64 `mapstructure:"jitter_range"`
	ExpansionCostDivisor float64 `mapstructure:"expansion_cost_divisor"`
	AttackCostMultiplier float64 `mapstructure:"attack_cost_multiplier"`
	DefenseDivisor       float64 `mapstructure:"defense_divisor"`
	SpeedNumerator       float64 `mapstructure:"speed_numerator"`
	SpeedOffset          float64 `mapstructure:"speed_offset"`
	SpeedRatioCap        float64 `mapstructure:"speed_ratio_cap"`
}

// EconomyConfig holds troop income settings
type EconomyConfig struct {
	IncomeRate       float64 `mapstructure:"income_rate"`
	MaxTroopsPerTile float64 `mapstructure:"max_troops_per_tile"`
	StartingTroops   float64 `mapstructure:"starting_troops"`
}

// NavigationConfig holds area graph settings
type NavigationConfig struct {
	AreaSize          int     `mapstructure:"area_size"`
	MinEntranceLength int     `mapstructure:"min_entrance_length"`
	DiagonalCost      float64 `mapstructure:"diagonal_cost"`
	LocalSearchLimit  int     `mapstructure:"local_search_limit"`
}

// BoatConfig holds naval settings
type BoatConfig struct {
	Speed             float64 `mapstructure:"speed"`
	MinSpeedFactor    float64 `mapstructure:"min_speed_factor"`
	LookAhead         int     `mapstructure:"look_ahead"`
	TurnDiscount      float64 `mapstructure:"turn_discount"`
	MaxBoatsPerPlayer int     `mapstructure:"max_boats_per_player"`
}

// SpawnConfig holds spawn phase settings
type SpawnConfig struct {
	Ticks  int `mapstructure:"ticks"`
	Radius int `mapstructure:"radius"`
}

// MapConfig holds map generation settings
type MapConfig struct {
	Width       int     `mapstructure:"width"`
	Height      int     `mapstructure:"height"`
	WaterLevel  float64 `mapstructure:"water_level"`
	Octaves     int     `mapstructure:"octaves"`
	Frequency   float64 `mapstructure:"frequency"`
	Persistence float64 `mapstructure:"persistence"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GRPC GRPCServerConfig `mapstructure:"grpc"`
	Sim  SimRunnerConfig  `mapstructure:"sim"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	MaxSimulations        int    `mapstructure:"max_simulations"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	TickBudgetMs          int    `mapstructure:"tick_budget_ms"`
}

// SimRunnerConfig holds settings of the headless simulation runner
type SimRunnerConfig struct {
	Ticks     int    `mapstructure:"ticks"`
	Players   int    `mapstructure:"players"`
	Seed      int64  `mapstructure:"seed"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	ReplayDB  string `mapstructure:"replay_db"`
}

// StorageConfig holds replay storage settings
type StorageConfig struct {
	SnapshotInterval int `mapstructure:"snapshot_interval"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("sim.mode", "ffa")
	v.SetDefault("sim.teams", 0)

	ap := attack.DefaultParams()
	v.SetDefault("sim.attack.jitter_base", ap.JitterBase)
	v.SetDefault("sim.attack.jitter_range", ap.JitterRange)
	v.SetDefault("sim.attack.expansion_cost_divisor", ap.ExpansionCostDivisor)
	v.SetDefault("sim.attack.attack_cost_multiplier", ap.AttackCostMultiplier)
	v.SetDefault("sim.attack.defense_divisor", ap.DefenseDivisor)
	v.SetDefault("sim.attack.speed_numerator", ap.SpeedNumerator)
	v.SetDefault("sim.attack.speed_offset", ap.SpeedOffset)
	v.SetDefault("sim.attack.speed_ratio_cap", ap.SpeedRatioCap)

	ep := game.DefaultEconomyParams()
	v.SetDefault("sim.economy.income_rate", ep.IncomeRate)
	v.SetDefault("sim.economy.max_troops_per_tile", ep.MaxTroopsPerTile)
	v.SetDefault("sim.economy.starting_troops", ep.StartingTroops)

	np := navigation.DefaultParams()
	v.SetDefault("sim.navigation.area_size", np.AreaSize)
	v.SetDefault("sim.navigation.min_entrance_length", np.MinEntranceLength)
	v.SetDefault("sim.navigation.diagonal_cost", np.DiagonalCost)
	v.SetDefault("sim.navigation.local_search_limit", 0)

	bp := boat.DefaultParams()
	v.SetDefault("sim.boat.speed", bp.Speed)
	v.SetDefault("sim.boat.min_speed_factor", bp.MinSpeedFactor)
	v.SetDefault("sim.boat.look_ahead", bp.LookAhead)
	v.SetDefault("sim.boat.turn_discount", bp.TurnDiscount)
	v.SetDefault("sim.boat.max_boats_per_player", bp.MaxBoatsPerPlayer)

	sp := game.DefaultSpawnParams()
	v.SetDefault("sim.spawn.ticks", sp.Ticks)
	v.SetDefault("sim.spawn.radius", sp.Radius)

	mc := mapgen.DefaultMapConfig(200, 150, 2)
	v.SetDefault("sim.map.width", mc.Width)
	v.SetDefault("sim.map.height", mc.Height)
	v.SetDefault("sim.map.water_level", mc.WaterLevel)
	v.SetDefault("sim.map.octaves", mc.Octaves)
	v.SetDefault("sim.map.frequency", mc.Frequency)
	v.SetDefault("sim.map.persistence", mc.Persistence)

	// gRPC server defaults
	v.SetDefault("server.grpc.host", "0.0.0.0")
	v.SetDefault("server.grpc.port", 50051)
	v.SetDefault("server.grpc.log_level", "info")
	v.SetDefault("server.grpc.max_simulations", 100)
	v.SetDefault("server.grpc.enable_reflection", true)
	v.SetDefault("server.grpc.graceful_shutdown_delay", 5)
	v.SetDefault("server.grpc.tick_budget_ms", 50)

	// Simulation runner defaults
	v.SetDefault("server.sim.ticks", 500)
	v.SetDefault("server.sim.players", 4)
	v.SetDefault("server.sim.seed", 0)
	v.SetDefault("server.sim.log_level", "info")
	v.SetDefault("server.sim.log_format", "console")
	v.SetDefault("server.sim.replay_db", "")

	v.SetDefault("storage.snapshot_interval", 10)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/territorial-conquest")
	}

	v.SetEnvPrefix("TC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing explicit file falls back to defaults, like a missing default file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}
	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange only sees
// configurations that pass Validate; invalid edits are reported through
// onError and the previous values stay in place.
func WatchConfig(onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}

// AttackParams converts the attack section
func (s SimConfig) AttackParams() attack.Params {
	a := s.Attack
	return attack.Params{
		JitterBase:           a.JitterBase,
		JitterRange:          a.JitterRange,
		ExpansionCostDivisor: a.ExpansionCostDivisor,
		AttackCostMultiplier: a.AttackCostMultiplier,
		DefenseDivisor:       a.DefenseDivisor,
		SpeedNumerator:       a.SpeedNumerator,
		SpeedOffset:          a.SpeedOffset,
		SpeedRatioCap:        a.SpeedRatioCap,
	}
}

// NavigationParams converts the navigation section
func (s SimConfig) NavigationParams() navigation.Params {
	return navigation.Params{
		AreaSize:          s.Navigation.AreaSize,
		MinEntranceLength: s.Navigation.MinEntranceLength,
		DiagonalCost:      s.Navigation.DiagonalCost,
		LocalSearchLimit:  s.Navigation.LocalSearchLimit,
	}
}

// BoatParams converts the boat section
func (s SimConfig) BoatParams() boat.Params {
	p := boat.DefaultParams()
	p.Speed = s.Boat.Speed
	p.MinSpeedFactor = s.Boat.MinSpeedFactor
	p.LookAhead = s.Boat.LookAhead
	p.TurnDiscount = s.Boat.TurnDiscount
	p.MaxBoatsPerPlayer = s.Boat.MaxBoatsPerPlayer
	return p
}

// GameConfig builds an engine configuration for players on the configured map
func (s SimConfig) GameConfig(players int, seed int64) game.GameConfig {
	gc := game.DefaultGameConfig(s.Map.Width, s.Map.Height, players, seed)
	gc.Mode = s.Mode
	gc.Teams = s.Teams
	gc.Map.WaterLevel = s.Map.WaterLevel
	gc.Map.Octaves = s.Map.Octaves
	gc.Map.Frequency = s.Map.Frequency
	gc.Map.Persistence = s.Map.Persistence
	gc.Attack = s.AttackParams()
	gc.Navigation = s.NavigationParams()
	gc.Boat = s.BoatParams()
	gc.Economy = game.EconomyParams{
		IncomeRate:       s.Economy.IncomeRate,
		MaxTroopsPerTile: s.Economy.MaxTroopsPerTile,
		StartingTroops:   s.Economy.StartingTroops,
	}
	gc.Spawn = game.SpawnParams{Ticks: s.Spawn.Ticks, Radius: s.Spawn.Radius}
	return gc
}

// TickBudget returns the tick duration above which the monitor warns
func (g GRPCServerConfig) TickBudget() time.Duration {
	return time.Duration(g.TickBudgetMs) * time.Millisecond
}

// Validate validates the configuration values
func Validate(c *Config) error {
	s := c.Sim
	if _, err := rules.ModeByName(s.Mode); err != nil {
		return fmt.Errorf("sim.mode: %w", err)
	}
	if s.Teams < 0 {
		return fmt.Errorf("sim.teams must be non-negative")
	}

	if s.Attack.JitterBase <= 0 {
		return fmt.Errorf("sim.attack.jitter_base must be positive")
	}
	if s.Attack.JitterRange < 0 {
		return fmt.Errorf("sim.attack.jitter_range must be non-negative")
	}
	if s.Attack.ExpansionCostDivisor <= 0 {
		return fmt.Errorf("sim.attack.expansion_cost_divisor must be positive")
	}
	if s.Attack.DefenseDivisor <= 0 {
		return fmt.Errorf("sim.attack.defense_divisor must be positive")
	}
	if s.Attack.SpeedNumerator <= 0 || s.Attack.SpeedOffset <= 0 || s.Attack.SpeedRatioCap <= 0 {
		return fmt.Errorf("sim.attack speed constants must be positive")
	}

	if s.Economy.IncomeRate < 0 {
		return fmt.Errorf("sim.economy.income_rate must be non-negative")
	}
	if s.Economy.MaxTroopsPerTile <= 0 {
		return fmt.Errorf("sim.economy.max_troops_per_tile must be positive")
	}
	if s.Economy.StartingTroops < 0 {
		return fmt.Errorf("sim.economy.starting_troops must be non-negative")
	}

	if s.Navigation.AreaSize < 8 {
		return fmt.Errorf("sim.navigation.area_size must be at least 8")
	}
	if n := s.Navigation; n.LocalSearchLimit != 0 && n.LocalSearchLimit < n.AreaSize*n.AreaSize {
		return fmt.Errorf("sim.navigation.local_search_limit must be 0 or at least area_size squared")
	}
	if s.Navigation.MinEntranceLength < 1 {
		return fmt.Errorf("sim.navigation.min_entrance_length must be at least 1")
	}
	if s.Navigation.DiagonalCost < 1 {
		return fmt.Errorf("sim.navigation.diagonal_cost must be at least 1")
	}

	if s.Boat.Speed <= 0 {
		return fmt.Errorf("sim.boat.speed must be positive")
	}
	if s.Boat.MinSpeedFactor <= 0 || s.Boat.MinSpeedFactor > 1 {
		return fmt.Errorf("sim.boat.min_speed_factor must be between 0 and 1")
	}
	if s.Boat.LookAhead < 0 || s.Boat.MaxBoatsPerPlayer < 0 {
		return fmt.Errorf("sim.boat look_ahead and max_boats_per_player must be non-negative")
	}

	if s.Spawn.Ticks < 1 {
		return fmt.Errorf("sim.spawn.ticks must be at least 1")
	}
	if s.Spawn.Radius < 0 {
		return fmt.Errorf("sim.spawn.radius must be non-negative")
	}

	if s.Map.Width <= 0 || s.Map.Height <= 0 {
		return fmt.Errorf("sim.map dimensions must be positive")
	}
	if s.Map.WaterLevel < 0 || s.Map.WaterLevel > 1 {
		return fmt.Errorf("sim.map.water_level must be between 0 and 1")
	}
	if s.Map.Octaves < 1 {
		return fmt.Errorf("sim.map.octaves must be at least 1")
	}

	g := c.Server.GRPC
	if g.Port <= 0 || g.Port > 65535 {
		return fmt.Errorf("server.grpc.port must be between 1 and 65535")
	}
	if g.MaxSimulations <= 0 {
		return fmt.Errorf("server.grpc.max_simulations must be positive")
	}
	if g.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc.graceful_shutdown_delay must be non-negative")
	}
	if g.TickBudgetMs < 0 {
		return fmt.Errorf("server.grpc.tick_budget_ms must be non-negative")
	}

	r := c.Server.Sim
	if r.Ticks <= 0 {
		return fmt.Errorf("server.sim.ticks must be positive")
	}
	if r.Players < 1 {
		return fmt.Errorf("server.sim.players must be at least 1")
	}

	if c.Storage.SnapshotInterval < 1 {
		return fmt.Errorf("storage.snapshot_interval must be at least 1")
	}
	return nil
}
