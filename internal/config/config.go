package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/maximepeter/utg-2024/internal/game/core"
)

// Config holds all configuration for the bot and the local arena
type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Grid    GridConfig    `mapstructure:"grid"`
	Logging LoggingConfig `mapstructure:"logging"`
	Arena   ArenaConfig   `mapstructure:"arena"`
}

// BotConfig selects and tunes the decision policy
type BotConfig struct {
	Policy     string          `mapstructure:"policy"`
	StageOrder []string        `mapstructure:"stage_order"`
	Thresholds ThresholdConfig `mapstructure:"thresholds"`
	Costs      CostConfig      `mapstructure:"costs"`
}

// ThresholdConfig holds the per-protein multipliers of the required action count
type ThresholdConfig struct {
	A int `mapstructure:"a"`
	B int `mapstructure:"b"`
	C int `mapstructure:"c"`
	D int `mapstructure:"d"`
}

// CostConfig holds organ prices as [A, B, C, D]
type CostConfig struct {
	Basic     []int `mapstructure:"basic"`
	Harvester []int `mapstructure:"harvester"`
	Tentacle  []int `mapstructure:"tentacle"`
	Sporer    []int `mapstructure:"sporer"`
	Root      []int `mapstructure:"root"`
}

// GridConfig holds terrain weights used by path searches
type GridConfig struct {
	Weights WeightConfig `mapstructure:"weights"`
}

// WeightConfig is the cost of entering each kind of cell
type WeightConfig struct {
	Empty   int `mapstructure:"empty"`
	Protein int `mapstructure:"protein"`
	Organ   int `mapstructure:"organ"`
	Wall    int `mapstructure:"wall"`
}

// LoggingConfig holds zerolog settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Events bool   `mapstructure:"events"`
}

// ArenaConfig holds local self-play settings
type ArenaConfig struct {
	Width        int     `mapstructure:"width"`
	Height       int     `mapstructure:"height"`
	MaxTurns     int     `mapstructure:"max_turns"`
	Seed         int64   `mapstructure:"seed"`
	WallRatio    float64 `mapstructure:"wall_ratio"`
	ProteinRatio float64 `mapstructure:"protein_ratio"`
	StartStock   []int   `mapstructure:"start_stock"`
}

var (
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("bot.policy", "threshold")
	v.SetDefault("bot.stage_order", []string{"A", "C", "D", "B"})
	v.SetDefault("bot.thresholds.a", 1)
	v.SetDefault("bot.thresholds.b", 2)
	v.SetDefault("bot.thresholds.c", 1)
	v.SetDefault("bot.thresholds.d", 2)

	v.SetDefault("bot.costs.basic", []int{1, 0, 0, 0})
	v.SetDefault("bot.costs.harvester", []int{1, 0, 1, 0})
	v.SetDefault("bot.costs.tentacle", []int{0, 1, 1, 0})
	v.SetDefault("bot.costs.sporer", []int{0, 1, 0, 1})
	v.SetDefault("bot.costs.root", []int{1, 1, 1, 1})

	v.SetDefault("grid.weights.empty", 1)
	v.SetDefault("grid.weights.protein", 3)
	v.SetDefault("grid.weights.organ", 1000)
	v.SetDefault("grid.weights.wall", 1000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.events", false)

	v.SetDefault("arena.width", 18)
	v.SetDefault("arena.height", 9)
	v.SetDefault("arena.max_turns", 100)
	v.SetDefault("arena.seed", 1)
	v.SetDefault("arena.wall_ratio", 0.15)
	v.SetDefault("arena.protein_ratio", 0.08)
	v.SetDefault("arena.start_stock", []int{10, 0, 5, 0})
}

// Init initializes the configuration. A missing file at configPath is not an
// error: defaults and environment variables still apply.
func Init(configPath string) error {
	nv := viper.New()
	setViperDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
	}

	nv.SetEnvPrefix("UTG")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c, err := decode(nv)
	if err != nil {
		return err
	}

	mu.Lock()
	v, cfg = nv, c
	mu.Unlock()
	return nil
}

func decode(nv *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded configuration
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	envFile := fmt.Sprintf("config.%s.yaml", env)
	base := v.ConfigFileUsed()
	if base != "" {
		envFile = filepath.Join(filepath.Dir(base), envFile)
		defer v.SetConfigFile(base)
	}

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	c, err := decode(v)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Set allows runtime config updates. Invalid values are rejected and the
// previous configuration is kept.
func Set(key string, value interface{}) error {
	mu.Lock()
	defer mu.Unlock()
	prev := v.Get(key)
	v.Set(key, value)
	c, err := decode(v)
	if err != nil {
		v.Set(key, prev)
		return err
	}
	cfg = c
	return nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange runs on the
// watcher goroutine with the freshly validated configuration; an invalid edit
// is logged and ignored.
func WatchConfig(logger zerolog.Logger, onChange func(*Config)) {
	wv := GetViper()
	wv.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		c, err := decode(wv)
		if err == nil {
			cfg = c
		}
		mu.Unlock()

		if err != nil {
			logger.Warn().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		logger.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("Config reloaded")
		if onChange != nil {
			onChange(c)
		}
	})
	wv.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	switch c.Bot.Policy {
	case "threshold", "scripted":
	default:
		return fmt.Errorf("bot.policy must be threshold or scripted, got %q", c.Bot.Policy)
	}
	if _, err := c.Bot.StageProteins(); err != nil {
		return err
	}
	for name, k := range map[string]int{"a": c.Bot.Thresholds.A, "b": c.Bot.Thresholds.B, "c": c.Bot.Thresholds.C, "d": c.Bot.Thresholds.D} {
		if k < 0 {
			return fmt.Errorf("bot.thresholds.%s must be non-negative", name)
		}
	}
	costs := map[string][]int{
		"basic":     c.Bot.Costs.Basic,
		"harvester": c.Bot.Costs.Harvester,
		"tentacle":  c.Bot.Costs.Tentacle,
		"sporer":    c.Bot.Costs.Sporer,
		"root":      c.Bot.Costs.Root,
	}
	for name, cost := range costs {
		if err := validateStock(cost, "bot.costs."+name); err != nil {
			return err
		}
	}

	w := c.Grid.Weights
	if w.Empty <= 0 || w.Protein <= 0 || w.Organ <= 0 || w.Wall <= 0 {
		return fmt.Errorf("grid.weights must all be positive")
	}
	if w.Organ > core.MaxWeight/4 || w.Wall > core.MaxWeight/4 {
		return fmt.Errorf("grid.weights must stay well below the unreachable sentinel")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	if c.Arena.Width < 3 || c.Arena.Height < 1 {
		return fmt.Errorf("arena dimensions must be at least 3x1")
	}
	if c.Arena.MaxTurns <= 0 {
		return fmt.Errorf("arena.max_turns must be positive")
	}
	if c.Arena.WallRatio < 0 || c.Arena.WallRatio >= 1 {
		return fmt.Errorf("arena.wall_ratio must be in [0, 1)")
	}
	if c.Arena.ProteinRatio < 0 || c.Arena.WallRatio+c.Arena.ProteinRatio >= 1 {
		return fmt.Errorf("arena.protein_ratio must be non-negative and leave room for empty cells")
	}
	return validateStock(c.Arena.StartStock, "arena.start_stock")
}

func validateStock(s []int, name string) error {
	if len(s) != 4 {
		return fmt.Errorf("%s must have 4 entries, got %d", name, len(s))
	}
	for i, n := range s {
		if n < 0 {
			return fmt.Errorf("%s[%d] must be non-negative", name, i)
		}
	}
	return nil
}

// StageProteins parses the scripted stage order
func (b BotConfig) StageProteins() ([]core.ProteinType, error) {
	out := make([]core.ProteinType, 0, len(b.StageOrder))
	for _, code := range b.StageOrder {
		p, ok := core.ParseProteinType(strings.ToUpper(strings.TrimSpace(code)))
		if !ok {
			return nil, fmt.Errorf("bot.stage_order: %q: %w", code, core.ErrUnknownEntityType)
		}
		out = append(out, p)
	}
	return out, nil
}

// GrowthCosts converts the configured prices. Call on a validated config.
func (b BotConfig) GrowthCosts() core.GrowthCosts {
	return core.GrowthCosts{
		core.OrganBasic:     toStock(b.Costs.Basic),
		core.OrganHarvester: toStock(b.Costs.Harvester),
		core.OrganTentacle:  toStock(b.Costs.Tentacle),
		core.OrganSporer:    toStock(b.Costs.Sporer),
		core.OrganRoot:      toStock(b.Costs.Root),
	}
}

// ThresholdMultipliers returns the multipliers in A, B, C, D order
func (b BotConfig) ThresholdMultipliers() [4]int {
	return [4]int{b.Thresholds.A, b.Thresholds.B, b.Thresholds.C, b.Thresholds.D}
}

// CoreWeights converts the configured weights
func (g GridConfig) CoreWeights() core.Weights {
	return core.Weights{
		Empty:   g.Weights.Empty,
		Protein: g.Weights.Protein,
		Organ:   g.Weights.Organ,
		Wall:    g.Weights.Wall,
	}
}

// Stock converts the arena starting stock. Call on a validated config.
func (a ArenaConfig) Stock() core.Stock {
	return toStock(a.StartStock)
}

func toStock(s []int) core.Stock {
	var out core.Stock
	copy(out[:], s)
	return out
}
