package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Структура для координат с размером
type CoordinatesWithSize struct {
	X      int `mapstructure:"x"`
	Y      int `mapstructure:"y"`
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Capture - откуда берутся кадры
type Capture struct {
	Backend    string              `mapstructure:"backend"` // screen | browser
	Region     CoordinatesWithSize `mapstructure:"region"`
	AutoLocate bool                `mapstructure:"auto_locate"`
	GameURL    string              `mapstructure:"game_url"`
	Headless   bool                `mapstructure:"headless"`
	SaveFrames bool                `mapstructure:"save_frames"`
	FramesDir  string              `mapstructure:"frames_dir"`
}

// Input - куда отправляются нажатия
type Input struct {
	Backend  string `mapstructure:"backend"` // arduino | browser | native
	Port     string `mapstructure:"port"`
	BaudRate int    `mapstructure:"baud_rate"`
	Key      string `mapstructure:"key"`
}

// Ground - поиск линии земли
type Ground struct {
	ProbeXFraction   float64 `mapstructure:"probe_x_fraction"`
	Margin           int     `mapstructure:"margin"`
	FallbackFraction float64 `mapstructure:"fallback_fraction"`
}

// Player - поиск спрайта игрока
type Player struct {
	Detect           bool    `mapstructure:"detect"`
	RegionFraction   float64 `mapstructure:"region_fraction"`
	ClusterMin       int     `mapstructure:"cluster_min"`
	DefaultXFraction float64 `mapstructure:"default_x_fraction"`
}

// Scan - окно поиска препятствий относительно игрока
type Scan struct {
	OffsetX       int     `mapstructure:"offset_x"`
	WidthFraction float64 `mapstructure:"width_fraction"`
	Height        int     `mapstructure:"height"`
	BelowGround   int     `mapstructure:"below_ground"`
}

// Detection объединяет всё, что касается пикселей
type Detection struct {
	Threshold int    `mapstructure:"threshold"`
	Ground    Ground `mapstructure:"ground"`
	Player    Player `mapstructure:"player"`
	Scan      Scan   `mapstructure:"scan"`
}

// Timing - интервалы таймеров
type Timing struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	FallbackPeriod time.Duration `mapstructure:"fallback_period"`
	DebounceBase   time.Duration `mapstructure:"debounce_base"`
	ReleaseDelay   time.Duration `mapstructure:"release_delay"`
	StartPress     bool          `mapstructure:"start_press"`
}

// Gate - решение о прыжке и рост скорости
type Gate struct {
	JumpCoefficient float64 `mapstructure:"jump_coefficient"`
	MinDistance     int     `mapstructure:"min_distance"`
	SpeedStep       float64 `mapstructure:"speed_step"`
	SpeedCap        float64 `mapstructure:"speed_cap"`
	SpeedEvery      int     `mapstructure:"speed_every"`
}

// Database - история запусков в MySQL
type Database struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Основная структура конфигурации
type Config struct {
	Profile     string    `mapstructure:"profile"`
	LogFilePath string    `mapstructure:"log_file_path"`
	Debug       bool      `mapstructure:"debug"`
	Capture     Capture   `mapstructure:"capture"`
	Input       Input     `mapstructure:"input"`
	Detection   Detection `mapstructure:"detection"`
	Timing      Timing    `mapstructure:"timing"`
	Gate        Gate      `mapstructure:"gate"`
	Database    Database  `mapstructure:"database"`
}

const DefaultProfile = "adaptive"

// DefaultConfig возвращает конфигурацию профиля adaptive
func DefaultConfig() *Config {
	cfg, _ := ProfileConfig(DefaultProfile)
	return cfg
}

// Validate отсекает значения, с которыми эвристика работать не может
func (c *Config) Validate() error {
	var errs []error
	d := c.Detection
	if d.Threshold < 1 || d.Threshold > 256 {
		errs = append(errs, fmt.Errorf("detection.threshold must be in 1..256, got %d", d.Threshold))
	}
	if !inUnit(d.Ground.ProbeXFraction) || !inUnit(d.Ground.FallbackFraction) {
		errs = append(errs, errors.New("detection.ground fractions must be in [0, 1)"))
	}
	if d.Ground.Margin < 0 {
		errs = append(errs, errors.New("detection.ground.margin must not be negative"))
	}
	if !inUnit(d.Player.RegionFraction) || !inUnit(d.Player.DefaultXFraction) {
		errs = append(errs, errors.New("detection.player fractions must be in [0, 1)"))
	}
	if d.Scan.WidthFraction <= 0 || d.Scan.WidthFraction > 1 {
		errs = append(errs, fmt.Errorf("detection.scan.width_fraction must be in (0, 1], got %v", d.Scan.WidthFraction))
	}
	if d.Scan.BelowGround < 0 || d.Scan.BelowGround >= d.Scan.Height {
		errs = append(errs, errors.New("detection.scan.below_ground must be in [0, height)"))
	}
	if d.Scan.Height <= 0 {
		errs = append(errs, errors.New("detection.scan.height must be positive"))
	}

	t := c.Timing
	if t.PollInterval <= 0 || t.FallbackPeriod <= 0 || t.DebounceBase <= 0 || t.ReleaseDelay <= 0 {
		errs = append(errs, errors.New("timing intervals must be positive"))
	}

	g := c.Gate
	if g.JumpCoefficient <= 0 {
		errs = append(errs, errors.New("gate.jump_coefficient must be positive"))
	}
	if g.SpeedCap < 1 || g.SpeedStep < 0 || g.SpeedEvery <= 0 {
		errs = append(errs, errors.New("gate speed settings: cap >= 1, step >= 0, every > 0"))
	}

	switch c.Capture.Backend {
	case "screen", "browser":
	default:
		errs = append(errs, fmt.Errorf("unknown capture.backend %q", c.Capture.Backend))
	}
	switch c.Input.Backend {
	case "arduino", "browser", "native":
	default:
		errs = append(errs, fmt.Errorf("unknown input.backend %q", c.Input.Backend))
	}
	if c.Input.Key == "" {
		errs = append(errs, errors.New("input.key must be set"))
	}

	return errors.Join(errs...)
}

func inUnit(v float64) bool {
	return v >= 0 && v < 1
}

// InitConfig читает config.yaml из dir поверх выбранного профиля
var InitConfig = func(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // Имя конфигурационного файла без расширения
	v.AddConfigPath(dir)      // Путь к файлу конфигурации
	v.SetConfigType("yaml")   // Формат файла
	v.SetEnvPrefix("DINOBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return Load(v)
}

// Load собирает конфигурацию из уже настроенного viper
func Load(v *viper.Viper) (*Config, error) {
	profile := v.GetString("profile")
	if profile == "" {
		profile = DefaultProfile
	}

	base, err := ProfileConfig(profile)
	if err != nil {
		return nil, err
	}
	setDefaults(v, base)

	// Создание структуры и заполнение её данными из конфигурации
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.Profile = profile

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults пробрасывает значения профиля как умолчания viper, файл их перекрывает
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("log_file_path", c.LogFilePath)
	v.SetDefault("debug", c.Debug)

	v.SetDefault("capture.backend", c.Capture.Backend)
	v.SetDefault("capture.region.x", c.Capture.Region.X)
	v.SetDefault("capture.region.y", c.Capture.Region.Y)
	v.SetDefault("capture.region.width", c.Capture.Region.Width)
	v.SetDefault("capture.region.height", c.Capture.Region.Height)
	v.SetDefault("capture.auto_locate", c.Capture.AutoLocate)
	v.SetDefault("capture.game_url", c.Capture.GameURL)
	v.SetDefault("capture.headless", c.Capture.Headless)
	v.SetDefault("capture.save_frames", c.Capture.SaveFrames)
	v.SetDefault("capture.frames_dir", c.Capture.FramesDir)

	v.SetDefault("input.backend", c.Input.Backend)
	v.SetDefault("input.port", c.Input.Port)
	v.SetDefault("input.baud_rate", c.Input.BaudRate)
	v.SetDefault("input.key", c.Input.Key)

	d := c.Detection
	v.SetDefault("detection.threshold", d.Threshold)
	v.SetDefault("detection.ground.probe_x_fraction", d.Ground.ProbeXFraction)
	v.SetDefault("detection.ground.margin", d.Ground.Margin)
	v.SetDefault("detection.ground.fallback_fraction", d.Ground.FallbackFraction)
	v.SetDefault("detection.player.detect", d.Player.Detect)
	v.SetDefault("detection.player.region_fraction", d.Player.RegionFraction)
	v.SetDefault("detection.player.cluster_min", d.Player.ClusterMin)
	v.SetDefault("detection.player.default_x_fraction", d.Player.DefaultXFraction)
	v.SetDefault("detection.scan.offset_x", d.Scan.OffsetX)
	v.SetDefault("detection.scan.width_fraction", d.Scan.WidthFraction)
	v.SetDefault("detection.scan.height", d.Scan.Height)
	v.SetDefault("detection.scan.below_ground", d.Scan.BelowGround)

	v.SetDefault("timing.poll_interval", c.Timing.PollInterval)
	v.SetDefault("timing.fallback_period", c.Timing.FallbackPeriod)
	v.SetDefault("timing.debounce_base", c.Timing.DebounceBase)
	v.SetDefault("timing.release_delay", c.Timing.ReleaseDelay)
	v.SetDefault("timing.start_press", c.Timing.StartPress)

	v.SetDefault("gate.jump_coefficient", c.Gate.JumpCoefficient)
	v.SetDefault("gate.min_distance", c.Gate.MinDistance)
	v.SetDefault("gate.speed_step", c.Gate.SpeedStep)
	v.SetDefault("gate.speed_cap", c.Gate.SpeedCap)
	v.SetDefault("gate.speed_every", c.Gate.SpeedEvery)

	v.SetDefault("database.enabled", c.Database.Enabled)
	v.SetDefault("database.dsn", c.Database.DSN)
}
