package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/format"
)

// Keymap binds key strings to action names, one table per input mode.
type Keymap struct {
	Calculator map[string]string `toml:"calculator"`
	Equation   map[string]string `toml:"equation"`
}

type CalculatorOptions struct {
	AngleMode             string `toml:"angle-mode"`
	FormatMode            string `toml:"format-mode"`
	HistoryLimit          int    `toml:"history-limit"`
	ExpressionMemoryLimit int    `toml:"expression-memory-limit"`
	Precision             int    `toml:"precision"`
	SolverIterations      int    `toml:"solver-iterations"`
}

type Theme struct {
	Theme                   string `toml:"theme"`
	Foreground              string `toml:"foreground"`
	Background              string `toml:"background"`
	DisplayForeground       string `toml:"display-foreground"`
	DisplayBackground       string `toml:"display-background"`
	PreviousForeground      string `toml:"previous-foreground"`
	PreviewForeground       string `toml:"preview-foreground"`
	ErrorForeground         string `toml:"error-foreground"`
	StatuslineForeground    string `toml:"statusline-foreground"`
	StatuslineBackground    string `toml:"statusline-background"`
	IndicatorForeground     string `toml:"indicator-foreground"`
	HistoryForeground       string `toml:"history-foreground"`
	HistoryResultForeground string `toml:"history-result-foreground"`
	KeyHintForeground       string `toml:"key-hint-foreground"`
}

type SessionOptions struct {
	Store         string `toml:"store"` // "file", "redis", "none"
	Dir           string `toml:"dir"`
	Autosave      string `toml:"autosave"`
	RedisAddr     string `toml:"redis-addr"`
	RedisPassword string `toml:"redis-password"`
	RedisDB       int    `toml:"redis-db"`
	RedisPrefix   string `toml:"redis-prefix"`
	RedisTTL      string `toml:"redis-ttl"`
}

type ServerOptions struct {
	Addr string `toml:"addr"`
}

type Config struct {
	Calculator CalculatorOptions `toml:"calculator"`
	Theme      Theme             `toml:"theme"`
	Keymap     Keymap            `toml:"keymap"`
	Session    SessionOptions    `toml:"session"`
	Server     ServerOptions     `toml:"server"`
}

func Default() Config {
	return Config{
		Calculator: CalculatorOptions{
			AngleMode:             "DEG",
			FormatMode:            "NORMAL",
			HistoryLimit:          10,
			ExpressionMemoryLimit: 10,
			Precision:             format.DefaultPrecision,
			SolverIterations:      60,
		},
		Theme: Theme{
			Foreground:              "#B3B1AD",
			Background:              "#0A0E14",
			DisplayForeground:       "#E6E1CF",
			DisplayBackground:       "#0F1419",
			PreviousForeground:      "#5C6773",
			PreviewForeground:       "#BAE67E",
			ErrorForeground:         "#FF3333",
			StatuslineForeground:    "#B3B1AD",
			StatuslineBackground:    "#0F1419",
			IndicatorForeground:     "#FFD173",
			HistoryForeground:       "#B3B1AD",
			HistoryResultForeground: "#59C2FF",
			KeyHintForeground:       "#3E4B59",
		},
		Keymap: Keymap{
			Calculator: map[string]string{
				"enter":     "equals",
				"=":         "equals",
				"backspace": "delete",
				"del":       "delete-forward",
				"esc":       "clear",
				"ctrl+l":    "clear",
				"ctrl+u":    "clear-entry",
				"left":      "cursor-left",
				"right":     "cursor-right",
				"home":      "cursor-home",
				"end":       "cursor-end",
				"ctrl+a":    "cursor-home",
				"ctrl+e":    "cursor-end",
				"tab":       "toggle-shift",
				"f2":        "toggle-angle",
				"f3":        "cycle-format",
				"ctrl+n":    "toggle-sign",
				"ctrl+s":    "memory-store",
				"ctrl+r":    "memory-recall",
				"ctrl+x":    "memory-clear",
				"ctrl+p":    "memory-add",
				"ctrl+o":    "memory-subtract",
				"ctrl+k":    "store-expression",
				"ctrl+w":    "clear-history",
				"f7":        "export-text",
				"f8":        "export-csv",
				"ctrl+t":    "enter-equation",
				"ctrl+c":    "quit",
				"ctrl+q":    "quit",
				"alt+p":     "press pi",
				"alt+e":     "press e",
				"alt+a":     "press ans",
				"alt+s":     "press sin(",
				"alt+c":     "press cos(",
				"alt+t":     "press tan(",
				"alt+l":     "press log(",
				"alt+n":     "press ln(",
				"alt+r":     "press sqrt(",
				"alt+q":     "press pow2",
				"alt+i":     "press inv",
				"alt+x":     "press EXP",
				"alt+y":     "press yroot",
				"alt+m":     "press mod",
				"alt+1":     "use-expression 0",
				"alt+2":     "use-expression 1",
				"alt+3":     "use-expression 2",
				"alt+0":     "clear-expressions",
			},
			Equation: map[string]string{
				"esc":       "leave-equation",
				"ctrl+t":    "leave-equation",
				"enter":     "solve-linear",
				"f5":        "solve-linear",
				"f6":        "solve-quadratic",
				"backspace": "equation-delete",
				"ctrl+u":    "equation-clear",
				"ctrl+c":    "quit",
				"ctrl+q":    "quit",
			},
		},
		Session: SessionOptions{
			Store:       "file",
			Autosave:    "15s",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "qcalc:session:",
		},
		Server: ServerOptions{
			Addr: ":8080",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	mergeCalculator(&cfg.Calculator, userCfg.Calculator)

	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	for k, v := range userCfg.Keymap.Calculator {
		cfg.Keymap.Calculator[k] = v
	}
	for k, v := range userCfg.Keymap.Equation {
		cfg.Keymap.Equation[k] = v
	}

	mergeSession(&cfg.Session, userCfg.Session)
	if userCfg.Server.Addr != "" {
		cfg.Server.Addr = userCfg.Server.Addr
	}

	return cfg, cfg.Validate()
}

func mergeCalculator(dst *CalculatorOptions, src CalculatorOptions) {
	if src.AngleMode != "" {
		dst.AngleMode = src.AngleMode
	}
	if src.FormatMode != "" {
		dst.FormatMode = src.FormatMode
	}
	if src.HistoryLimit > 0 {
		dst.HistoryLimit = src.HistoryLimit
	}
	if src.ExpressionMemoryLimit > 0 {
		dst.ExpressionMemoryLimit = src.ExpressionMemoryLimit
	}
	if src.Precision > 0 {
		dst.Precision = src.Precision
	}
	if src.SolverIterations > 0 {
		dst.SolverIterations = src.SolverIterations
	}
}

func mergeSession(dst *SessionOptions, src SessionOptions) {
	if src.Store != "" {
		dst.Store = src.Store
	}
	if src.Dir != "" {
		dst.Dir = src.Dir
	}
	if src.Autosave != "" {
		dst.Autosave = src.Autosave
	}
	if src.RedisAddr != "" {
		dst.RedisAddr = src.RedisAddr
	}
	if src.RedisPassword != "" {
		dst.RedisPassword = src.RedisPassword
	}
	if src.RedisDB > 0 {
		dst.RedisDB = src.RedisDB
	}
	if src.RedisPrefix != "" {
		dst.RedisPrefix = src.RedisPrefix
	}
	if src.RedisTTL != "" {
		dst.RedisTTL = src.RedisTTL
	}
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.DisplayForeground, src.DisplayForeground)
	set(&dst.DisplayBackground, src.DisplayBackground)
	set(&dst.PreviousForeground, src.PreviousForeground)
	set(&dst.PreviewForeground, src.PreviewForeground)
	set(&dst.ErrorForeground, src.ErrorForeground)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.IndicatorForeground, src.IndicatorForeground)
	set(&dst.HistoryForeground, src.HistoryForeground)
	set(&dst.HistoryResultForeground, src.HistoryResultForeground)
	set(&dst.KeyHintForeground, src.KeyHintForeground)
}

// Validate rejects mode names and durations the calculator cannot use.
func (c Config) Validate() error {
	if _, ok := eval.ParseAngleMode(c.Calculator.AngleMode); !ok {
		return fmt.Errorf("calculator.angle-mode: unknown mode %q", c.Calculator.AngleMode)
	}
	if _, ok := format.ParseMode(c.Calculator.FormatMode); !ok {
		return fmt.Errorf("calculator.format-mode: unknown mode %q", c.Calculator.FormatMode)
	}
	switch c.Session.Store {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("session.store: unknown store %q", c.Session.Store)
	}
	if _, err := c.Session.AutosaveInterval(); err != nil {
		return fmt.Errorf("session.autosave: %w", err)
	}
	if _, err := c.Session.TTL(); err != nil {
		return fmt.Errorf("session.redis-ttl: %w", err)
	}
	return nil
}

// Angle is the configured start mode.
func (c CalculatorOptions) Angle() eval.AngleMode {
	m, _ := eval.ParseAngleMode(c.AngleMode)
	return m
}

// Format is the configured start format.
func (c CalculatorOptions) Format() format.Mode {
	m, _ := format.ParseMode(c.FormatMode)
	return m
}

// AutosaveInterval parses Autosave; empty or "0" disables autosave.
func (s SessionOptions) AutosaveInterval() (time.Duration, error) {
	return parseDuration(s.Autosave)
}

// TTL parses RedisTTL; empty means keys never expire.
func (s SessionOptions) TTL() (time.Duration, error) {
	return parseDuration(s.RedisTTL)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads a theme file, either flat or wrapped in [theme].
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QCALC_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qcalc"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qcalc"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
