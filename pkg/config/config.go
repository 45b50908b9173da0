package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CONVOPANEL_"

// Selectors are the element ids the panel expects in its document.
type Selectors struct {
	ChatBoxID string `yaml:"chat-box-id"`
	InputID   string `yaml:"input-id"`
	DummyID   string `yaml:"dummy-id"`
}

// RoleLabels name the two payload sources. Anything else is not rendered.
type RoleLabels struct {
	User  string `yaml:"user"`
	Agent string `yaml:"agent"`
}

// Sizing holds the input padding breakpoints, in px.
type Sizing struct {
	MinFontSize int `yaml:"min-font-size"`
	MaxFontSize int `yaml:"max-font-size"`
	MinPadding  int `yaml:"min-padding"`
	MaxPadding  int `yaml:"max-padding"`
}

type Transport struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// UI configures the terminal frontend.
type UI struct {
	// CellWidthPx is how many px one terminal cell stands for.
	CellWidthPx  int    `yaml:"cell-width-px"`
	RootFontSize string `yaml:"root-font-size"`
	InputFont    string `yaml:"input-font-size"`
}

// Settings is the immutable configuration handed to every component.
type Settings struct {
	Selectors       Selectors  `yaml:"selectors"`
	Roles           RoleLabels `yaml:"roles"`
	Sizing          Sizing     `yaml:"sizing"`
	TimestampLayout string     `yaml:"timestamp-layout"`
	Transport       Transport  `yaml:"transport"`
	UI              UI         `yaml:"ui"`
}

func Default() Settings {
	return Settings{
		Selectors: Selectors{
			ChatBoxID: "scrollingChat",
			InputID:   "textInput",
			DummyID:   "textInputDummy",
		},
		Roles: RoleLabels{
			User:  "user",
			Agent: "agent",
		},
		Sizing: Sizing{
			MinFontSize: 14,
			MaxFontSize: 16,
			MinPadding:  4,
			MaxPadding:  6,
		},
		TimestampLayout: "02/01/2006, 15:04:05",
		Transport: Transport{
			Endpoint: "http://localhost:3000/api/message",
			Timeout:  30 * time.Second,
		},
		UI: UI{
			CellWidthPx:  8,
			RootFontSize: "16px",
			InputFont:    "16px",
		},
	}
}

// Keys read from viper on top of the config file. Each is also bound to a
// CONVOPANEL_* environment variable.
const (
	KeyEndpoint        = "endpoint"
	KeyTimeout         = "timeout"
	KeyTimestampLayout = "timestamp-layout"
)

var envBindings = map[string]string{
	KeyEndpoint:        envPrefix + "ENDPOINT",
	KeyTimeout:         envPrefix + "TIMEOUT",
	KeyTimestampLayout: envPrefix + "TIMESTAMP_LAYOUT",
}

// Load layers defaults, the YAML config file v found, a .env file in the
// working directory and the values v resolves from flags and the environment.
func Load(v *viper.Viper) (Settings, error) {
	s := Default()

	if path := v.ConfigFileUsed(); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(b, &s); err != nil {
			return Settings{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Settings{}, errors.Wrap(err, "load .env")
	}
	if err := s.applyViper(v); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyViper(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return errors.Wrapf(err, "bind %s", env)
		}
	}

	if v.IsSet(KeyEndpoint) && v.GetString(KeyEndpoint) != "" {
		s.Transport.Endpoint = v.GetString(KeyEndpoint)
	}
	if raw := v.GetString(KeyTimeout); v.IsSet(KeyTimeout) && raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return errors.Wrapf(err, "parse %s", KeyTimeout)
		}
		s.Transport.Timeout = d
	}
	if v.IsSet(KeyTimestampLayout) && v.GetString(KeyTimestampLayout) != "" {
		s.TimestampLayout = v.GetString(KeyTimestampLayout)
	}
	return nil
}

func (s Settings) Validate() error {
	if s.Sizing.MaxFontSize <= s.Sizing.MinFontSize {
		return errors.Errorf("sizing: max-font-size (%d) must be greater than min-font-size (%d)",
			s.Sizing.MaxFontSize, s.Sizing.MinFontSize)
	}
	if s.Roles.User == "" || s.Roles.Agent == "" || s.Roles.User == s.Roles.Agent {
		return errors.New("roles: user and agent labels must be distinct and non-empty")
	}
	if s.Selectors.ChatBoxID == "" || s.Selectors.InputID == "" || s.Selectors.DummyID == "" {
		return errors.New("selectors: chat box, input and dummy ids are required")
	}
	if s.UI.CellWidthPx <= 0 {
		return errors.New("ui: cell-width-px must be positive")
	}
	return nil
}
