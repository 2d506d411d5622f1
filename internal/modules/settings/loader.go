package settings

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Loader reads settings profiles from TOML files
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new profile loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "settings_loader").Logger(),
	}
}

// Load reads the profile at path on top of DefaultProfile.
// An empty path or a missing file yields the defaults.
func (l *Loader) Load(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	md, err := toml.DecodeFile(path, &profile)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Info().Str("path", path).Msg("Settings profile not found, using defaults")
		return DefaultProfile(), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to parse settings profile %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		l.log.Warn().Str("path", path).Interface("keys", undecoded).Msg("Ignoring unknown settings keys")
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}

	l.log.Info().
		Str("path", path).
		Str("policy", string(profile.Recommendation.Policy)).
		Msg("Settings profile loaded")
	return profile, nil
}

// Decode parses a profile from a TOML document on top of DefaultProfile
func Decode(data string) (Profile, error) {
	profile := DefaultProfile()
	if _, err := toml.Decode(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse settings profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
