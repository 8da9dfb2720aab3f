package config

import (
	"github.com/spf13/viper"

	"github.com/pucktrack/recorder/internal/model"
)

// Settings adapts the viper surface to the recorder's settings interface.
// Every accessor reads viper directly, so there is no staleness within a
// press-to-marker operation.
type Settings struct{}

// RecordingMode returns the configured mode, falling back to dynamic when
// the stored value is unknown.
func (Settings) RecordingMode() model.RecordingMode {
	mode := model.RecordingMode(viper.GetString("recording.mode"))
	if !mode.Valid() {
		return model.ModeDynamic
	}
	return mode
}

// Timing returns the timing parameters.
func (Settings) Timing() model.TimingConfig {
	return model.TimingConfig{
		FixedDurationSec: viper.GetFloat64("recording.fixedDurationSec"),
		PreRollSec:       viper.GetFloat64("recording.preRollSec"),
		PostRollSec:      viper.GetFloat64("recording.postRollSec"),
	}
}

// SetRecordingMode stores the mode.
func (Settings) SetRecordingMode(mode model.RecordingMode) {
	viper.Set("recording.mode", string(mode))
}

// SetTiming stores the timing parameters.
func (Settings) SetTiming(cfg model.TimingConfig) {
	viper.Set("recording.fixedDurationSec", cfg.FixedDurationSec)
	viper.Set("recording.preRollSec", cfg.PreRollSec)
	viper.Set("recording.postRollSec", cfg.PostRollSec)
}
