package transform

// UpdaterBuilderOption is a functional option for configuring an Updater.
type UpdaterBuilderOption func(u *updaterImpl)

// WithMouseSensitivity sets the 1-20 mouse sensitivity setting.
//
// Parameters:
//   - setting: the user setting, clamped to [1, 20]
//
// Returns:
//   - UpdaterBuilderOption: option function to apply
func WithMouseSensitivity(setting int) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.sensitivity = MouseSensitivity(setting)
	}
}

// WithDebugLogging logs every skipped update.
//
// Parameters:
//   - enabled: whether to log skipped updates
//
// Returns:
//   - UpdaterBuilderOption: option function to apply
func WithDebugLogging(enabled bool) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.debug = enabled
	}
}
