package model

// Enablement status labels used in logs, metrics and CLI output.
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

// StatusLabel returns the label for an enablement flag.
func StatusLabel(enabled bool) string {
	if enabled {
		return StatusEnabled
	}
	return StatusDisabled
}
