package server

import "strings"

// Status is the lifecycle status of a catalog entry.
type Status string

// Status values. StatusUnknown covers statuses the upstream catalog may
// introduce that this index does not recognize.
const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusDeprecated  Status = "deprecated"
	StatusOutdated    Status = "outdated"
	StatusInactive    Status = "inactive"
	StatusDeleted     Status = "deleted"
	StatusUnknown     Status = "unknown"
)

// ParseStatus normalizes an upstream status string. Unrecognized or empty
// values map to StatusUnknown; matching is case-insensitive.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusMaintenance:
		return StatusMaintenance
	case StatusDeprecated:
		return StatusDeprecated
	case StatusOutdated:
		return StatusOutdated
	case StatusInactive:
		return StatusInactive
	case StatusDeleted:
		return StatusDeleted
	default:
		return StatusUnknown
	}
}

// String returns the status as a string.
func (s Status) String() string { return string(s) }

// RankWeight returns the ranking multiplier applied to search scores for
// entries with this status. Deleted entries never reach ranking; their
// weight is zero as a safety net.
func (s Status) RankWeight() float64 {
	switch s {
	case StatusActive:
		return 1.00
	case StatusMaintenance:
		return 0.95
	case StatusDeprecated, StatusOutdated:
		return 0.85
	case StatusInactive:
		return 0.70
	case StatusDeleted:
		return 0
	default:
		return 0.90
	}
}

// LatestWeight returns the ranking multiplier for the latest flag.
func LatestWeight(isLatest bool) float64 {
	if isLatest {
		return 1.00
	}
	return 0.90
}
