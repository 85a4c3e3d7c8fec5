// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package catalog

import "log/slog"

// Icon is a canonical feature icon identifier. The presentation layer maps
// these to its own components; this enumeration is the contract.
type Icon string

// Known feature icons.
const (
	IconZap       Icon = "zap"
	IconShield    Icon = "shield"
	IconRocket    Icon = "rocket"
	IconBarChart  Icon = "bar-chart"
	IconUsers     Icon = "users"
	IconGlobe     Icon = "globe"
	IconLock      Icon = "lock"
	IconSparkles  Icon = "sparkles"
	IconMail      Icon = "mail"
	IconLifeBuoy  Icon = "life-buoy"
	IconLayers    Icon = "layers"
	IconRefreshCw Icon = "refresh-cw"
)

// DefaultIcon is used for unknown identifiers.
const DefaultIcon = IconZap

// knownIcons is the explicit enumerated mapping from stored identifiers to
// canonical icons. Dynamic lookup by arbitrary string is intentionally not
// supported.
var knownIcons = map[string]Icon{
	string(IconZap):       IconZap,
	string(IconShield):    IconShield,
	string(IconRocket):    IconRocket,
	string(IconBarChart):  IconBarChart,
	string(IconUsers):     IconUsers,
	string(IconGlobe):     IconGlobe,
	string(IconLock):      IconLock,
	string(IconSparkles):  IconSparkles,
	string(IconMail):      IconMail,
	string(IconLifeBuoy):  IconLifeBuoy,
	string(IconLayers):    IconLayers,
	string(IconRefreshCw): IconRefreshCw,
}

// ResolveIcon maps a stored identifier to an Icon. Unknown identifiers
// resolve to DefaultIcon and are logged at warn; they are never fatal.
func ResolveIcon(name string, logger *slog.Logger) Icon {
	if icon, ok := knownIcons[name]; ok {
		return icon
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("unknown feature icon, using default",
		"icon", name,
		"default", string(DefaultIcon),
	)
	return DefaultIcon
}

// KnownIcon reports whether name is a recognized icon identifier.
func KnownIcon(name string) bool {
	_, ok := knownIcons[name]
	return ok
}
