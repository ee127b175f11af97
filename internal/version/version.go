// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Galaxy map view with density smearing, catalog orientation, JSON summaries
// 0.2.0 - Parallel component generation, run tracker, uneven arm allocation
// 0.1.0 - Initial release: bulge/bar/disk/arms/halo generators, CSV export, TUI dashboard
