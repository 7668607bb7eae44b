// Package app wires the wellness services together: day journaling, aura
// scoring and sharing, community roster, weekly reports, avatar rendering and
// the companion chat. All services share one session lock so the displayed
// aura score can never be observed mid-mutation.
package app
