package config

import (
	"time"

	"github.com/cadencehq/cadence/pkg/routine"
)

// StaticAnchors resolves anchor clock times against plan dates in a
// fixed location. It satisfies the reconciler's AnchorProvider.
type StaticAnchors struct {
	Wake     string
	Bed      string
	Location *time.Location
}

// NewStaticAnchors builds an anchor provider from config clock times.
func NewStaticAnchors(cfg AnchorConfig, loc *time.Location) *StaticAnchors {
	if loc == nil {
		loc = time.Local
	}
	return &StaticAnchors{
		Wake:     cfg.Wake,
		Bed:      cfg.Bed,
		Location: loc,
	}
}

// Anchors returns the wake estimate and bed target for a date.
func (a *StaticAnchors) Anchors(date string) (time.Time, time.Time, error) {
	return routine.ParseAnchors(date, a.Wake, a.Bed, a.Location)
}
