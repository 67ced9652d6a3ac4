package parser

// Marker is a set of flags nested constructs use to tell recognizers about
// their surroundings. Markers do not change how statements are reduced.
type Marker uint8

const (
	// Breakable is set while parsing the body of a loop.
	Breakable Marker = 1 << iota
)

func (m Marker) Has(flag Marker) bool {
	return m&flag != 0
}

func (e *Engine) SetMarker(flag Marker) {
	e.markers |= flag
}

func (e *Engine) ClearMarker(flag Marker) {
	e.markers &^= flag
}

func (e *Engine) HasMarker(flag Marker) bool {
	return e.markers.Has(flag)
}

// Markers returns the current marker set so it can be restored later.
func (e *Engine) Markers() Marker {
	return e.markers
}

func (e *Engine) RestoreMarkers(m Marker) {
	e.markers = m
}
