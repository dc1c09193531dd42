package chartview

import (
	"encoding/json"
	"math"
	"strconv"
)

// HoverState is either Idle or Hovering over one bar. The zero value is Idle.
type HoverState struct {
	index  int
	active bool
}

// Idle is the state with no bar under the pointer.
func Idle() HoverState {
	return HoverState{}
}

// Hovering is the state with bar i under the pointer.
func Hovering(i int) HoverState {
	return HoverState{index: i, active: true}
}

// Index returns the hovered bar and true, or 0 and false when idle.
func (h HoverState) Index() (int, bool) {
	return h.index, h.active
}

// IsHovering reports whether a bar is under the pointer.
func (h HoverState) IsHovering() bool {
	return h.active
}

func (h HoverState) String() string {
	if !h.active {
		return "idle"
	}
	return "hovering(" + strconv.Itoa(h.index) + ")"
}

type hoverJSON struct {
	Hovering bool `json:"hovering"`
	Index    *int `json:"index,omitempty"`
}

// MarshalJSON encodes the state as {"hovering":true,"index":3} or {"hovering":false}.
func (h HoverState) MarshalJSON() ([]byte, error) {
	out := hoverJSON{Hovering: h.active}
	if h.active {
		i := h.index
		out.Index = &i
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the MarshalJSON form.
func (h *HoverState) UnmarshalJSON(data []byte) error {
	var in hoverJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Hovering && in.Index != nil {
		*h = Hovering(*in.Index)
		return nil
	}
	*h = Idle()
	return nil
}

// HoverAt resolves a pointer position to the bar slot under it. Positions
// outside the plot rectangle, or past the last bar, are Idle.
func HoverAt(x, y float64, g Geometry, n int) HoverState {
	if n <= 0 || g.BarSpacing <= 0 || !g.Contains(x, y) {
		return Idle()
	}
	i := int(math.Floor((x - g.Padding) / g.BarSpacing))
	if i < 0 || i >= n {
		return Idle()
	}
	return Hovering(i)
}
