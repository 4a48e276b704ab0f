package render

import (
	"math"
	"strings"
)

const MaxStars = 5

// StarRating is a rating laid out on a five star scale.
type StarRating struct {
	Full  int
	Half  int
	Empty int
}

// Stars lays out r as floor(r) full stars, one half star when the fractional
// part is at least .5, and 5-ceil(r) empty stars. A fraction below .5 leaves
// its slot blank, so 3.2 shows four symbols. r is clamped to [0, 5].
func Stars(r float64) StarRating {
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	if r > MaxStars {
		r = MaxStars
	}
	full := int(math.Floor(r))
	half := 0
	if r-math.Floor(r) >= 0.5 {
		half = 1
	}
	return StarRating{Full: full, Half: half, Empty: MaxStars - int(math.Ceil(r))}
}

func (s StarRating) String() string {
	return strings.Repeat("★", s.Full) + strings.Repeat("½", s.Half) + strings.Repeat("☆", s.Empty)
}
