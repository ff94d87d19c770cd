package calculator

import (
	"errors"
	"fmt"
)

// Band maps the score interval [Lower, Upper) to a risk category and fixed
// texts. The last band of a definition is closed: [Lower, Upper].
type Band struct {
	Lower          float64
	Upper          float64
	Risk           Risk
	Interpretation string
	Recommendation string
}

func (b Band) contains(score float64, last bool) bool {
	if last {
		return score >= b.Lower && score <= b.Upper
	}
	return score >= b.Lower && score < b.Upper
}

// Interval renders the band in interval notation; closed marks the last band.
func (b Band) Interval(closed bool) string {
	closing := ")"
	if closed {
		closing = "]"
	}
	return fmt.Sprintf("[%s, %s%s", formatNumber(b.Lower), formatNumber(b.Upper), closing)
}

// checkBands verifies the bands tile [lo, hi] without gaps or overlaps.
func checkBands(bands []Band, lo, hi float64) []error {
	if len(bands) == 0 {
		return []error{errors.New("no interpretation bands")}
	}
	var errs []error
	if bands[0].Lower != lo {
		errs = append(errs, fmt.Errorf("first band starts at %s, score range starts at %s",
			formatNumber(bands[0].Lower), formatNumber(lo)))
	}
	for i, b := range bands {
		last := i == len(bands)-1
		if !b.Risk.Valid() {
			errs = append(errs, fmt.Errorf("band %s: invalid risk category", b.Interval(last)))
		}
		if b.Interpretation == "" {
			errs = append(errs, fmt.Errorf("band %s: missing interpretation", b.Interval(last)))
		}
		if last {
			if b.Lower > b.Upper {
				errs = append(errs, fmt.Errorf("band %s: lower bound above upper bound", b.Interval(last)))
			}
			if b.Upper != hi {
				errs = append(errs, fmt.Errorf("last band ends at %s, score range ends at %s",
					formatNumber(b.Upper), formatNumber(hi)))
			}
			continue
		}
		if b.Lower >= b.Upper {
			errs = append(errs, fmt.Errorf("band %s: empty interval", b.Interval(last)))
		}
		if next := bands[i+1]; next.Lower != b.Upper {
			errs = append(errs, fmt.Errorf("bands %s and %s are not contiguous",
				b.Interval(false), next.Interval(i+1 == len(bands)-1)))
		}
	}
	return errs
}
