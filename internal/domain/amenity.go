package domain

// Amenity represents a shared facility that residents can book, such as a
// gym or a common room. Opening hours are wall-clock times in "HH:MM" form.
type Amenity struct {
	Document
	AssociationID string `json:"association_id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Bookable      bool   `json:"bookable"`
	OpeningTime   string `json:"opening_time"`
	ClosingTime   string `json:"closing_time"`
}

// AllowsWindow reports whether the half-open interval [start, end) fits
// inside the amenity's opening hours [OpeningTime, ClosingTime). A booking
// ending exactly at closing time is allowed. An unset opening or closing
// time leaves that edge unrestricted.
func (a *Amenity) AllowsWindow(start, end string) (bool, error) {
	s, err := ParseClock(start)
	if err != nil {
		return false, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return false, err
	}

	if a.OpeningTime != "" {
		open, err := ParseClock(a.OpeningTime)
		if err != nil {
			return false, err
		}
		if s < open {
			return false, nil
		}
	}
	if a.ClosingTime != "" {
		close, err := ParseClock(a.ClosingTime)
		if err != nil {
			return false, err
		}
		if e > close {
			return false, nil
		}
	}
	return true, nil
}
