package appointment

// Option is a treatment's template of offerable time slots. The slots are
// not tied to a date; availability for a date is derived by removing the
// slots already booked on it.
type Option struct {
	ID    string   `json:"_id" bson:"_id,omitempty"`
	Name  string   `json:"name" bson:"name"`
	Price float64  `json:"price" bson:"price"`
	Slots []string `json:"slots" bson:"slots"`
}

// Speciality is the name-only projection of an Option.
type Speciality struct {
	ID   string `json:"_id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}

// BookedSlot is the part of a booking that consumes availability.
type BookedSlot struct {
	Treatment string `bson:"treatment"`
	Slot      string `bson:"slot"`
}

// RemainingSlots returns copies of options with every slot booked for the
// option's name removed. Template order is kept and options sharing a name
// are handled independently. The input options are not modified.
func RemainingSlots(options []*Option, booked []BookedSlot) []*Option {
	taken := make(map[string]map[string]struct{})
	for _, b := range booked {
		if taken[b.Treatment] == nil {
			taken[b.Treatment] = make(map[string]struct{})
		}
		taken[b.Treatment][b.Slot] = struct{}{}
	}

	out := make([]*Option, 0, len(options))
	for _, o := range options {
		cp := *o
		cp.Slots = make([]string, 0, len(o.Slots))
		for _, s := range o.Slots {
			if _, ok := taken[o.Name][s]; ok {
				continue
			}
			cp.Slots = append(cp.Slots, s)
		}
		out = append(out, &cp)
	}
	return out
}
