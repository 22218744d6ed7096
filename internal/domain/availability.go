package domain

// RemainingOptions narrows each option's slot catalog by the slots already
// taken on the queried date. Order of the surviving slots is preserved, and
// an option whose slots are all taken is still returned with an empty slice.
// Inputs are not mutated.
func RemainingOptions(options []AppointmentOption, booked []Booking) []AppointmentOption {
	out := make([]AppointmentOption, 0, len(options))
	for _, opt := range options {
		taken := make(map[string]struct{})
		for _, b := range booked {
			if b.Treatment == opt.Name {
				taken[b.Slot] = struct{}{}
			}
		}

		remaining := make([]string, 0, len(opt.Slots))
		for _, slot := range opt.Slots {
			if _, ok := taken[slot]; !ok {
				remaining = append(remaining, slot)
			}
		}

		opt.Slots = remaining
		out = append(out, opt)
	}
	return out
}
