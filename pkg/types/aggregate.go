package types

// Aggregate is the unit of persistence and replication: the four collections
// are always read and written together, never partially.
type Aggregate struct {
	Tasks        []Task        `json:"tasks"`
	Logs         []DailyLog    `json:"logs"`
	Observations []Observation `json:"observations"`
	OffDays      []string      `json:"off_days"` // DateLayout dates flagged non-working
}

// EmptyAggregate returns an aggregate with all four collections present but
// empty. Loads that find no stored data, or corrupt stored data, fall back
// to this value.
func EmptyAggregate() Aggregate {
	return Aggregate{
		Tasks:        []Task{},
		Logs:         []DailyLog{},
		Observations: []Observation{},
		OffDays:      []string{},
	}
}

// Normalize replaces nil collections with empty ones so that decoded and
// hand-built aggregates compare and serialize uniformly.
func (a Aggregate) Normalize() Aggregate {
	if a.Tasks == nil {
		a.Tasks = []Task{}
	}
	if a.Logs == nil {
		a.Logs = []DailyLog{}
	}
	if a.Observations == nil {
		a.Observations = []Observation{}
	}
	if a.OffDays == nil {
		a.OffDays = []string{}
	}
	return a
}

// TaskByID returns the task with the given opaque id.
func (a Aggregate) TaskByID(taskID string) (Task, bool) {
	for _, t := range a.Tasks {
		if t.TaskID == taskID {
			return t, true
		}
	}
	return Task{}, false
}

// Clone returns a deep copy of the aggregate. Mutating the copy never
// aliases the original's slices.
func (a Aggregate) Clone() Aggregate {
	out := Aggregate{
		Tasks:        make([]Task, len(a.Tasks)),
		Logs:         append([]DailyLog{}, a.Logs...),
		Observations: make([]Observation, len(a.Observations)),
		OffDays:      append([]string{}, a.OffDays...),
	}
	for i, t := range a.Tasks {
		t.Updates = cloneUpdates(t.Updates)
		t.Attachments = cloneAttachments(t.Attachments)
		out.Tasks[i] = t
	}
	for i, o := range a.Observations {
		o.Images = cloneAttachments(o.Images)
		out.Observations[i] = o
	}
	return out
}

func cloneUpdates(in []Update) []Update {
	if in == nil {
		return nil
	}
	out := make([]Update, len(in))
	for i, u := range in {
		u.Attachments = cloneAttachments(u.Attachments)
		out[i] = u
	}
	return out
}

func cloneAttachments(in []Attachment) []Attachment {
	if in == nil {
		return nil
	}
	out := make([]Attachment, len(in))
	for i, at := range in {
		at.Data = append([]byte(nil), at.Data...)
		out[i] = at
	}
	return out
}
