package replay

type WireReplayTape struct {
	TapeVersion int               `json:"tapeVersion"`
	MatchID     string            `json:"matchId"`
	Finished    bool              `json:"finished"`
	Winner      string            `json:"winner,omitempty"`
	Events      []WireReplayEvent `json:"events"`
}

type WireReplayEvent struct {
	Type        string         `json:"type"`
	Seq         uint64         `json:"seq"`
	Fields      map[string]any `json:"fields,omitempty"`
	EnvelopeB64 string         `json:"envelopeB64"`
}

func ToWireReplayTape(tape *ReplayTape) *WireReplayTape {
	if tape == nil {
		return nil
	}
	out := &WireReplayTape{
		TapeVersion: tape.TapeVersion,
		MatchID:     tape.MatchID,
		Finished:    tape.Finished,
		Winner:      tape.Winner,
		Events:      make([]WireReplayEvent, 0, len(tape.Events)),
	}
	for _, e := range tape.Events {
		we := WireReplayEvent{
			Type:        e.Type,
			Seq:         e.Seq,
			EnvelopeB64: e.EnvelopeB64,
		}
		if e.Value != nil {
			we.Fields = e.Value.AsMap()
		}
		out.Events = append(out.Events, we)
	}
	return out
}
