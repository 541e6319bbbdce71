package ledger

import (
	"time"

	"truco-lite/replay"
)

// RecordFromTape summarises a replay tape for storage.
func RecordFromTape(tape *replay.ReplayTape, s replay.Scenario, playedAt time.Time) MatchRecord {
	rec := MatchRecord{
		Source:    SourceReplay,
		Players:   append([]string(nil), s.Players...),
		Threshold: int(s.Threshold),
		PlayedAt:  playedAt,
	}
	if tape == nil {
		return rec
	}
	rec.Winner = tape.Winner
	for _, e := range tape.Events {
		rec.Events = append(rec.Events, EventItem{Seq: e.Seq, EventType: e.Type, EnvelopeB64: e.EnvelopeB64})
		if e.Value == nil {
			continue
		}
		fields := e.Value.GetFields()
		if v, ok := fields["scoreUs"]; ok {
			rec.ScoreUs = int(v.GetNumberValue())
		}
		if v, ok := fields["scoreThem"]; ok {
			rec.ScoreThem = int(v.GetNumberValue())
		}
	}
	return rec
}
