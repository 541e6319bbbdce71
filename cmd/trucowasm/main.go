//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"truco-lite/bridge"
	"truco-lite/replay"
)

type replayResponse struct {
	OK    bool                   `json:"ok"`
	Tape  *replay.WireReplayTape `json:"tape,omitempty"`
	Error *replay.ReplayError    `json:"error,omitempty"`
}

func main() {
	registry := bridge.NewRegistry()

	js.Global().Set("__trucoCall", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(bridge.WireResponse{OK: false, Error: "missing request payload"})
		}
		var req bridge.WireRequest
		if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
			return mustJSON(bridge.WireResponse{OK: false, Error: "invalid_json: " + err.Error()})
		}
		return mustJSON(registry.Dispatch(req))
	}))

	js.Global().Set("__trucoReplay", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(replayResponse{
				Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_request", Message: "missing request payload"},
			})
		}
		return mustJSON(handleReplay(args[0].String()))
	}))

	select {}
}

func handleReplay(raw string) replayResponse {
	scenario, err := replay.ParseScenario([]byte(raw))
	if err != nil {
		return replayResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_scenario", Message: err.Error()}}
	}
	tape, err := replay.GenerateTape(scenario)
	if err != nil {
		return replayResponse{Error: replay.AsReplayError(err)}
	}
	return replayResponse{OK: true, Tape: replay.ToWireReplayTape(tape)}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		b2, _ := json.Marshal(bridge.WireResponse{OK: false, Error: "marshal_failed: " + err.Error()})
		return string(b2)
	}
	return string(b)
}
