package bridge

import (
	"errors"
	"fmt"
)

var ErrUnknownOp = errors.New("unknown operation")

// WireRequest is one boundary call encoded as JSON, for hosts such as
// JavaScript that exchange text rather than C structs.
type WireRequest struct {
	Op        string `json:"op"`
	Handle    Handle `json:"handle,omitempty"`
	Player    string `json:"player,omitempty"`
	Card      uint   `json:"card,omitempty"`
	Threshold uint8  `json:"threshold,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
}

type WireResponse struct {
	OK        bool     `json:"ok"`
	Handle    Handle   `json:"handle,omitempty"`
	Finalized *bool    `json:"finalized,omitempty"`
	Terminal  *bool    `json:"terminal,omitempty"`
	Winner    string   `json:"winner,omitempty"`
	Text      string   `json:"text,omitempty"`
	Commands  []string `json:"commands,omitempty"`
	Error     string   `json:"error,omitempty"`
}

var wireActions = map[string]Action{
	"fold":         ActionFold,
	"accept":       ActionAccept,
	"decline":      ActionDecline,
	"envido":       ActionEnvido,
	"real_envido":  ActionRealEnvido,
	"falta_envido": ActionFaltaEnvido,
	"truco":        ActionTruco,
	"re_truco":     ActionReTruco,
	"vale_cuatro":  ActionValeCuatro,
	"play_card":    ActionPlayCard,
}

// Dispatch runs one request against the registry. Recoverable failures come
// back as OK=false with Error set; invalid handles panic like every other
// surface of this package.
func (r *Registry) Dispatch(req WireRequest) WireResponse {
	if action, ok := wireActions[req.Op]; ok {
		return voidResponse(r.Game(req.Handle).ApplyRaw(action, []byte(req.Player), req.Card))
	}

	switch req.Op {
	case "new_builder":
		return WireResponse{OK: true, Handle: r.NewBuilder()}
	case "add_player":
		// no return value on this operation; a bad name is simply not added
		_ = r.Builder(req.Handle).AddPlayerRaw([]byte(req.Player))
		return WireResponse{OK: true, Handle: req.Handle}
	case "set_threshold":
		r.Builder(req.Handle).SetThreshold(req.Threshold)
		return WireResponse{OK: true, Handle: req.Handle}
	case "finalize":
		h, tag := r.Finalize(req.Handle, FinalizeOptions{Seed: req.Seed})
		finalized := tag == FinalizeGame
		return WireResponse{OK: true, Handle: h, Finalized: &finalized}
	case "valid_commands":
		list := r.Game(req.Handle).ValidCommandsRaw([]byte(req.Player))
		cmds := make([]string, 0, list.Len())
		list.Release(func(s string) { cmds = append(cmds, s) })
		return WireResponse{OK: true, Handle: req.Handle, Commands: cmds}
	case "is_terminal":
		terminal := r.Game(req.Handle).IsTerminal()
		return WireResponse{OK: true, Handle: req.Handle, Terminal: &terminal}
	case "current_winner":
		resp := WireResponse{OK: true, Handle: req.Handle}
		if t, ok := r.Game(req.Handle).CurrentWinner().Get(); ok {
			resp.Winner = t.String()
		}
		return resp
	case "state_text":
		return WireResponse{OK: true, Handle: req.Handle, Text: r.Game(req.Handle).StateText()}
	case "player_view":
		res := r.Game(req.Handle).PlayerViewTextRaw([]byte(req.Player))
		resp := voidResponse(res)
		resp.Text = res.Value()
		return resp
	case "free_builder":
		r.ReleaseBuilder(req.Handle)
		return WireResponse{OK: true}
	case "free_game":
		r.ReleaseGame(req.Handle)
		return WireResponse{OK: true}
	}
	return WireResponse{OK: false, Error: fmt.Errorf("%w: %q", ErrUnknownOp, req.Op).Error()}
}

type diagnosed interface {
	IsOk() bool
	Diagnostic() (string, bool)
}

func voidResponse(res diagnosed) WireResponse {
	if msg, failed := res.Diagnostic(); failed {
		return WireResponse{OK: false, Error: msg}
	}
	return WireResponse{OK: true}
}
