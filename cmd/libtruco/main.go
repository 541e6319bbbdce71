// Command libtruco builds the C ABI of the truco engine:
//
//	go build -buildmode=c-shared -o libtruco.so ./cmd/libtruco
//
// Ownership rules: every char* passed in must come from malloc and is freed
// by the callee. Every char* and TrucoStringArray handed out belongs to the
// caller and goes back exactly once through truco_free_string or
// truco_free_string_array. Passing a zero or stale handle aborts the process.
package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	uint8_t tag;
	char *error;
} TrucoResult;

typedef struct {
	uint8_t tag;
	char *value;
	char *error;
} TrucoTextResult;

typedef struct {
	uint8_t tag;
	uint8_t some;
} TrucoOptionalTeam;

typedef struct {
	char **data;
	size_t length;
} TrucoStringArray;

typedef struct {
	uint8_t tag;
	uintptr_t handle;
} TrucoFinalizeResult;
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"truco-lite/bridge"
)

func main() {}

func builderFrom(h C.uintptr_t) *bridge.Builder {
	if h == 0 {
		panic("libtruco: null builder handle")
	}
	return cgo.Handle(h).Value().(*bridge.Builder)
}

func gameFrom(h C.uintptr_t) *bridge.Game {
	if h == 0 {
		panic("libtruco: null game handle")
	}
	return cgo.Handle(h).Value().(*bridge.Game)
}

// takeString copies a caller buffer and frees it; the caller gave it up.
func takeString(p *C.char) []byte {
	if p == nil {
		return nil
	}
	buf := C.GoBytes(unsafe.Pointer(p), C.int(C.strlen(p)))
	C.free(unsafe.Pointer(p))
	return buf
}

func cResult(r bridge.Result[bridge.Void]) C.TrucoResult {
	out := C.TrucoResult{tag: C.uint8_t(r.Tag())}
	if msg, failed := r.Diagnostic(); failed {
		out.error = C.CString(msg)
	}
	return out
}

func cStringArray(l *bridge.StringList) C.TrucoStringArray {
	n := l.Len()
	if n == 0 {
		l.Release(nil)
		return C.TrucoStringArray{}
	}
	data := (**C.char)(C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof((*C.char)(nil)))))
	slots := unsafe.Slice(data, n)
	for i, s := range l.All() {
		slots[i] = C.CString(s)
	}
	l.Release(nil)
	return C.TrucoStringArray{data: data, length: C.size_t(n)}
}

//export truco_new_builder
func truco_new_builder() C.uintptr_t {
	return C.uintptr_t(cgo.NewHandle(bridge.NewBuilder()))
}

//export truco_add_player
func truco_add_player(builder C.uintptr_t, name *C.char) {
	b := builderFrom(builder)
	_ = b.AddPlayerRaw(takeString(name))
}

//export truco_set_threshold
func truco_set_threshold(builder C.uintptr_t, value C.uint8_t) {
	builderFrom(builder).SetThreshold(uint8(value))
}

// truco_finalize consumes the builder handle on success.
//
//export truco_finalize
func truco_finalize(builder C.uintptr_t) C.TrucoFinalizeResult {
	res := builderFrom(builder).Finalize()
	g, ok := res.Game()
	if !ok {
		return C.TrucoFinalizeResult{tag: C.uint8_t(bridge.FinalizeBuilder), handle: builder}
	}
	cgo.Handle(builder).Delete()
	return C.TrucoFinalizeResult{tag: C.uint8_t(bridge.FinalizeGame), handle: C.uintptr_t(cgo.NewHandle(g))}
}

//export truco_free_builder
func truco_free_builder(builder C.uintptr_t) {
	builderFrom(builder)
	cgo.Handle(builder).Delete()
}

//export truco_free_game
func truco_free_game(game C.uintptr_t) {
	gameFrom(game)
	cgo.Handle(game).Delete()
}

func apply(game C.uintptr_t, action bridge.Action, player *C.char, card uint) C.TrucoResult {
	g := gameFrom(game)
	return cResult(g.ApplyRaw(action, takeString(player), card))
}

//export truco_fold
func truco_fold(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionFold, player, 0)
}

//export truco_accept
func truco_accept(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionAccept, player, 0)
}

//export truco_decline
func truco_decline(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionDecline, player, 0)
}

//export truco_envido
func truco_envido(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionEnvido, player, 0)
}

//export truco_real_envido
func truco_real_envido(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionRealEnvido, player, 0)
}

//export truco_falta_envido
func truco_falta_envido(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionFaltaEnvido, player, 0)
}

//export truco_truco
func truco_truco(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionTruco, player, 0)
}

//export truco_re_truco
func truco_re_truco(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionReTruco, player, 0)
}

//export truco_vale_cuatro
func truco_vale_cuatro(game C.uintptr_t, player *C.char) C.TrucoResult {
	return apply(game, bridge.ActionValeCuatro, player, 0)
}

//export truco_play_card
func truco_play_card(game C.uintptr_t, player *C.char, card C.size_t) C.TrucoResult {
	return apply(game, bridge.ActionPlayCard, player, uint(card))
}

//export truco_valid_commands
func truco_valid_commands(game C.uintptr_t, player *C.char) C.TrucoStringArray {
	g := gameFrom(game)
	return cStringArray(g.ValidCommandsRaw(takeString(player)))
}

//export truco_is_terminal
func truco_is_terminal(game C.uintptr_t) C.bool {
	return C.bool(gameFrom(game).IsTerminal())
}

//export truco_current_winner
func truco_current_winner(game C.uintptr_t) C.TrucoOptionalTeam {
	w := gameFrom(game).CurrentWinner()
	team, _ := w.Get()
	return C.TrucoOptionalTeam{tag: C.uint8_t(w.Tag()), some: C.uint8_t(team)}
}

//export truco_state_text
func truco_state_text(game C.uintptr_t) *C.char {
	return C.CString(gameFrom(game).StateText())
}

//export truco_player_view
func truco_player_view(game C.uintptr_t, player *C.char) C.TrucoTextResult {
	g := gameFrom(game)
	res := g.PlayerViewTextRaw(takeString(player))
	out := C.TrucoTextResult{tag: C.uint8_t(res.Tag())}
	if msg, failed := res.Diagnostic(); failed {
		out.error = C.CString(msg)
		return out
	}
	out.value = C.CString(res.Value())
	return out
}

//export truco_free_string
func truco_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

// truco_free_string_array frees every element, then the array itself.
//
//export truco_free_string_array
func truco_free_string_array(arr C.TrucoStringArray) {
	if arr.data == nil {
		return
	}
	for _, p := range unsafe.Slice(arr.data, int(arr.length)) {
		C.free(unsafe.Pointer(p))
	}
	C.free(unsafe.Pointer(arr.data))
}
