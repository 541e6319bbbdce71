package truco

const handSize = 3

// Team 两队：偶数座位为 nosotros，奇数座位为 ellos
type Team byte

const (
	TeamUs   Team = 0
	TeamThem Team = 1
)

func (t Team) String() string {
	if t == TeamUs {
		return "nosotros"
	}
	return "ellos"
}

func (t Team) Other() Team { return 1 - t }

func teamForSeat(seat int) Team { return Team(seat % 2) }

// EnvidoCall is one link of the envido chain. Declaration order is raise order.
type EnvidoCall byte

const (
	EnvidoCallEnvido EnvidoCall = iota + 1
	EnvidoCallReal
	EnvidoCallFalta
)

var EnvidoCallDictionary = map[EnvidoCall]string{
	EnvidoCallEnvido: "envido",
	EnvidoCallReal:   "real envido",
	EnvidoCallFalta:  "falta envido",
}

// TrucoLevel is the truco bet in play; a round is worth level+1 points.
type TrucoLevel byte

const (
	TrucoLevelNone TrucoLevel = iota
	TrucoLevelTruco
	TrucoLevelReTruco
	TrucoLevelValeCuatro
)

var TrucoLevelDictionary = map[TrucoLevel]string{
	TrucoLevelNone:       "none",
	TrucoLevelTruco:      "truco",
	TrucoLevelReTruco:    "re truco",
	TrucoLevelValeCuatro: "vale cuatro",
}

func (l TrucoLevel) Points() int { return int(l) + 1 }

type betKind byte

const (
	betEnvido betKind = iota + 1
	betTruco
)

// pendingBet is a call waiting for accept/decline from the other team.
type pendingBet struct {
	kind   betKind
	level  TrucoLevel
	caller Team
	seat   int
	// turn to restore once the bet is answered
	resume int
}
