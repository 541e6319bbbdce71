package truco

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind 命令类型
type CommandKind byte

const (
	CommandNone CommandKind = iota
	CommandFold
	CommandAccept
	CommandDecline
	CommandEnvido
	CommandRealEnvido
	CommandFaltaEnvido
	CommandTruco
	CommandReTruco
	CommandValeCuatro
	CommandPlayCard
)

var CommandDictionary = map[CommandKind]string{
	CommandFold:        "fold",
	CommandAccept:      "accept",
	CommandDecline:     "decline",
	CommandEnvido:      "envido",
	CommandRealEnvido:  "real-envido",
	CommandFaltaEnvido: "falta-envido",
	CommandTruco:       "truco",
	CommandReTruco:     "re-truco",
	CommandValeCuatro:  "vale-cuatro",
	CommandPlayCard:    "play",
}

type Command struct {
	Kind CommandKind
	// Card is the zero-based hand index for CommandPlayCard.
	Card int
}

func (c Command) String() string {
	if c.Kind == CommandPlayCard {
		return fmt.Sprintf("play %d", c.Card)
	}
	if name, ok := CommandDictionary[c.Kind]; ok {
		return name
	}
	return "none"
}

// ParseCommand accepts the strings produced by ValidCommands.
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrUnknownCommand)
	}
	if fields[0] == CommandDictionary[CommandPlayCard] {
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: %q needs a card index", ErrUnknownCommand, s)
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 0 {
			return Command{}, fmt.Errorf("%w: %q", ErrInvalidCard, fields[1])
		}
		return Command{Kind: CommandPlayCard, Card: idx}, nil
	}
	if len(fields) == 1 {
		for kind, name := range CommandDictionary {
			if kind != CommandPlayCard && name == fields[0] {
				return Command{Kind: kind}, nil
			}
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

func envidoCallFor(kind CommandKind) EnvidoCall {
	switch kind {
	case CommandRealEnvido:
		return EnvidoCallReal
	case CommandFaltaEnvido:
		return EnvidoCallFalta
	}
	return EnvidoCallEnvido
}

func trucoLevelFor(kind CommandKind) TrucoLevel {
	switch kind {
	case CommandReTruco:
		return TrucoLevelReTruco
	case CommandValeCuatro:
		return TrucoLevelValeCuatro
	}
	return TrucoLevelTruco
}

// candidateCommands is the fixed order ValidCommands reports in, minus card plays.
var candidateCommands = []CommandKind{
	CommandAccept,
	CommandDecline,
	CommandEnvido,
	CommandRealEnvido,
	CommandFaltaEnvido,
	CommandTruco,
	CommandReTruco,
	CommandValeCuatro,
	CommandFold,
}
