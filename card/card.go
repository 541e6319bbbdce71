package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Espada, 1:Basto, 2:Oro, 3:Copa)
// - 低4位: 点数 (1..7, 10:sota, 11:caballo, 12:rey)
type Card byte

func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return fmt.Sprintf("%d %s", c.Rank(), c.Suit())
}

// Rank 获取牌面值 1-7, 10-12
func (c Card) Rank() byte {
	return byte(c & 0x0F)
}

// Suit 花色
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Valid reports whether c is one of the 40 cards of the Spanish deck.
func (c Card) Valid() bool {
	if c.Suit() > Copa {
		return false
	}
	r := c.Rank()
	return (r >= 1 && r <= 7) || (r >= 10 && r <= 12)
}

// IsFigure reports sota, caballo and rey, which count zero for envido.
func (c Card) IsFigure() bool {
	return c.Rank() >= 10
}

// EnvidoValue 返回用于计算 envido 的点数
func (c Card) EnvidoValue() int {
	if c.IsFigure() {
		return 0
	}
	return int(c.Rank())
}

// TrucoRank orders cards for trick resolution. Higher wins; equal ranks tie.
func (c Card) TrucoRank() int {
	switch c {
	case CardEspada1:
		return 14
	case CardBasto1:
		return 13
	case CardEspada7:
		return 12
	case CardOro7:
		return 11
	}
	switch c.Rank() {
	case 3:
		return 10
	case 2:
		return 9
	case 1:
		return 8
	case 12:
		return 7
	case 11:
		return 6
	case 10:
		return 5
	case 7:
		return 4
	case 6:
		return 3
	case 5:
		return 2
	case 4:
		return 1
	}
	return 0
}

// ParseCard 将字符串 (如 "1 espada", "7oro", "12c") 转换为 Card 常量
func ParseCard(s string) (Card, error) {
	raw := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == 0 || i == len(raw) {
		return CardInvalid, fmt.Errorf("invalid card string: %s", s)
	}
	rank, err := strconv.Atoi(raw[:i])
	if err != nil {
		return CardInvalid, fmt.Errorf("invalid rank: %s", raw[:i])
	}

	var suit Suit
	switch raw[i:] {
	case "e", "espada", "espadas":
		suit = Espada
	case "b", "basto", "bastos":
		suit = Basto
	case "o", "oro", "oros":
		suit = Oro
	case "c", "copa", "copas":
		suit = Copa
	default:
		return CardInvalid, fmt.Errorf("invalid suit: %s", raw[i:])
	}

	c := Card(byte(suit)<<4 | byte(rank))
	if rank > 12 || !c.Valid() {
		return CardInvalid, fmt.Errorf("invalid rank: %d", rank)
	}
	return c, nil
}
