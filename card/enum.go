package card

const CardInvalid Card = 0

// Espada
const (
	CardEspada1  Card = 0x01
	CardEspada2  Card = 0x02
	CardEspada3  Card = 0x03
	CardEspada4  Card = 0x04
	CardEspada5  Card = 0x05
	CardEspada6  Card = 0x06
	CardEspada7  Card = 0x07
	CardEspada10 Card = 0x0A
	CardEspada11 Card = 0x0B
	CardEspada12 Card = 0x0C
)

// Basto
const (
	CardBasto1  Card = 0x11
	CardBasto2  Card = 0x12
	CardBasto3  Card = 0x13
	CardBasto4  Card = 0x14
	CardBasto5  Card = 0x15
	CardBasto6  Card = 0x16
	CardBasto7  Card = 0x17
	CardBasto10 Card = 0x1A
	CardBasto11 Card = 0x1B
	CardBasto12 Card = 0x1C
)

// Oro
const (
	CardOro1  Card = 0x21
	CardOro2  Card = 0x22
	CardOro3  Card = 0x23
	CardOro4  Card = 0x24
	CardOro5  Card = 0x25
	CardOro6  Card = 0x26
	CardOro7  Card = 0x27
	CardOro10 Card = 0x2A
	CardOro11 Card = 0x2B
	CardOro12 Card = 0x2C
)

// Copa
const (
	CardCopa1  Card = 0x31
	CardCopa2  Card = 0x32
	CardCopa3  Card = 0x33
	CardCopa4  Card = 0x34
	CardCopa5  Card = 0x35
	CardCopa6  Card = 0x36
	CardCopa7  Card = 0x37
	CardCopa10 Card = 0x3A
	CardCopa11 Card = 0x3B
	CardCopa12 Card = 0x3C
)

// SpanishDeck is the 40-card deck in suit then rank order.
var SpanishDeck = []Card{
	CardEspada1, CardEspada2, CardEspada3, CardEspada4, CardEspada5, CardEspada6, CardEspada7, CardEspada10, CardEspada11, CardEspada12,
	CardBasto1, CardBasto2, CardBasto3, CardBasto4, CardBasto5, CardBasto6, CardBasto7, CardBasto10, CardBasto11, CardBasto12,
	CardOro1, CardOro2, CardOro3, CardOro4, CardOro5, CardOro6, CardOro7, CardOro10, CardOro11, CardOro12,
	CardCopa1, CardCopa2, CardCopa3, CardCopa4, CardCopa5, CardCopa6, CardCopa7, CardCopa10, CardCopa11, CardCopa12,
}
