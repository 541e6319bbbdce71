package bridge

// Tag discriminates success from failure in every envelope crossing the boundary.
type Tag uint8

const (
	TagOk  Tag = 0
	TagErr Tag = 1
)

// Void is the payload of operations that succeed with nothing to return.
type Void struct{}

// Result is the tagged success/failure envelope. The diagnostic is set if and
// only if the tag is TagErr; only Ok and Fail build values.
type Result[T any] struct {
	tag        Tag
	value      T
	diagnostic *string
}

func Ok[T any](v T) Result[T] {
	return Result[T]{tag: TagOk, value: v}
}

func OkVoid() Result[Void] {
	return Ok(Void{})
}

func Fail[T any](err error) Result[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result[T]{tag: TagErr, diagnostic: &msg}
}

// Capture folds a (value, error) pair into an envelope.
func Capture[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

func (r Result[T]) Tag() Tag   { return r.tag }
func (r Result[T]) IsOk() bool { return r.tag == TagOk }

// Value is the payload; the zero value on failure.
func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Diagnostic() (string, bool) {
	if r.diagnostic == nil {
		return "", false
	}
	return *r.diagnostic, true
}

// OptionTag follows the C layout: Some is 0, None is 1.
type OptionTag uint8

const (
	OptionSome OptionTag = 0
	OptionNone OptionTag = 1
)

// Team is the boundary encoding of the two sides.
type Team uint8

const (
	TeamUs   Team = 0
	TeamThem Team = 1
)

func (t Team) String() string {
	if t == TeamUs {
		return "us"
	}
	return "them"
}

// OptionalTeam answers "who holds the win"; None means undecided.
type OptionalTeam struct {
	tag  OptionTag
	team Team
}

func SomeTeam(t Team) OptionalTeam { return OptionalTeam{tag: OptionSome, team: t} }
func NoTeam() OptionalTeam         { return OptionalTeam{tag: OptionNone} }

func (o OptionalTeam) Tag() OptionTag { return o.tag }

func (o OptionalTeam) Get() (Team, bool) {
	if o.tag != OptionSome {
		return 0, false
	}
	return o.team, true
}
