package marktree

// Bias decides what happens to a mark endpoint sitting exactly at the
// position of a text insertion: BiasLeft keeps it in place, BiasRight
// moves it past the inserted bytes. BiasLeft orders before BiasRight.
type Bias uint8

const (
	// BiasLeft pins the endpoint to its byte.
	BiasLeft Bias = iota
	// BiasRight pushes the endpoint past bytes inserted at it. This is
	// the default for both endpoints.
	BiasRight
)

// String implements fmt.Stringer.
func (b Bias) String() string {
	switch b {
	case BiasLeft:
		return "left"
	case BiasRight:
		return "right"
	default:
		return "invalid"
	}
}
