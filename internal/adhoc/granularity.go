package adhoc

import "fmt"

// Granularity selects how much each definition string carries.
type Granularity int

const (
	// Default renders id|name|kind.
	Default Granularity = iota
	// InlineSignatures renders id|signature-or-name|kind.
	InlineSignatures
	// InlineLogic renders id|signature-or-name|kind[|logic:steps].
	InlineLogic
)

// ParseGranularity accepts the levels 0, 1 and 2.
func ParseGranularity(level int) (Granularity, error) {
	if level < int(Default) || level > int(InlineLogic) {
		return Default, fmt.Errorf("invalid granularity level %d, valid levels are 0, 1, 2", level)
	}
	return Granularity(level), nil
}

func (g Granularity) String() string {
	switch g {
	case Default:
		return "default"
	case InlineSignatures:
		return "signatures"
	case InlineLogic:
		return "logic"
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// FieldCounts returns the accepted field counts per definition string.
func (g Granularity) FieldCounts() (lo, hi int) {
	if g == InlineLogic {
		return 3, 4
	}
	return 3, 3
}
