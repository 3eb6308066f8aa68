package notify

import "strings"

// Generic wording used when a custom message leaves fields empty.
const (
	DefaultGreeting    = "Hello,"
	DefaultServiceText = "Please see the vessel details below:"
	DefaultRequestText = "Please confirm receipt of this information."
)

// Kind keys.
const (
	KindPilotage      = "pilotage"
	KindTowage        = "towage"
	KindLinesmen      = "linesmen"
	KindTerminal      = "terminal"
	KindFreshWater    = "freshWater"
	KindProvisions    = "provisions"
	KindWasteDisposal = "wasteDisposal"
)

// Kind is a fixed e-mail template for one service provider.
type Kind struct {
	Key         string
	Label       string
	DefaultTo   string
	Greeting    string
	ServiceText string
	RequestText string
}

var kinds = []Kind{
	{
		Key:         KindPilotage,
		Label:       "Pilotage Request",
		DefaultTo:   "pilotage@example.com",
		Greeting:    "Dear Pilots,",
		ServiceText: "We kindly request pilotage services for the following vessel:",
		RequestText: "Please confirm pilot availability for the specified movements.",
	},
	{
		Key:         KindTowage,
		Label:       "Tug Request",
		DefaultTo:   "tug@example.com",
		Greeting:    "Hi,",
		ServiceText: "We kindly request your tug services for the following vessel:",
		RequestText: "Please confirm if you can provide tug services at the specified times.",
	},
	{
		Key:         KindLinesmen,
		Label:       "Linesmen Request",
		DefaultTo:   "linesmen@example.com",
		Greeting:    "Hi,",
		ServiceText: "We kindly request your linesmen services for the following vessel:",
		RequestText: "Please confirm if you can provide linesmen services at the specified times.",
	},
	{
		Key:         KindTerminal,
		Label:       "Terminal Readiness Confirmation",
		DefaultTo:   "terminal@example.com",
		Greeting:    "Dear Terminal Operators,",
		ServiceText: "We kindly request confirmation regarding terminal readiness for the following vessel:",
		RequestText: "Please confirm if the terminal is prepared to receive the vessel upon arrival as scheduled.",
	},
	{
		Key:         KindFreshWater,
		Label:       "Fresh Water Request",
		DefaultTo:   "water@example.com",
		Greeting:    "Hello,",
		ServiceText: "Could you please arrange fresh water supply for the following vessel:",
		RequestText: "Please confirm availability and proposed timing for the fresh water supply.",
	},
	{
		Key:         KindProvisions,
		Label:       "Provisions Request",
		DefaultTo:   "provisions@example.com",
		Greeting:    "Hello,",
		ServiceText: "We kindly request provisions supply for the following vessel:",
		RequestText: "Please confirm availability and proposed delivery time.",
	},
	{
		Key:         KindWasteDisposal,
		Label:       "Waste Disposal Request",
		DefaultTo:   "waste@example.com",
		Greeting:    "Hello,",
		ServiceText: "We kindly request waste disposal services for the following vessel:",
		RequestText: "Please confirm availability and proposed collection time.",
	},
}

// Kinds returns the template table in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Lookup finds a kind by key ("freshWater") or label ("Fresh Water Request"),
// ignoring case.
func Lookup(keyOrLabel string) (Kind, bool) {
	s := strings.TrimSpace(keyOrLabel)
	for _, k := range kinds {
		if strings.EqualFold(k.Key, s) || strings.EqualFold(k.Label, s) {
			return k, true
		}
	}
	return Kind{}, false
}
