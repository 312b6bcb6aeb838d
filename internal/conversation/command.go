// Package conversation turns inbound SMS bodies into state changes and
// reply messages. Command recognition is separated from execution so the
// parser can be tested on its own.
package conversation

import "strings"

// CommandKind enumerates the recognized SMS commands. CmdNone means the
// body is not a command and should be graded against the open question.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdStop
	CmdStart
	CmdHelp
	CmdTrack
	CmdFreq
	CmdTimezone
	CmdNext
	CmdStats
	CmdHint
)

// Command is a parsed inbound body: the recognized kind plus whatever
// followed the command word.
type Command struct {
	Kind CommandKind
	Arg  string
}

var commandWords = map[string]CommandKind{
	"STOP":        CmdStop,
	"STOPALL":     CmdStop,
	"UNSUBSCRIBE": CmdStop,
	"CANCEL":      CmdStop,
	"END":         CmdStop,
	"QUIT":        CmdStop,
	"START":       CmdStart,
	"HELP":        CmdHelp,
	"H":           CmdHelp,
	"?":           CmdHelp,
	"TRACK":       CmdTrack,
	"FREQ":        CmdFreq,
	"TIMEZONE":    CmdTimezone,
	"NEXT":        CmdNext,
	"STATS":       CmdStats,
	"SCORE":       CmdStats,
	"HINT":        CmdHint,
}

// ParseCommand recognizes the first whitespace-delimited token of the
// body, case-insensitively. An empty body counts as NEXT. Anything
// unrecognized comes back as CmdNone with the original body intact.
func ParseCommand(body string) Command {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return Command{Kind: CmdNext}
	}

	word := trimmed
	rest := ""
	if i := strings.IndexFunc(trimmed, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }); i >= 0 {
		word, rest = trimmed[:i], strings.TrimSpace(trimmed[i+1:])
	}

	if kind, ok := commandWords[strings.ToUpper(word)]; ok {
		return Command{Kind: kind, Arg: rest}
	}
	return Command{Kind: CmdNone, Arg: trimmed}
}
