package conversation

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		body string
		kind CommandKind
		arg  string
	}{
		{"STOP", CmdStop, ""},
		{"stop", CmdStop, ""},
		{" Stopall ", CmdStop, ""},
		{"UNSUBSCRIBE", CmdStop, ""},
		{"cancel", CmdStop, ""},
		{"End", CmdStop, ""},
		{"QUIT", CmdStop, ""},
		{"START", CmdStart, ""},
		{"start now", CmdStart, "now"},
		{"HELP", CmdHelp, ""},
		{"h", CmdHelp, ""},
		{"?", CmdHelp, ""},
		{"TRACK LSAT", CmdTrack, "LSAT"},
		{"track investment banking", CmdTrack, "investment banking"},
		{"TRACK", CmdTrack, ""},
		{"FREQ 2", CmdFreq, "2"},
		{"freq  3 ", CmdFreq, "3"},
		{"TIMEZONE America/Chicago", CmdTimezone, "America/Chicago"},
		{"NEXT", CmdNext, ""},
		{"next", CmdNext, ""},
		{"", CmdNext, ""},
		{"   ", CmdNext, ""},
		{"STATS", CmdStats, ""},
		{"score", CmdStats, ""},
		{"HINT", CmdHint, ""},
		{"A", CmdNone, "A"},
		{"50,000", CmdNone, "50,000"},
		{"the answer is B", CmdNone, "the answer is B"},
		{"  free text reply  ", CmdNone, "free text reply"},
	}
	for _, tt := range tests {
		got := ParseCommand(tt.body)
		if got.Kind != tt.kind || got.Arg != tt.arg {
			t.Errorf("ParseCommand(%q) = {%v %q}, want {%v %q}", tt.body, got.Kind, got.Arg, tt.kind, tt.arg)
		}
	}
}
