package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
)

type fakeStore struct {
	users   map[string]*models.User
	saves   int
	getErr  error
	saveErr error
}

func newFakeStore(users ...*models.User) *fakeStore {
	f := &fakeStore{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.Phone] = u
	}
	return f
}

func (f *fakeStore) Get(ctx context.Context, phone string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[phone]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Save(ctx context.Context, u *models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	cp := *u
	f.users[u.Phone] = &cp
	return nil
}

type qfunc func(track string) (string, *models.OpenQuestion, error)

func (f qfunc) NewQuestion(track string) (string, *models.OpenQuestion, error) {
	return f(track)
}

func staticQuestions(qid string) QuestionSource {
	return qfunc(func(track string) (string, *models.OpenQuestion, error) {
		return "Which analysis first?\nA) one\nB) two", &models.OpenQuestion{
			Kind:       models.QuestionKindSample,
			Track:      track,
			QuestionID: qid,
		}, nil
	})
}

func testHandler(store UserStore, questions QuestionSource) *Handler {
	h := New(store, questions, Config{
		DefaultTrack:    "Consulting",
		DefaultPerDay:   1,
		DefaultTimezone: "UTC",
		StartHour:       9,
		EndHour:         22,
	})
	h.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return h
}

func subscriber(phone string) *models.User {
	return &models.User{
		Phone:      phone,
		Track:      "Consulting",
		PerDay:     1,
		Timezone:   "UTC",
		Subscribed: true,
	}
}

func TestHandleAutoCreatesUnknownSender(t *testing.T) {
	store := newFakeStore()
	h := testHandler(store, staticQuestions("cons_case_math_1"))

	replies := h.Handle(context.Background(), "5084982017", "HELP")

	if len(replies) != 1 || !strings.Contains(replies[0], "Commands:") {
		t.Fatalf("replies = %q", replies)
	}
	u := store.users["+15084982017"]
	if u == nil {
		t.Fatal("user not created under normalized phone")
	}
	if u.Track != "Consulting" || u.PerDay != 1 || !u.Subscribed {
		t.Errorf("defaults = %+v", u)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestHandleStopAndStart(t *testing.T) {
	store := newFakeStore(subscriber("+15550001111"))
	h := testHandler(store, staticQuestions("cons_case_math_1"))

	replies := h.Handle(context.Background(), "+15550001111", "STOP")
	if len(replies) != 1 || !strings.Contains(replies[0], "START") {
		t.Fatalf("stop replies = %q", replies)
	}
	if store.users["+15550001111"].Subscribed {
		t.Fatal("STOP did not unsubscribe")
	}

	replies = h.Handle(context.Background(), "+15550001111", "start")
	if len(replies) != 2 || !strings.Contains(replies[1], "Welcome") {
		t.Fatalf("start replies = %q", replies)
	}
	if !store.users["+15550001111"].Subscribed {
		t.Fatal("START did not resubscribe")
	}
}

func TestHandleStopSynonyms(t *testing.T) {
	for _, word := range []string{"STOPALL", "unsubscribe", "Cancel", "END", "quit"} {
		store := newFakeStore(subscriber("+15550001112"))
		h := testHandler(store, staticQuestions("cons_case_math_1"))
		h.Handle(context.Background(), "+15550001112", word)
		if store.users["+15550001112"].Subscribed {
			t.Errorf("%q did not unsubscribe", word)
		}
	}
}

func TestHandleHelpListsCommandsAndTracks(t *testing.T) {
	store := newFakeStore(subscriber("+15550001113"))
	h := testHandler(store, staticQuestions("cons_case_math_1"))

	replies := h.Handle(context.Background(), "+15550001113", "?")
	if len(replies) != 1 {
		t.Fatalf("replies = %q", replies)
	}
	for _, want := range []string{"TRACK <name>", "FREQ <1-3>", "Tracks: ", "Consulting", "LSAT"} {
		if !strings.Contains(replies[0], want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestHandleTrackSwitchOpensQuestion(t *testing.T) {
	u := subscriber("+15550001114")
	u.Track = "Consulting"
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_profit_1"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("lsat_lr_1"))

	replies := h.Handle(context.Background(), "+15550001114", "track lsat")

	if len(replies) != 2 || replies[0] != "Track set to LSAT." {
		t.Fatalf("replies = %q", replies)
	}
	saved := store.users["+15550001114"]
	if saved.Track != "LSAT" {
		t.Errorf("track = %s", saved.Track)
	}
	if saved.Open == nil || saved.Open.QuestionID != "lsat_lr_1" {
		t.Errorf("open = %+v, want replaced question", saved.Open)
	}
}

func TestHandleTrackUnknownLeavesStateAlone(t *testing.T) {
	u := subscriber("+15550001115")
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_profit_1"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("lsat_lr_1"))

	replies := h.Handle(context.Background(), "+15550001115", "TRACK UnknownTopic")

	if len(replies) != 1 || !strings.Contains(replies[0], "Valid tracks:") {
		t.Fatalf("replies = %q", replies)
	}
	saved := store.users["+15550001115"]
	if saved.Track != "Consulting" || saved.Open.QuestionID != "cons_profit_1" {
		t.Errorf("state changed: %+v", saved)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestHandleFreq(t *testing.T) {
	store := newFakeStore(subscriber("+15550001116"))
	h := testHandler(store, staticQuestions("cons_case_math_1"))

	replies := h.Handle(context.Background(), "+15550001116", "FREQ 2")
	if len(replies) != 1 || replies[0] != "You'll get 2 questions a day." {
		t.Fatalf("replies = %q", replies)
	}
	saved := store.users["+15550001116"]
	if saved.PerDay != 2 {
		t.Errorf("per_day = %d", saved.PerDay)
	}
	if saved.Schedule.LocalDate != "2026-06-15" || len(saved.Schedule.RemainingUTC) != 2 {
		t.Errorf("schedule not regenerated: %+v", saved.Schedule)
	}

	h.Handle(context.Background(), "+15550001116", "FREQ 9")
	if got := store.users["+15550001116"].PerDay; got != 3 {
		t.Errorf("per_day after clamp = %d, want 3", got)
	}

	saves := store.saves
	replies = h.Handle(context.Background(), "+15550001116", "FREQ lots")
	if len(replies) != 1 || !strings.Contains(replies[0], "Usage: FREQ") {
		t.Fatalf("invalid freq replies = %q", replies)
	}
	if store.saves != saves {
		t.Error("invalid FREQ must not persist")
	}
}

func TestHandleTimezone(t *testing.T) {
	store := newFakeStore(subscriber("+15550001117"))
	h := testHandler(store, staticQuestions("cons_case_math_1"))

	replies := h.Handle(context.Background(), "+15550001117", "TIMEZONE America/Chicago")
	if len(replies) != 1 || replies[0] != "Timezone set to America/Chicago." {
		t.Fatalf("replies = %q", replies)
	}
	saved := store.users["+15550001117"]
	if saved.Timezone != "America/Chicago" {
		t.Errorf("timezone = %s", saved.Timezone)
	}
	if len(saved.Schedule.RemainingUTC) != 1 {
		t.Errorf("schedule not regenerated: %+v", saved.Schedule)
	}

	replies = h.Handle(context.Background(), "+15550001117", "TIMEZONE Mars/Crater")
	if !strings.Contains(replies[0], "Invalid timezone") {
		t.Fatalf("replies = %q", replies)
	}
	if store.users["+15550001117"].Timezone != "America/Chicago" {
		t.Error("invalid zone overwrote timezone")
	}
}

func TestHandleNextReplacesOpenQuestion(t *testing.T) {
	u := subscriber("+15550001118")
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_profit_1"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("cons_seg_1"))

	for _, body := range []string{"NEXT", ""} {
		replies := h.Handle(context.Background(), "+15550001118", body)
		if len(replies) != 1 || !strings.Contains(replies[0], "Which analysis first?") {
			t.Fatalf("body %q replies = %q", body, replies)
		}
		saved := store.users["+15550001118"]
		if saved.Open == nil || saved.Open.QuestionID != "cons_seg_1" {
			t.Fatalf("body %q open = %+v", body, saved.Open)
		}
	}
}

func TestHandleFallbackWithoutOpenQuestion(t *testing.T) {
	store := newFakeStore(subscriber("+15550001119"))
	h := testHandler(store, staticQuestions("cons_case_math_1"))

	replies := h.Handle(context.Background(), "+15550001119", "hello there")
	if len(replies) != 1 || replies[0] != replyNoOpen {
		t.Fatalf("replies = %q", replies)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestHandleGradeSampleCorrect(t *testing.T) {
	u := subscriber("+15550001120")
	u.Stats = models.Stats{Asked: 4, Correct: 2, Streak: 2}
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_case_math_1"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001120", "C")

	if len(replies) != 1 {
		t.Fatalf("replies = %q", replies)
	}
	if !strings.HasPrefix(replies[0], "Correct.") {
		t.Errorf("reply = %q", replies[0])
	}
	for _, want := range []string{"Breakeven units", "Tip: ", "Text NEXT"} {
		if !strings.Contains(replies[0], want) {
			t.Errorf("reply missing %q", want)
		}
	}
	saved := store.users["+15550001120"]
	if saved.Open != nil {
		t.Error("grading must close the open question")
	}
	if saved.Stats.Asked != 5 || saved.Stats.Correct != 3 || saved.Stats.Streak != 3 {
		t.Errorf("stats = %+v", saved.Stats)
	}
}

func TestHandleGradeSampleIncorrectResetsStreak(t *testing.T) {
	u := subscriber("+15550001121")
	u.Stats = models.Stats{Asked: 9, Correct: 9, Streak: 9}
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_case_math_1"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001121", "A")

	if !strings.HasPrefix(replies[0], "Not quite. The answer was C) 50,000.") {
		t.Errorf("reply = %q", replies[0])
	}
	saved := store.users["+15550001121"]
	if saved.Stats.Asked != 10 || saved.Stats.Correct != 9 || saved.Stats.Streak != 0 {
		t.Errorf("stats = %+v", saved.Stats)
	}
	if saved.Open != nil {
		t.Error("incorrect grade must still close the question")
	}
}

func TestHandleGradeSampleUnparseableKeepsOpen(t *testing.T) {
	u := subscriber("+15550001122")
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_case_math_1"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001122", "maybe the blue one?")

	if len(replies) != 1 || replies[0] != replyRetryChoice {
		t.Fatalf("replies = %q", replies)
	}
	saved := store.users["+15550001122"]
	if saved.Open == nil || saved.Stats.Asked != 0 {
		t.Errorf("retry branch mutated state: %+v", saved)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestHandleGradeMath(t *testing.T) {
	qid := "mm_cons_vtarget:100:60:1600000:400000:50000"
	open := func() *models.OpenQuestion {
		return &models.OpenQuestion{Kind: models.QuestionKindMath, Track: "Consulting", QuestionID: qid}
	}

	u := subscriber("+15550001123")
	u.Open = open()
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001123", "50,000")
	if !strings.HasPrefix(replies[0], "Correct.") {
		t.Errorf("reply = %q", replies[0])
	}
	if got := store.users["+15550001123"].Stats; got.Asked != 1 || got.Correct != 1 || got.Streak != 1 {
		t.Errorf("stats = %+v", got)
	}

	// Reopen and miss: the reply must state the expected value and units.
	cur := store.users["+15550001123"]
	cur.Open = open()
	replies = h.Handle(context.Background(), "+15550001123", "49000")
	if !strings.HasPrefix(replies[0], "Not quite. Expected 50000 units.") {
		t.Errorf("reply = %q", replies[0])
	}
	if got := store.users["+15550001123"].Stats; got.Asked != 2 || got.Correct != 1 || got.Streak != 0 {
		t.Errorf("stats = %+v", got)
	}

	// Reopen with an unparseable reply: open stays, stats untouched.
	cur = store.users["+15550001123"]
	cur.Open = open()
	replies = h.Handle(context.Background(), "+15550001123", "not sure")
	if replies[0] != replyRetryNumber {
		t.Errorf("reply = %q", replies[0])
	}
	saved := store.users["+15550001123"]
	if saved.Open == nil || saved.Stats.Asked != 2 {
		t.Errorf("retry branch mutated state: %+v", saved)
	}
}

func TestHandleGradeMathUnitFormatting(t *testing.T) {
	tests := []struct {
		qid  string
		want string
	}{
		{"mm_cons_marginpct:100:60:40", "Not quite. Expected 40%."},
		{"mm_cons_pricemargin:60:40:100", "Not quite. Expected $100."},
		{"mm_gen_sub:500:120:380", "Not quite. Expected 380."},
	}
	for _, tt := range tests {
		u := subscriber("+15550001124")
		u.Open = &models.OpenQuestion{Kind: models.QuestionKindMath, Track: "Consulting", QuestionID: tt.qid}
		store := newFakeStore(u)
		h := testHandler(store, staticQuestions("unused"))

		replies := h.Handle(context.Background(), "+15550001124", "123456")
		if !strings.HasPrefix(replies[0], tt.want) {
			t.Errorf("qid %s reply = %q, want prefix %q", tt.qid, replies[0], tt.want)
		}
	}
}

func TestHandleGradeUnknownKind(t *testing.T) {
	u := subscriber("+15550001125")
	u.Open = &models.OpenQuestion{Kind: "essay", Track: "Consulting", QuestionID: "x"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001125", "some answer")
	if replies[0] != replyUnknownKind {
		t.Fatalf("replies = %q", replies)
	}
	if got := store.users["+15550001125"].Stats; got.Asked != 0 {
		t.Errorf("stats mutated: %+v", got)
	}
}

func TestHandleGradeVanishedQuestion(t *testing.T) {
	u := subscriber("+15550001126")
	u.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_gone"}
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001126", "A")
	if replies[0] != replyCantGrade {
		t.Fatalf("replies = %q", replies)
	}
	saved := store.users["+15550001126"]
	if saved.Open != nil {
		t.Error("unusable open question should be cleared")
	}
	if saved.Stats.Asked != 0 {
		t.Errorf("stats mutated: %+v", saved.Stats)
	}
}

func TestHandleHint(t *testing.T) {
	u := subscriber("+15550001127")
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001127", "HINT")
	if replies[0] != replyHintNone {
		t.Fatalf("no-open hint = %q", replies)
	}

	cur := store.users["+15550001127"]
	cur.Open = &models.OpenQuestion{Kind: models.QuestionKindSample, Track: "Consulting", QuestionID: "cons_case_math_1"}
	replies = h.Handle(context.Background(), "+15550001127", "hint")
	if !strings.HasPrefix(replies[0], "Hint: ") || !strings.Contains(replies[0], "Units*CM") {
		t.Errorf("sample hint = %q", replies[0])
	}
	if store.users["+15550001127"].Open == nil {
		t.Error("hint must keep the question open")
	}

	cur = store.users["+15550001127"]
	cur.Open = &models.OpenQuestion{Kind: models.QuestionKindMath, Track: "Consulting", QuestionID: "mm_gen_sub:500:120:380"}
	replies = h.Handle(context.Background(), "+15550001127", "HINT")
	if replies[0] != replyHintGeneric {
		t.Errorf("math hint = %q", replies[0])
	}
}

func TestHandleStats(t *testing.T) {
	u := subscriber("+15550001128")
	store := newFakeStore(u)
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001128", "STATS")
	if !strings.Contains(replies[0], "No questions answered yet") {
		t.Errorf("empty stats = %q", replies[0])
	}

	cur := store.users["+15550001128"]
	cur.Stats = models.Stats{Asked: 5, Correct: 3, Streak: 2}
	replies = h.Handle(context.Background(), "+15550001128", "score")
	if !strings.Contains(replies[0], "3 of 5") || !strings.Contains(replies[0], "60%") || !strings.Contains(replies[0], "streak: 2") {
		t.Errorf("stats = %q", replies[0])
	}
}

func TestHandleStoreFailures(t *testing.T) {
	store := newFakeStore(subscriber("+15550001129"))
	store.getErr = errors.New("db down")
	h := testHandler(store, staticQuestions("unused"))

	replies := h.Handle(context.Background(), "+15550001129", "HELP")
	if len(replies) != 1 || replies[0] != replyStoreDown {
		t.Fatalf("get-error replies = %q", replies)
	}

	store.getErr = nil
	store.saveErr = errors.New("db down")
	replies = h.Handle(context.Background(), "+15550001129", "STOP")
	if len(replies) != 1 || !strings.Contains(replies[0], "unsubscribed") {
		t.Fatalf("save-error replies = %q", replies)
	}
}
