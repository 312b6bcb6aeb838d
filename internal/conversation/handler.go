package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/andrew-nagda/texting-project/internal/models"
	"github.com/andrew-nagda/texting-project/internal/quiz"
	"github.com/andrew-nagda/texting-project/internal/schedule"
	"github.com/andrew-nagda/texting-project/pkg/utils"
)

// UserStore is the slice of the user store the handler needs. Get returns
// (nil, nil) when no user exists for the phone.
type UserStore interface {
	Get(ctx context.Context, phone string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// QuestionSource produces the next outbound question for a track.
type QuestionSource interface {
	NewQuestion(track string) (body string, open *models.OpenQuestion, err error)
}

// QuestionFunc adapts a plain function to QuestionSource.
type QuestionFunc func(track string) (string, *models.OpenQuestion, error)

func (f QuestionFunc) NewQuestion(track string) (string, *models.OpenQuestion, error) {
	return f(track)
}

// Config carries user defaults and the delivery window for schedule
// regeneration after FREQ and TIMEZONE.
type Config struct {
	DefaultTrack    string
	DefaultPerDay   int
	DefaultTimezone string
	StartHour       int
	EndHour         int
}

type Handler struct {
	store     UserStore
	questions QuestionSource
	cfg       Config
	now       func() time.Time
}

func New(store UserStore, questions QuestionSource, cfg Config) *Handler {
	return &Handler{store: store, questions: questions, cfg: cfg, now: time.Now}
}

const (
	replyRetryChoice  = "Please reply with a number or A–E (or HINT)."
	replyRetryNumber  = "Please reply with a number (or HINT)."
	replyNoOpen       = "No open question. Text NEXT for a new question or HELP for commands."
	replyHintNone     = "No open question. Type NEXT to get one."
	replyHintGeneric  = "Hint: identify the one formula/step needed; keep it to one move."
	replyNoQuestions  = "No questions yet for this track."
	replyCantQuestion = "Couldn't fetch a question right now. Try NEXT again in a bit."
	replyCantGrade    = "Couldn't grade that reply. Text NEXT for a fresh question."
	replyUnknownKind  = "Unknown question type. Text NEXT for a fresh question."
	replyStoreDown    = "Something went wrong. Please try again shortly."
	replyNextHint     = "Text NEXT for another question."
)

// WelcomeText is the greeting sent on signup and on START.
func WelcomeText(track string) string {
	return fmt.Sprintf("Welcome to StudyBot! Daily %s practice by text. Reply NEXT for a question now, HELP for commands, STOP to pause.", track)
}

// Handle processes one inbound message and returns the replies to send
// back, in order. Unknown senders are registered with default settings.
// Persistence failures are logged, never surfaced to the sender.
func (h *Handler) Handle(ctx context.Context, from, body string) []string {
	phone := utils.NormalizePhone(from)

	u, err := h.store.Get(ctx, phone)
	if err != nil {
		log.Printf("⚠️ Conversation: loading %s: %v", utils.MaskPhone(phone), err)
		return []string{replyStoreDown}
	}
	dirty := false
	if u == nil {
		u = &models.User{
			Phone:      phone,
			Track:      h.cfg.DefaultTrack,
			PerDay:     h.cfg.DefaultPerDay,
			Timezone:   h.cfg.DefaultTimezone,
			Subscribed: true,
		}
		dirty = true
	}

	replies, mutated := h.execute(u, ParseCommand(body))
	if dirty || mutated {
		if err := h.store.Save(ctx, u); err != nil {
			log.Printf("⚠️ Conversation: saving %s: %v", utils.MaskPhone(phone), err)
		}
	}
	return replies
}

func (h *Handler) execute(u *models.User, cmd Command) ([]string, bool) {
	switch cmd.Kind {
	case CmdStop:
		u.Subscribed = false
		return []string{"You're unsubscribed. No more questions will be sent. Text START to resume."}, true

	case CmdStart:
		u.Subscribed = true
		return []string{"You're subscribed again.", WelcomeText(u.Track)}, true

	case CmdHelp:
		return []string{helpText()}, false

	case CmdTrack:
		return h.setTrack(u, cmd.Arg)

	case CmdFreq:
		return h.setFreq(u, cmd.Arg)

	case CmdTimezone:
		return h.setTimezone(u, cmd.Arg)

	case CmdNext:
		return h.openQuestion(u)

	case CmdStats:
		return []string{statsText(u.Stats)}, false

	case CmdHint:
		return []string{hintText(u.Open)}, false
	}

	if u.Open == nil {
		return []string{replyNoOpen}, false
	}
	return h.grade(u, cmd.Arg)
}

func helpText() string {
	return "Commands:\n" +
		"- HELP : this list\n" +
		"- NEXT : new question now\n" +
		"- TRACK <name> : switch subject\n" +
		"- FREQ <1-3> : questions per day\n" +
		"- TIMEZONE <zone> : e.g. America/New_York\n" +
		"- STATS : your score\n" +
		"- STOP / START : pause / resume\n" +
		"Tracks: " + strings.Join(quiz.Tracks(), ", ")
}

func statsText(s models.Stats) string {
	if s.Asked == 0 {
		return "No questions answered yet. Text NEXT to get started."
	}
	rate := float64(s.Correct) / float64(s.Asked) * 100
	return fmt.Sprintf("You've answered %d of %d correctly (%.0f%%). Current streak: %d.", s.Correct, s.Asked, rate, s.Streak)
}

func hintText(open *models.OpenQuestion) string {
	if open == nil {
		return replyHintNone
	}
	if open.Kind == models.QuestionKindSample {
		if q, ok := quiz.FindQuestion(open.Track, open.QuestionID); ok && q.Tip != "" {
			return "Hint: " + q.Tip
		}
	}
	return replyHintGeneric
}

func (h *Handler) setTrack(u *models.User, arg string) ([]string, bool) {
	if strings.TrimSpace(arg) == "" {
		return []string{"Usage: TRACK <name>. Tracks: " + strings.Join(quiz.Tracks(), ", ")}, false
	}
	track, ok := quiz.CanonicalTrack(arg)
	if !ok {
		return []string{"Unknown track. Valid tracks: " + strings.Join(quiz.Tracks(), ", ")}, false
	}
	u.Track = track

	body, open, err := h.questions.NewQuestion(track)
	if err != nil {
		log.Printf("⚠️ Conversation: question for track %q: %v", track, err)
		return []string{fmt.Sprintf("Track set to %s.", track), replyNoQuestions}, true
	}
	u.Open = open
	return []string{fmt.Sprintf("Track set to %s.", track), body}, true
}

func (h *Handler) setFreq(u *models.User, arg string) ([]string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return []string{"Usage: FREQ <1-3>."}, false
	}
	u.PerDay = models.ClampPerDay(n)
	h.regenerate(u)
	if u.PerDay == 1 {
		return []string{"You'll get 1 question a day."}, true
	}
	return []string{fmt.Sprintf("You'll get %d questions a day.", u.PerDay)}, true
}

func (h *Handler) setTimezone(u *models.User, arg string) ([]string, bool) {
	zone := strings.TrimSpace(arg)
	if zone == "" {
		return []string{"Usage: TIMEZONE <zone>, e.g. TIMEZONE America/Chicago."}, false
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return []string{"Invalid timezone. Try something like America/New_York."}, false
	}
	u.Timezone = zone
	h.regenerate(u)
	return []string{fmt.Sprintf("Timezone set to %s.", zone)}, true
}

// regenerate rebuilds today's schedule so FREQ and TIMEZONE changes take
// effect immediately instead of on the next local day.
func (h *Handler) regenerate(u *models.User) {
	loc := u.Location(h.cfg.DefaultTimezone)
	u.Schedule = schedule.Generate(h.now(), loc, u.PerDay, h.cfg.StartHour, h.cfg.EndHour)
}

func (h *Handler) openQuestion(u *models.User) ([]string, bool) {
	body, open, err := h.questions.NewQuestion(u.Track)
	if errors.Is(err, quiz.ErrNoQuestions) {
		return []string{replyNoQuestions}, false
	}
	if err != nil {
		log.Printf("⚠️ Conversation: question for track %q: %v", u.Track, err)
		return []string{replyCantQuestion}, false
	}
	u.Open = open
	return []string{body}, true
}

// grade routes a non-command reply to the open question's grader. A reply
// the grader cannot interpret leaves the question open for another try;
// a graded reply (either way) closes it and updates stats.
func (h *Handler) grade(u *models.User, raw string) ([]string, bool) {
	switch u.Open.Kind {
	case models.QuestionKindSample:
		q, ok := quiz.FindQuestion(u.Open.Track, u.Open.QuestionID)
		if !ok {
			u.Open = nil
			return []string{replyCantGrade}, true
		}
		if _, ok := quiz.ParseChoice(q.Choices, raw); !ok {
			return []string{replyRetryChoice}, false
		}
		v, err := quiz.GradeSample(u.Open.Track, u.Open.QuestionID, raw)
		if err != nil {
			u.Open = nil
			return []string{replyCantGrade}, true
		}
		h.applyVerdict(u, v.Correct)
		return []string{sampleResult(v)}, true

	case models.QuestionKindMath:
		v, err := quiz.GradeMath(u.Open.QuestionID, raw)
		if errors.Is(err, quiz.ErrNoNumber) {
			return []string{replyRetryNumber}, false
		}
		if err != nil {
			u.Open = nil
			return []string{replyCantGrade}, true
		}
		h.applyVerdict(u, v.Correct)
		return []string{mathResult(v)}, true
	}

	return []string{replyUnknownKind}, false
}

func (h *Handler) applyVerdict(u *models.User, correct bool) {
	u.Stats.Asked++
	if correct {
		u.Stats.Correct++
		u.Stats.Streak++
	} else {
		u.Stats.Streak = 0
	}
	u.Open = nil
}

func sampleResult(v quiz.SampleVerdict) string {
	var lines []string
	if v.Correct {
		lines = append(lines, "Correct.")
	} else if v.CorrectLetter != "" {
		lines = append(lines, fmt.Sprintf("Not quite. The answer was %s) %s.", v.CorrectLetter, v.CorrectAnswer))
	} else {
		lines = append(lines, fmt.Sprintf("Not quite. The answer was %s.", v.CorrectAnswer))
	}
	if v.Rationale != "" {
		lines = append(lines, v.Rationale)
	}
	if v.Tip != "" {
		lines = append(lines, "Tip: "+v.Tip)
	}
	lines = append(lines, replyNextHint)
	return strings.Join(lines, "\n")
}

func mathResult(v quiz.MathVerdict) string {
	var lines []string
	if v.Correct {
		lines = append(lines, "Correct.")
	} else {
		lines = append(lines, "Not quite. Expected "+formatExpected(v.Expected, v.Units)+".")
	}
	if v.Rationale != "" {
		lines = append(lines, v.Rationale)
	}
	lines = append(lines, replyNextHint)
	return strings.Join(lines, "\n")
}

func formatExpected(expected float64, units string) string {
	n := strconv.FormatFloat(expected, 'f', -1, 64)
	switch units {
	case "":
		return n
	case "$":
		return "$" + n
	case "%":
		return n + "%"
	default:
		return n + " " + units
	}
}
