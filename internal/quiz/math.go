package quiz

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrUnknownQuestionID means a math qid has a kind or shape the grader
// does not recognize.
var ErrUnknownQuestionID = errors.New("unknown question id")

// humanNum groups thousands with commas for question text ($1,200,000).
var humanNum = message.NewPrinter(language.English)

// MathQuestion is a generated mental-math drill. The qid encodes every
// parameter so the grader can recompute the expected value statelessly.
type MathQuestion struct {
	QID       string  `json:"qid"`
	Track     string  `json:"track"`
	Question  string  `json:"question"`
	Units     string  `json:"units"`
	Expected  float64 `json:"-"`
	Tolerance float64 `json:"-"`
}

// MathVerdict is the result of grading a math reply.
type MathVerdict struct {
	Correct   bool    `json:"correct"`
	Expected  float64 `json:"expected"`
	Units     string  `json:"units"`
	Rationale string  `json:"rationale"`
}

// MathTracks lists the tracks that have a drill generator.
func MathTracks() []string {
	return []string{"General", "Consulting", "Investment Banking"}
}

// HasMathTrack reports whether a drill generator exists for the track.
func HasMathTrack(track string) bool {
	switch track {
	case "General", "Consulting", "Investment Banking":
		return true
	}
	return false
}

// NewMathQuestion generates a drill for the track, or nil when the track
// has no generator.
func NewMathQuestion(track string) *MathQuestion {
	switch track {
	case "General":
		return genGeneralMath()
	case "Consulting":
		return genConsultingContext()
	case "Investment Banking":
		return genIBMath()
	}
	return nil
}

func randint(lo, hi int) int {
	return lo + rand.Intn(hi-lo+1)
}

func pickInt(xs []int) int {
	return xs[rand.Intn(len(xs))]
}

func pickFloat(xs []float64) float64 {
	return xs[rand.Intn(len(xs))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Subtraction, percent-of, or quick division.
func genGeneralMath() *MathQuestion {
	switch r := rand.Float64(); {
	case r < 0.4:
		a := randint(120, 999)
		b := randint(20, 119)
		if b > a {
			a, b = b, a
		}
		expected := a - b
		return &MathQuestion{
			QID:       fmt.Sprintf("mm_gen_sub:%d:%d:%d", a, b, expected),
			Track:     "General",
			Question:  fmt.Sprintf("%d - %d = ?", a, b),
			Expected:  float64(expected),
			Tolerance: 0,
		}
	case r < 0.8:
		p := pickInt([]int{4, 5, 6, 7, 8, 9, 10, 12, 15, 20, 25})
		n := randint(30, 499)
		expected := round2(float64(n) * float64(p) / 100)
		return &MathQuestion{
			QID:       fmt.Sprintf("mm_gen_pct:%d:%d:%s", p, n, ftoa(expected)),
			Track:     "General",
			Question:  fmt.Sprintf("%d%% of %d = ?", p, n),
			Expected:  expected,
			Tolerance: math.Max(0.5, 0.02*math.Abs(expected)),
		}
	default:
		num := randint(4000, 90000)
		den := pickInt([]int{12, 24, 36, 48, 60})
		expected := round2(float64(num) / float64(den))
		return &MathQuestion{
			QID:       fmt.Sprintf("mm_gen_div:%d:%d:%s", num, den, ftoa(expected)),
			Track:     "General",
			Question:  fmt.Sprintf("%d ÷ %d = ?", num, den),
			Expected:  expected,
			Tolerance: math.Max(0.02*math.Abs(expected), 0.25),
		}
	}
}

func targetUnits(price, variable, fixed, target int) int {
	cm := price - variable
	return int(math.Ceil(float64(fixed+target) / float64(cm)))
}

func breakevenUnits(price, variable, fixed int) int {
	cm := price - variable
	return int(math.Ceil(float64(fixed) / float64(cm)))
}

// Target-profit volume, breakeven volume, margin percent, or price needed
// for a target margin.
func genConsultingContext() *MathQuestion {
	switch r := rand.Float64(); {
	case r < 0.45:
		price := pickInt([]int{120, 200, 250, 300, 350})
		variable := pickInt([]int{40, 60, 80, 100, 120, 180})
		fixed := pickInt([]int{600000, 800000, 1200000, 1500000})
		target := pickInt([]int{300000, 600000, 900000})
		units := targetUnits(price, variable, fixed, target)
		return &MathQuestion{
			QID:   fmt.Sprintf("mm_cons_vtarget:%d:%d:%d:%d:%d", price, variable, fixed, target, units),
			Track: "Consulting",
			Question: humanNum.Sprintf(
				"A product sells for $%d. Variable cost is $%d. Fixed costs are $%d/yr. What sales volume is needed to earn $%d annual profit?",
				price, variable, fixed, target),
			Expected:  float64(units),
			Tolerance: 0.5,
			Units:     "units",
		}
	case r < 0.75:
		price := pickInt([]int{60, 96, 120, 180})
		variable := pickInt([]int{10, 12, 20, 30})
		fixed := pickInt([]int{240000, 360000, 480000, 600000})
		units := breakevenUnits(price, variable, fixed)
		return &MathQuestion{
			QID:   fmt.Sprintf("mm_cons_breakeven:%d:%d:%d:%d", price, variable, fixed, units),
			Track: "Consulting",
			Question: humanNum.Sprintf(
				"A SaaS company charges $%d/user/year. Variable cost per user is $%d/year. Fixed costs are $%d/year. How many users are needed to break even?",
				price, variable, fixed),
			Expected:  float64(units),
			Tolerance: 0.5,
			Units:     "users",
		}
	case r < 0.9:
		price := pickInt([]int{50, 80, 100, 120, 200, 250, 300})
		variable := pickInt([]int{10, 20, 30, 40, 60, 90, 120})
		margin := math.Round((float64(price-variable)/float64(price))*1000) / 10
		return &MathQuestion{
			QID:   fmt.Sprintf("mm_cons_marginpct:%d:%d:%s", price, variable, ftoa(margin)),
			Track: "Consulting",
			Question: fmt.Sprintf(
				"Price is $%d, variable cost $%d. What is the contribution margin percent?",
				price, variable),
			Expected:  margin,
			Tolerance: 0.5,
			Units:     "%",
		}
	default:
		variable := pickInt([]int{20, 40, 60, 90, 120})
		targetMargin := pickInt([]int{30, 40, 50, 60})
		priceNeeded := round2(float64(variable) / (1 - float64(targetMargin)/100))
		return &MathQuestion{
			QID:   fmt.Sprintf("mm_cons_pricemargin:%d:%d:%s", variable, targetMargin, ftoa(priceNeeded)),
			Track: "Consulting",
			Question: fmt.Sprintf(
				"Variable cost is $%d. What price achieves a %d%% contribution margin?",
				variable, targetMargin),
			Expected:  priceNeeded,
			Tolerance: math.Max(0.01*priceNeeded, 0.5),
			Units:     "$",
		}
	}
}

// IRR/CAGR from an entry amount, exit multiple, and holding period.
func genIBMath() *MathQuestion {
	initial := pickInt([]int{20000, 50000, 75000, 100000})
	multiple := pickFloat([]float64{1.8, 2.0, 2.5, 3.0, 4.0})
	years := pickInt([]int{3, 4, 5, 6, 7})
	final := int(float64(initial) * multiple)
	irrPct := (math.Pow(float64(final)/float64(initial), 1/float64(years)) - 1) * 100
	const tol = 0.5 // percentage points
	return &MathQuestion{
		QID:   fmt.Sprintf("mm_ib_irr:%d:%d:%d:%.4f:%s", initial, final, years, irrPct, ftoa(tol)),
		Track: "Investment Banking",
		Question: humanNum.Sprintf(
			"What is the approximate annualized return (IRR) if an investment grows from $%d to $%d over %d years? (Answer in %%)",
			initial, final, years),
		Expected:  irrPct,
		Tolerance: tol,
		Units:     "%",
	}
}

// FormatMath renders a drill as an outbound message body.
func FormatMath(m *MathQuestion) string {
	return m.Question + "\nReply with a number. (HINT for a nudge)"
}

// GradeMath recomputes the expected value from the qid and grades the
// reply with the kind's tolerance. Percent answers accept 26, 26% and
// 0.26 interchangeably. Returns ErrNoNumber when the reply has no number
// and ErrUnknownQuestionID for qids it cannot decode.
func GradeMath(qid, reply string) (MathVerdict, error) {
	ans, err := ParseNumber(reply)
	if err != nil {
		return MathVerdict{}, err
	}

	parts := strings.Split(qid, ":")
	nums := make([]float64, len(parts))
	for i := 1; i < len(parts); i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		nums[i] = v
	}

	switch parts[0] {
	case "mm_gen_sub":
		if len(parts) != 4 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		expected := nums[3]
		return MathVerdict{
			Correct:   ans == expected,
			Expected:  expected,
			Rationale: "Arithmetic subtraction",
		}, nil

	case "mm_gen_pct":
		if len(parts) != 4 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		expected := nums[3]
		tol := math.Max(0.5, math.Abs(expected)*0.02)
		return MathVerdict{
			Correct:   math.Abs(ans-expected) <= tol,
			Expected:  expected,
			Rationale: "Percent-of calculation",
		}, nil

	case "mm_gen_div":
		if len(parts) != 4 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		expected := nums[3]
		tol := math.Max(0.02*math.Abs(expected), 0.25)
		return MathVerdict{
			Correct:   math.Abs(ans-expected) <= tol,
			Expected:  expected,
			Rationale: "Division / rate calculation",
		}, nil

	case "mm_cons_vtarget":
		if len(parts) != 6 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		price, variable, fixed, target, units := nums[1], nums[2], nums[3], nums[4], nums[5]
		return MathVerdict{
			Correct:  math.Abs(ans-units) <= 0.5,
			Expected: units,
			Units:    "units",
			Rationale: fmt.Sprintf("(Fixed+Target)/CM = (%d+%d)/(%d-%d)",
				int(fixed), int(target), int(price), int(variable)),
		}, nil

	case "mm_cons_breakeven":
		if len(parts) != 5 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		price, variable, fixed, units := nums[1], nums[2], nums[3], nums[4]
		return MathVerdict{
			Correct:  math.Abs(ans-units) <= 0.5,
			Expected: units,
			Units:    "users",
			Rationale: fmt.Sprintf("Breakeven units = Fixed / (Price - Var) = %d/(%d-%d)",
				int(fixed), int(price), int(variable)),
		}, nil

	case "mm_cons_marginpct":
		if len(parts) != 4 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		expected := nums[3]
		// Interpret 40, 40% and 0.40 all as 40 percentage points.
		userPctPts := ans
		if math.Abs(ans) <= 1.5 {
			userPctPts = ans * 100
		}
		return MathVerdict{
			Correct:   math.Abs(userPctPts-expected) <= 0.5,
			Expected:  expected,
			Units:     "%",
			Rationale: "CM% = (P−V)/P × 100",
		}, nil

	case "mm_cons_pricemargin":
		if len(parts) != 4 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		expected := nums[3]
		tol := math.Max(0.01*expected, 0.5)
		return MathVerdict{
			Correct:   math.Abs(ans-expected) <= tol,
			Expected:  expected,
			Units:     "$",
			Rationale: "Solve P from margin% = (P−V)/P → P = V / (1 − m)",
		}, nil

	case "mm_ib_irr":
		if len(parts) != 6 {
			return MathVerdict{}, ErrUnknownQuestionID
		}
		expected, tol := nums[4], nums[5]
		userPctPts := ans
		if math.Abs(ans) < 1.5 {
			userPctPts = ans * 100
		}
		return MathVerdict{
			Correct:   math.Abs(userPctPts-expected) <= tol,
			Expected:  round2(expected),
			Units:     "%",
			Rationale: "IRR ≈ (Final/Initial)^(1/Years) − 1, expressed as %",
		}, nil
	}

	return MathVerdict{}, ErrUnknownQuestionID
}
