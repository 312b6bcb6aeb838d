package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrew-nagda/texting-project/internal/quiz"
)

func TestQuizSample(t *testing.T) {
	initTest(t, newFakeStore(), nil)

	r := httptest.NewRequest("GET", "/quiz/sample?track=lsat", nil)
	rec := httptest.NewRecorder()
	QuizSample(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var resp QuizSampleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Track != "LSAT" || resp.QID == "" || resp.Question == "" || len(resp.Choices) == 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if _, ok := quiz.FindQuestion("LSAT", resp.QID); !ok {
		t.Fatalf("qid %q not in the LSAT bank", resp.QID)
	}

	r = httptest.NewRequest("GET", "/quiz/sample?track=Astrology", nil)
	rec = httptest.NewRecorder()
	QuizSample(rec, r)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != "Invalid track" {
		t.Fatalf("invalid track: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestQuizGrade(t *testing.T) {
	initTest(t, newFakeStore(), nil)

	rec := postJSON(t, QuizGrade, "/quiz/grade",
		`{"track":"Consulting","qid":"cons_case_math_1","answer":"C"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp QuizGradeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !resp.Correct || resp.CorrectAnswer != "50,000" || resp.CorrectLetter != "C" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Rationale == "" || resp.Tip == "" {
		t.Fatalf("rationale/tip missing: %+v", resp)
	}

	rec = postJSON(t, QuizGrade, "/quiz/grade",
		`{"track":"Consulting","qid":"cons_case_math_1","answer":"A"}`)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Correct {
		t.Fatal("wrong letter graded correct")
	}

	rec = postJSON(t, QuizGrade, "/quiz/grade",
		`{"track":"Consulting","qid":"cons_gone","answer":"A"}`)
	if rec.Code != http.StatusOK || decodeError(t, rec) != "Question not found" {
		t.Fatalf("missing question: code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, QuizGrade, "/quiz/grade", `{"track":"Consulting","qid":"","answer":"A"}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != "qid and answer required" {
		t.Fatalf("missing qid: code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, QuizGrade, "/quiz/grade", `{"track":"Nope","qid":"x","answer":"A"}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != "Invalid track" {
		t.Fatalf("bad track: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMathSample(t *testing.T) {
	initTest(t, newFakeStore(), nil)

	// Track defaults to General.
	r := httptest.NewRequest("GET", "/math/sample", nil)
	rec := httptest.NewRecorder()
	MathSample(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp struct {
		QID      string `json:"qid"`
		Track    string `json:"track"`
		Question string `json:"question"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Track != "General" || resp.QID == "" || resp.Question == "" {
		t.Fatalf("resp = %+v", resp)
	}
	if body := rec.Body.String(); len(body) > 0 && (json.Valid(rec.Body.Bytes()) && (containsField(rec.Body.Bytes(), "expected") || containsField(rec.Body.Bytes(), "tolerance"))) {
		t.Fatalf("answer fields leaked: %s", body)
	}

	r = httptest.NewRequest("GET", "/math/sample?track=ib", nil)
	rec = httptest.NewRecorder()
	MathSample(rec, r)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Track != "Investment Banking" {
		t.Fatalf("ib shorthand: %+v", resp)
	}

	r = httptest.NewRequest("GET", "/math/sample?track=LSAT", nil)
	rec = httptest.NewRecorder()
	MathSample(rec, r)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != "Invalid track" {
		t.Fatalf("non-generator track: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func containsField(body []byte, field string) bool {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	_, ok := m[field]
	return ok
}

func TestMathGrade(t *testing.T) {
	initTest(t, newFakeStore(), nil)

	rec := postJSON(t, MathGrade, "/math/grade",
		`{"track":"Consulting","qid":"mm_cons_breakeven:120:20:240000:2400","answer":"2,400"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
	}
	var verdict struct {
		Correct  bool    `json:"correct"`
		Expected float64 `json:"expected"`
		Units    string  `json:"units"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !verdict.Correct || verdict.Expected != 2400 || verdict.Units != "users" {
		t.Fatalf("verdict = %+v", verdict)
	}

	rec = postJSON(t, MathGrade, "/math/grade",
		`{"track":"General","qid":"mm_gen_sub:500:120:380","answer":"379"}`)
	json.Unmarshal(rec.Body.Bytes(), &verdict)
	if verdict.Correct {
		t.Fatal("out-of-tolerance answer graded correct")
	}

	rec = postJSON(t, MathGrade, "/math/grade",
		`{"track":"General","qid":"mm_gen_sub:500:120:380","answer":"dunno"}`)
	if got := decodeError(t, rec); got != "Could not parse numeric answer." {
		t.Fatalf("unparseable: %q", got)
	}

	rec = postJSON(t, MathGrade, "/math/grade",
		`{"track":"General","qid":"mm_mystery:1:2","answer":"3"}`)
	if got := decodeError(t, rec); got != "Unknown question id" {
		t.Fatalf("unknown qid: %q", got)
	}

	rec = postJSON(t, MathGrade, "/math/grade", `{"track":"LSAT","qid":"x","answer":"1"}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec) != "Invalid track" {
		t.Fatalf("bad track: code=%d body=%s", rec.Code, rec.Body.String())
	}
}
