package quiz

import (
	"sort"
	"strings"
)

// Question is one knowledge-bank entry. Answer holds the full text of the
// correct choice; grading also accepts the letter or 1-based index.
type Question struct {
	ID        string   `json:"id"`
	Q         string   `json:"q"`
	Choices   []string `json:"choices"`
	Answer    string   `json:"answer"`
	Rationale string   `json:"rationale"`
	Tip       string   `json:"tip"`
}

var questionBanks = map[string][]Question{
	"Consulting": {
		{
			ID: "cons_profit_1",
			Q:  "A client’s profits are down despite flat revenue. Which analysis should you run first?",
			Choices: []string{
				"Market sizing",
				"PESTLE analysis",
				"Price elasticity",
				"Cost structure (variable vs fixed)",
			},
			Answer:    "Cost structure (variable vs fixed)",
			Rationale: "If revenue is flat but profit falls, costs likely changed. Break down fixed vs variable costs, then drill into drivers.",
			Tip:       "Rehearse a profitability tree: Revenue → Price × Volume; Costs → Fixed vs Variable; then list 2–3 hypotheses per branch.",
		},
		{
			ID: "cons_market_1",
			Q:  "Your client is entering a new market. What is the FIRST high-level question?",
			Choices: []string{
				"What is the regulatory barrier?",
				"What is the market size and growth?",
				"What is the product roadmap?",
				"What are the distribution partners?",
			},
			Answer:    "What is the market size and growth?",
			Rationale: "Market attractiveness (size & growth) is the gate before execution details.",
			Tip:       "Estimate TAM/SAM/SOM with one quick bottom-up and one top-down triangulation.",
		},
		{
			ID:        "cons_price_1",
			Q:         "If contribution margin is low, which lever MOST directly improves it?",
			Choices:   []string{"Increase fixed costs", "Increase price", "Reduce overhead allocation", "Increase capex"},
			Answer:    "Increase price",
			Rationale: "Contribution margin = Price − Variable cost; changing price or variable cost affects it directly.",
			Tip:       "List price and variable cost levers; quantify CM uplift per lever to prioritize.",
		},
		{
			ID:        "cons_seg_1",
			Q:         "Your client’s conversion rate is falling overall, but Segment A improved. What’s the most likely phenomenon?",
			Choices:   []string{"Price elasticity dropped", "Ad creative worsened", "Mix shift toward weaker segments", "Cohort retention improved"},
			Answer:    "Mix shift toward weaker segments",
			Rationale: "Aggregate decline with segment improvement often implies a mix shift toward worse-performing segments.",
			Tip:       "Do a mix decomposition: ∑(segment share × segment conversion).",
		},
		{
			ID:        "cons_ops_1",
			Q:         "Lead times are up while capacity is unchanged. Which is the BEST initial diagnostic?",
			Choices:   []string{"Value stream mapping", "PESTLE analysis", "Blue Ocean strategy", "VRIO analysis"},
			Answer:    "Value stream mapping",
			Rationale: "Operational delay → map process steps, inventories, and bottlenecks to locate waste.",
			Tip:       "Time each step, quantify WIP and rework, then test bottleneck relief scenarios.",
		},
		{
			ID:        "cons_case_math_1",
			Q:         "A product sells for $100 with variable cost $60. Fixed costs are $2M. What volume to break even?",
			Choices:   []string{"33,333", "40,000", "50,000", "20,000"},
			Answer:    "50,000",
			Rationale: "Breakeven units = Fixed / (Price − Var) = 2,000,000 / 40 = 50,000.",
			Tip:       "Remember: Units*CM = Fixed + Profit Target.",
		},
		{
			ID:        "cons_case_math_2",
			Q:         "A growth project requires $3M fixed cost, CM per unit $25, target profit $1M. Units to target?",
			Choices:   []string{"80,000", "120,000", "160,000", "200,000"},
			Answer:    "160,000",
			Rationale: "Units = (Fixed + Target)/CM = (3M+1M)/25 = 160k.",
			Tip:       "Convert to round numbers; solve in thousands to speed up.",
		},
	},

	"Investment Banking": {
		{
			ID:        "ib_ev_1",
			Q:         "Which metric best normalizes capital structure across comparable companies?",
			Choices:   []string{"P/E", "EV/EBITDA", "Price/Sales", "Price/Book"},
			Answer:    "EV/EBITDA",
			Rationale: "EV reflects debt and cash; EBITDA approximates core operating profit.",
			Tip:       "Practice converting Market Cap → EV: add net debt & minorities; subtract cash.",
		},
		{
			ID:        "ib_dcf_1",
			Q:         "In a DCF, which change most directly reduces the present value?",
			Choices:   []string{"Lower terminal growth", "Higher working capital", "Higher discount rate (WACC)", "Lower CapEx"},
			Answer:    "Higher discount rate (WACC)",
			Rationale: "Higher WACC reduces PV of all cash flows.",
			Tip:       "Run a sensitivity table: PV vs WACC and terminal growth.",
		},
		{
			ID: "ib_leverage_1",
			Q:  "Which statement about leverage is MOST accurate?",
			Choices: []string{
				"Higher debt always lowers WACC",
				"Higher debt increases equity risk and can raise WACC beyond a point",
				"Higher debt does not affect beta",
				"Higher debt lowers equity cost",
			},
			Answer:    "Higher debt increases equity risk and can raise WACC beyond a point",
			Rationale: "Tax shields can lower WACC at first, but financial distress risk eventually raises it.",
			Tip:       "Know the U-shaped WACC intuition vs leverage.",
		},
		{
			ID:        "ib_acc_1",
			Q:         "Which item INCREASES Enterprise Value when calculating from equity value?",
			Choices:   []string{"Cash", "Minority interest", "Preferred dividends", "Treasury stock"},
			Answer:    "Minority interest",
			Rationale: "EV = Equity Value + Net Debt + Preferred + Minority Interest − Cash.",
			Tip:       "Memorize the EV bridge and why each component is included/excluded.",
		},
		{
			ID:        "ib_merger_1",
			Q:         "A stock-for-stock deal shows combined EPS rising, but operating income is unchanged. This is most likely:",
			Choices:   []string{"True accretion from synergies", "Accretion from accounting/denominator effects", "No accretion", "Cash tax benefit"},
			Answer:    "Accretion from accounting/denominator effects",
			Rationale: "EPS accretion without operating improvement is often mix/denominator, not true value creation.",
			Tip:       "Check pro forma share count, purchase accounting, and cost of financing vs target yield.",
		},
		{
			ID:        "ib_workingcap_1",
			Q:         "All else equal, an increase in NWC today does what to FCF in a DCF?",
			Choices:   []string{"Increases FCF", "Decreases FCF", "No change", "Only impacts terminal value"},
			Answer:    "Decreases FCF",
			Rationale: "ΔNWC is a cash outflow in the period it rises.",
			Tip:       "Remember: FCF to firm often uses −ΔNWC in the formula.",
		},
	},

	"High Finance": {
		{
			ID:        "hf_risk_1",
			Q:         "Which best hedges a USD receivable due in 6 months?",
			Choices:   []string{"USD put option", "USD call option", "Short USD forward", "Long USD forward"},
			Answer:    "Short USD forward",
			Rationale: "Lock in selling price for future USD; short forward hedges a receivable.",
			Tip:       "Match direction: receivable → short, payable → long (in the currency).",
		},
		{
			ID:        "hf_bonds_1",
			Q:         "When yields rise, bond prices generally:",
			Choices:   []string{"Rise", "Fall", "Remain constant", "Become more volatile only for short duration"},
			Answer:    "Fall",
			Rationale: "Inverse price–yield relationship.",
			Tip:       "Longer duration → more sensitivity.",
		},
		{
			ID:        "hf_duration_1",
			Q:         "Which portfolio change MOST reduces interest rate sensitivity?",
			Choices:   []string{"Increase duration", "Decrease duration", "Increase convexity", "Increase coupon"},
			Answer:    "Decrease duration",
			Rationale: "Lower duration lowers price sensitivity to yield changes.",
			Tip:       "Compare Macaulay/modified duration, know the convexity effect directionally.",
		},
		{
			ID:        "hf_options_1",
			Q:         "All else equal, which increases a call option’s value?",
			Choices:   []string{"Lower volatility", "Lower interest rates", "Higher underlying price", "Higher dividend yield"},
			Answer:    "Higher underlying price",
			Rationale: "Calls gain as the underlying rises (and with higher vol).",
			Tip:       "Greeks intuition: Delta ≈ +, Vega ≈ +, Theta ≈ −, Rho ≈ + for calls.",
		},
		{
			ID:        "hf_fx_1",
			Q:         "Company owes €5M in 90 days. Best plain-vanilla hedge?",
			Choices:   []string{"Long EUR forward", "Short EUR forward", "Buy EUR call", "Sell EUR put"},
			Answer:    "Long EUR forward",
			Rationale: "You need to buy EUR later → go long EUR forward to lock rate.",
			Tip:       "Receivable vs payable; which side of the forward locks the needed exposure?",
		},
	},

	"GMAT": {
		{
			ID:        "gmat_cr_1",
			Q:         "Critical Reasoning: The argument concludes that raising bus fares will increase revenue. What’s a common flaw?",
			Choices:   []string{"Causal confusion", "Sampling bias", "Ignored price sensitivity (elasticity)", "Equivocation"},
			Answer:    "Ignored price sensitivity (elasticity)",
			Rationale: "Higher prices can reduce ridership; revenue may fall if demand is elastic.",
			Tip:       "List missing assumptions about demand, substitutes, and segments.",
		},
		{
			ID:        "gmat_ps_1",
			Q:         "If x is even and y is odd, which must be odd?",
			Choices:   []string{"x+y", "x−y", "xy", "x/2"},
			Answer:    "x+y",
			Rationale: "Even + Odd = Odd; other expressions may be even.",
			Tip:       "Memorize parity rules and test with x=2, y=1.",
		},
	},

	"GRE": {
		{
			ID:        "gre_quant_1",
			Q:         "Which is prime?",
			Choices:   []string{"21", "29", "39", "51"},
			Answer:    "29",
			Rationale: "29 is prime; others are divisible by 3 or other factors.",
			Tip:       "Memorize primes under 60; use quick divisibility rules.",
		},
		{
			ID:        "gre_verbal_1",
			Q:         "Choose the best pair of synonyms:",
			Choices:   []string{"Loquacious – Taciturn", "Soporific – Sleep-inducing", "Cacophonous – Harmonious", "Mundane – Extraordinary"},
			Answer:    "Soporific – Sleep-inducing",
			Rationale: "Only that pair matches in meaning.",
			Tip:       "Eliminate antonyms; look for precise, not approximate matches.",
		},
	},

	"SAT": {
		{
			ID:        "sat_math_1",
			Q:         "What is the slope of the line through (2,3) and (6,11)?",
			Choices:   []string{"1", "2", "3", "4"},
			Answer:    "2",
			Rationale: "Slope = (11-3)/(6-2) = 8/4 = 2.",
			Tip:       "Practice slope, midpoint, and distance formula; watch signs carefully.",
		},
		{
			ID: "sat_ebrw_1",
			Q:  "Choose the most concise correction: “Due to the fact that prices rose, consumers subsequently bought less.”",
			Choices: []string{
				"Because prices rose, consumers bought less.",
				"Since prices rose, consumers consequently bought less.",
				"Due to prices rising, consumers bought less.",
				"Consumers bought less, due to prices rising.",
			},
			Answer:    "Because prices rose, consumers bought less.",
			Rationale: "Concise and direct; avoids redundancy.",
			Tip:       "Prefer active, concise phrasing; remove filler words.",
		},
	},

	"ACT": {
		{
			ID: "act_english_1",
			Q:  "Choose the best revision: “Running late the bus was missed by us.”",
			Choices: []string{
				"Running late, we missed the bus.",
				"Because we were running late, the bus was missed.",
				"We missed the bus running late.",
				"Running late, the bus was missed.",
			},
			Answer:    "Running late, we missed the bus.",
			Rationale: "Intro participial phrase must modify the subject that follows; avoid passive voice/dangling modifiers.",
			Tip:       "Scan for dangling modifiers and passive voice; prefer concise, active constructions.",
		},
		{
			ID:        "act_math_1",
			Q:         "If f(x)=2x^2−3x+1, what is f(3)?",
			Choices:   []string{"10", "11", "12", "13"},
			Answer:    "10",
			Rationale: "f(3)=2*9 − 9 + 1 = 18 − 9 + 1 = 10.",
			Tip:       "Plug carefully; check order of operations.",
		},
	},

	"LSAT": {
		{
			ID:        "lsat_lr_1",
			Q:         "A conclusion is likely flawed if it generalizes from a small survey to a population. This flaw is:",
			Choices:   []string{"Ad hominem", "Circular reasoning", "Sampling bias", "Mistaken cause and effect"},
			Answer:    "Sampling bias",
			Rationale: "Small or non-representative sample cannot justify population-level conclusions.",
			Tip:       "Spot leaps from limited evidence to broad claims; ask about representativeness.",
		},
		{
			ID: "lsat_lr_2",
			Q:  "Which answer choice would MOST strengthen a causal claim?",
			Choices: []string{
				"Show correlation between the variables",
				"Rule out plausible alternative causes",
				"Show the effect occurs without the cause",
				"Show a small sample replicated the effect once",
			},
			Answer:    "Rule out plausible alternative causes",
			Rationale: "Causal strengthening often requires eliminating alternative explanations.",
			Tip:       "For cause ↔ effect, check temporality, mechanism, and confounders.",
		},
		{
			ID:        "lsat_lr_3",
			Q:         "An argument that assumes what it tries to prove commits which flaw?",
			Choices:   []string{"Equivocation", "Begging the question", "Ad hominem", "Straw man"},
			Answer:    "Begging the question",
			Rationale: "Circular reasoning assumes the conclusion in the premises.",
			Tip:       "Ask: would the premise be true only if the conclusion were already true?",
		},
		{
			ID:        "lsat_lr_4",
			Q:         "A conditional claim 'If A then B' is logically equivalent to:",
			Choices:   []string{"If not B then not A", "If B then A", "A only if B means if B then A", "A and B are mutually exclusive"},
			Answer:    "If not B then not A",
			Rationale: "Contrapositive preserves logical truth.",
			Tip:       "Memorize: A→B ≡ ¬B→¬A; 'only if' points to the necessary condition.",
		},
		{
			ID: "lsat_lr_5",
			Q:  "Which most weakens: 'Policy X will reduce traffic because it reduces car ownership'?",
			Choices: []string{
				"Public transit capacity is already constrained",
				"Most commuters lease rather than own cars",
				"Car ownership fell in cities with Policy X, but ride-hailing miles increased",
				"Traffic worsened during a storm last year",
			},
			Answer:    "Car ownership fell in cities with Policy X, but ride-hailing miles increased",
			Rationale: "Introduces a substitute mode that offsets the predicted effect.",
			Tip:       "Weakeners often add a counter-mechanism or missing factor.",
		},
		{
			ID: "lsat_lg_1",
			Q:  "Logic Games: If slots 1–3 must contain exactly two of A,B,C (no repeats), which inference is strongest?",
			Choices: []string{
				"At least one of A,B,C is not used in 1–3",
				"Exactly one of A,B,C appears in 1–3",
				"All of A,B,C appear in 1–3",
				"None of A,B,C appears in 1–3",
			},
			Answer:    "At least one of A,B,C is not used in 1–3",
			Rationale: "Two items across three slots implies at least one of A,B,C is excluded.",
			Tip:       "Translate constraints into counts/sets first; draw a simple board.",
		},
		{
			ID: "lsat_rc_1",
			Q:  "Reading Comp: Which choice states the main point of a passage most directly?",
			Choices: []string{
				"A detail from the second paragraph",
				"A counterexample briefly mentioned",
				"A paraphrase of the author’s overall conclusion",
				"A quote of a dissenting view",
			},
			Answer:    "A paraphrase of the author’s overall conclusion",
			Rationale: "Main point summarizes the author’s primary conclusion or thesis, not a detail or opposing view.",
			Tip:       "Underline thesis statements and repeated claims; avoid answer choices that are 'too narrow'.",
		},
	},

	"CPA": {
		{
			ID:        "cpa_gaap_1",
			Q:         "Under GAAP, which method is acceptable for inventory cost flow?",
			Choices:   []string{"FIFO", "Weighted Average", "LIFO", "All of the above"},
			Answer:    "All of the above",
			Rationale: "GAAP allows FIFO, Weighted Average, and LIFO (IFRS disallows LIFO).",
			Tip:       "Memorize GAAP vs IFRS hotspots: LIFO, revaluation, development cost capitalization.",
		},
	},

	"CMA": {
		{
			ID:        "cma_cv_1",
			Q:         "Which cost is not part of conversion cost?",
			Choices:   []string{"Direct labor", "Manufacturing overhead", "Direct materials", "Indirect labor"},
			Answer:    "Direct materials",
			Rationale: "Conversion cost = Direct labor + Manufacturing overhead.",
			Tip:       "Prime cost = DM + DL; Conversion cost = DL + OH.",
		},
	},

	"CFA Level I": {
		{
			ID:        "cfa1_time_1",
			Q:         "At 8% effective annual, what’s the future value of $100 in 3 years?",
			Choices:   []string{"$125.97", "$126.00", "$117.00", "$120.00"},
			Answer:    "$125.97",
			Rationale: "FV = 100*(1.08)^3 = 125.97.",
			Tip:       "Know compounding vs simple, nominal vs effective.",
		},
	},

	"CFA Level II": {
		{
			ID: "cfa2_fcff_1",
			Q:  "Which is the correct formula for FCFF?",
			Choices: []string{
				"NI + NCC + Int*(1–t) – FCInv – WCInv",
				"NI + NCC – FCInv – WCInv",
				"CFO – FCInv",
				"EBITDA – FCInv",
			},
			Answer:    "NI + NCC + Int*(1–t) – FCInv – WCInv",
			Rationale: "One valid FCFF approach starts from NI, adds non-cash charges and after-tax interest, subtracts fixed and working capital investment.",
			Tip:       "Memorize FCFF/FCFE variants and when to use each.",
		},
	},

	"CFA Level III": {
		{
			ID:        "cfa3_ips_1",
			Q:         "In IPS, “ability to take risk” is LEAST impacted by which?",
			Choices:   []string{"Time horizon", "Liquidity needs", "Risk aversion", "Income stability"},
			Answer:    "Risk aversion",
			Rationale: "Risk aversion is willingness, not ability.",
			Tip:       "Final risk tolerance follows the lower of willingness vs ability.",
		},
	},
}

// Tracks returns the canonical track names, sorted for stable display.
func Tracks() []string {
	names := make([]string, 0, len(questionBanks))
	for name := range questionBanks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CanonicalTrack resolves a user-typed track name (any casing, surrounding
// whitespace) to its canonical form. ok is false for unknown tracks.
func CanonicalTrack(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for canonical := range questionBanks {
		if strings.ToLower(canonical) == needle {
			return canonical, true
		}
	}
	// Common shorthand from the SMS help text.
	if needle == "ib" {
		return "Investment Banking", true
	}
	return "", false
}

// IsTrack reports whether name is a known track.
func IsTrack(name string) bool {
	_, ok := CanonicalTrack(name)
	return ok
}
