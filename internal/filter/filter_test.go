package filter

import "testing"

func TestFailOpenOnEmptyInclude(t *testing.T) {
	texts := []string{"", "아무 기사 제목", "breaking news about anything"}
	for _, text := range texts {
		if !IsRelevant(text, nil, nil, 2) {
			t.Errorf("empty include list should accept %q", text)
		}
	}
}

func TestMinMatchesThreshold(t *testing.T) {
	include := []string{"화산", "지진"}

	if !IsRelevant("오늘 화산 폭발과 지진 발생", include, nil, 2) {
		t.Error("two keyword hits should pass a threshold of 2")
	}
	if IsRelevant("오늘 화산 폭발", include, nil, 2) {
		t.Error("one keyword hit should fail a threshold of 2")
	}
	if !IsRelevant("오늘 화산 폭발", include, nil, 1) {
		t.Error("one keyword hit should pass a threshold of 1")
	}
}

func TestExcludePrecedence(t *testing.T) {
	if IsRelevant("화산 지진 속보", []string{"화산", "지진"}, []string{"속보"}, 2) {
		t.Error("an exclude hit must reject even with enough include hits")
	}
}

func TestSubstringIsCaseInsensitive(t *testing.T) {
	if !IsRelevant("Volcano ERUPTION near the earthquake zone", []string{"volcano", "earthquake"}, nil, 2) {
		t.Error("matching should ignore case")
	}
}

func TestSubstringMatchesInsideWords(t *testing.T) {
	// Korean keywords routinely appear embedded in longer phrases with
	// particles attached, so the default mode must not require boundaries.
	if !IsRelevant("화산폭발로 인한 피해", []string{"화산"}, nil, 1) {
		t.Error("substring mode should match inside a longer run")
	}
}

func TestWordModeRequiresWholeTokens(t *testing.T) {
	if Match("the volcanic eruption", []string{"volcano"}, nil, 1, MatchWord) {
		t.Error("word mode should not match a keyword inside another token")
	}
	if !Match("the volcano erupted", []string{"volcano"}, nil, 1, MatchWord) {
		t.Error("word mode should match an exact token")
	}
}

func TestBlankKeywordsAreIgnored(t *testing.T) {
	if IsRelevant("anything at all", []string{"", "  "}, nil, 1) {
		t.Error("blank include keywords must not count as matches")
	}
	if !IsRelevant("anything at all", []string{"anything"}, []string{""}, 1) {
		t.Error("blank exclude keywords must not reject")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("word") != MatchWord {
		t.Error(`"word" should map to MatchWord`)
	}
	if ParseMode("substring") != MatchSubstring {
		t.Error(`"substring" should map to MatchSubstring`)
	}
	if ParseMode("") != MatchSubstring {
		t.Error("unknown mode should fall back to MatchSubstring")
	}
}
