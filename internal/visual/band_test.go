package visual

import "testing"

func TestClassify(t *testing.T) {
	cases := map[float64]string{
		0:   "Extreme Fear",
		24:  "Extreme Fear",
		25:  "Fear",
		44:  "Fear",
		45:  "Neutral",
		55:  "Neutral",
		56:  "Greed",
		75:  "Greed",
		76:  "Extreme Greed",
		100: "Extreme Greed",
		140: "Extreme Greed",
	}
	for v, want := range cases {
		if got := Classify(v); got != want {
			t.Errorf("Classify(%v) = %s, want %s", v, got, want)
		}
	}
}

func TestBand(t *testing.T) {
	if Band(10) != BandFear || Band(50) != BandNeutral || Band(90) != BandGreed {
		t.Fatal("unexpected band")
	}
	if BandColor(BandGreed) != GreedColor || BandColor(BandFear) != FearColor || BandColor(BandNeutral) != NeutralColor {
		t.Fatal("unexpected band color")
	}
}

func TestLabelPrefersProvider(t *testing.T) {
	if Label("Greed", 10) != "Greed" {
		t.Fatal("provider classification should win")
	}
	if Label("", 10) != "Extreme Fear" {
		t.Fatal("empty classification should fall back to Classify")
	}
}
