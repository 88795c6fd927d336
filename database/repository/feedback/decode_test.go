package feedbackRepo

import "testing"

func TestDecodeFeedbackKeepsSource(t *testing.T) {
	f := decodeFeedback("feedbacks", "f1", map[string]interface{}{"comment": "great", "rating": 5.0})
	if f.Source != "feedbacks" || f.Message != "great" || f.Rating != 5 {
		t.Fatalf("decoded=%+v", f)
	}
}

func TestDecodeRatingValueFallback(t *testing.T) {
	cases := []struct {
		doc  map[string]interface{}
		want float64
	}{
		{map[string]interface{}{"rating": 4.5}, 4.5},
		{map[string]interface{}{"value": int64(3)}, 3},
		{map[string]interface{}{"rating": "2"}, 2},
		{map[string]interface{}{}, 0},
	}
	for _, tc := range cases {
		if got := decodeRating("r", tc.doc).Value; got != tc.want {
			t.Fatalf("decodeRating(%v).Value=%v, want %v", tc.doc, got, tc.want)
		}
	}
}
