package recipe

import "testing"

func TestBlankText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"Empty", "", true},
		{"Spaces", "  \n\t ", true},
		{"EmptyParagraph", "<p> </p>", true},
		{"OnlyScript", "<script>alert(1)</script>", true},
		{"NonBreakingSpace", "<p>&nbsp;</p>", true},
		{"Plain", "Mix well.", false},
		{"LessThan", "Whisk a<b and c together", false},
		{"Entity", "Salt &amp; pepper", false},
		{"Markup", "<p>Boil <b>water</b>.</p>", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BlankText(tc.in); got != tc.want {
				t.Errorf("BlankText(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
