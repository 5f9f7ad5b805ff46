package validate

import "testing"

func TestEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", "owner+tag@example.com", "  spaced@example.com  "} {
		if _, valid := Email(ok); !valid {
			t.Errorf("Email(%q) rejected", ok)
		}
	}
	for _, bad := range []string{"", "plain", "a@b", "a b@c.com"} {
		if _, valid := Email(bad); valid {
			t.Errorf("Email(%q) accepted", bad)
		}
	}
}

func TestPassword(t *testing.T) {
	cases := map[string]bool{
		"Sup3rSecret":   true,
		"short1A":       false, // 7 chars
		"alllowercase1": false,
		"ALLUPPERCASE1": false,
		"NoDigitsHere!": false,
	}
	for pw, want := range cases {
		if got := Password(pw); got != want {
			t.Errorf("Password(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestQtyClamps(t *testing.T) {
	if Qty(0) != 1 || Qty(-3) != 1 {
		t.Error("low quantities must clamp to 1")
	}
	if Qty(999) != 50 {
		t.Error("high quantities must clamp to 50")
	}
	if Qty(7) != 7 {
		t.Error("in-range quantity mangled")
	}
}

func TestCapacity(t *testing.T) {
	if n, ok := Capacity(" 12 "); !ok || n != 12 {
		t.Errorf("Capacity(12) = %d, %v", n, ok)
	}
	for _, bad := range []string{"", "abc", "0", "-1", "501", "3.5"} {
		if _, ok := Capacity(bad); ok {
			t.Errorf("Capacity(%q) accepted", bad)
		}
	}
}

func TestOrderStatus(t *testing.T) {
	if s, ok := OrderStatus(" Completed "); !ok || s != "completed" {
		t.Errorf("OrderStatus normalization broken: %q %v", s, ok)
	}
	for _, bad := range []string{"pending", "preparing", "", "done"} {
		if _, ok := OrderStatus(bad); ok {
			t.Errorf("OrderStatus(%q) accepted", bad)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Falafel House":   "falafel-house",
		"  Cafe -- 21!  ": "cafe-21",
		"already-slugged": "already-slugged",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestImageExt(t *testing.T) {
	for _, ok := range []string{".png", ".JPG", "jpeg", ".webp", ".gif"} {
		if !ImageExt(ok) {
			t.Errorf("ImageExt(%q) rejected", ok)
		}
	}
	for _, bad := range []string{".exe", ".svg", "", ".php"} {
		if ImageExt(bad) {
			t.Errorf("ImageExt(%q) accepted", bad)
		}
	}
}
