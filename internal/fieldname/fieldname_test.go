package fieldname

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"ID", "id"},
		{"Weight (kg)", "weight_kg"},
		{"Čas Města", "cas_mesta"},
		{" First-Name ", "first_name"},
		{"a.b-c d", "a_b_c_d"},
		{"__trim__", "trim"},
		{"%%%", "col"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	names := []string{"ID", "First Name", "Čas"}

	if i, ok := Resolve(names, "ID"); !ok || i != 0 {
		t.Fatalf("exact match: got (%d, %t)", i, ok)
	}
	if i, ok := Resolve(names, "first_name"); !ok || i != 1 {
		t.Fatalf("normalized match: got (%d, %t)", i, ok)
	}
	if i, ok := Resolve(names, "cas"); !ok || i != 2 {
		t.Fatalf("accent-insensitive match: got (%d, %t)", i, ok)
	}
	if _, ok := Resolve(names, "missing"); ok {
		t.Fatal("missing name resolved")
	}
}
