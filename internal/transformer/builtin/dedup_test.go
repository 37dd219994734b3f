package builtin

import (
	"testing"

	"datamorph/pkg/rows"
)

func TestDeDupWholeRow(t *testing.T) {
	a := textRow("name", "John", "city", "Oslo")
	b := textRow("name", "Jane", "city", "Oslo")
	dup := textRow("name", "John", "city", "Oslo")

	out := DeDup{}.Apply([]*rows.Row{a, b, dup})
	if len(out) != 2 || out[0] != a || out[1] != b {
		t.Fatalf("deduped rows = %v; want first two", out)
	}
}

func TestDeDupByKeys(t *testing.T) {
	a := textRow("id", "1", "v", "x")
	b := textRow("id", "1", "v", "y")
	c := textRow("id", "2", "v", "z")

	out := DeDup{Keys: []string{"id"}}.Apply([]*rows.Row{a, b, c})
	if len(out) != 2 || out[0] != a || out[1] != c {
		t.Fatalf("deduped rows = %v; want first of each id", out)
	}
}

func TestDeDupKeepLast(t *testing.T) {
	a := textRow("id", "1", "v", "x")
	b := textRow("id", "1", "v", "y")
	c := textRow("id", "2", "v", "z")

	out := DeDup{Keys: []string{"id"}, KeepLast: true}.Apply([]*rows.Row{a, b, c})
	if len(out) != 2 || out[0] != b || out[1] != c {
		t.Fatalf("deduped rows = %v; want last of each id, input order", out)
	}
}

/*
TestDeDupKindSensitive verifies that the key hash includes the value kind, so
int 1 and text "1" do not collide.
*/
func TestDeDupKindSensitive(t *testing.T) {
	asInt := rows.New()
	asInt.Set("id", rows.Int(1))
	asText := rows.New()
	asText.Set("id", rows.Text("1"))

	out := DeDup{Keys: []string{"id"}}.Apply([]*rows.Row{asInt, asText})
	if len(out) != 2 {
		t.Fatalf("int and text keys collided: %v", out)
	}
}

func TestDeDupAbsentVsNull(t *testing.T) {
	withNull := rows.New()
	withNull.Set("id", rows.Null())
	withNull.Set("v", rows.Int(1))
	without := rows.New()
	without.Set("v", rows.Int(1))

	out := DeDup{Keys: []string{"id", "v"}}.Apply([]*rows.Row{withNull, without})
	if len(out) != 2 {
		t.Fatalf("absent and Null keys collided: %v", out)
	}
}

func TestDeDupShortInput(t *testing.T) {
	r := textRow("a", "x")
	if out := (DeDup{}).Apply([]*rows.Row{r}); len(out) != 1 || out[0] != r {
		t.Fatalf("single row changed: %v", out)
	}
	if out := (DeDup{}).Apply(nil); out != nil {
		t.Fatalf("nil input changed: %v", out)
	}
}
