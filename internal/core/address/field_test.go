package address

import (
	"encoding/json"
	"testing"
)

func TestField_Classification(t *testing.T) {
	if String("").Present() {
		t.Fatalf("empty string must be absent")
	}
	if Of(nil).Present() {
		t.Fatalf("nil must be absent")
	}
	if f := Of("Serro"); f.Kind() != KindString || f.Str() != "Serro" {
		t.Fatalf("string field = %+v", f)
	}
	if f := Of(float64(7)); f.Kind() != KindOther || f.Text() != "7" {
		t.Fatalf("other field = %+v", f)
	}
}

func TestField_Equal(t *testing.T) {
	if !Absent().Equal(Absent()) {
		t.Fatalf("absent == absent")
	}
	if Absent().Equal(String("x")) {
		t.Fatalf("absent != string")
	}
	if !String("x").Equal(String("x")) || String("x").Equal(String("y")) {
		t.Fatalf("string equality broken")
	}
	if !Other([]any{"a", 1.0}).Equal(Other([]any{"a", 1.0})) {
		t.Fatalf("deep equality broken")
	}
	if String("7").Equal(Other(float64(7))) {
		t.Fatalf("kinds must not cross-compare equal")
	}
}

func TestField_JSONRoundTrip(t *testing.T) {
	in := struct {
		A Field `json:"a"`
		B Field `json:"b"`
		C Field `json:"c"`
	}{A: String("Rua Direita"), B: Other(float64(172)), C: Absent()}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":"Rua Direita","b":172,"c":null}` {
		t.Fatalf("marshal = %s", b)
	}

	var out struct {
		A Field `json:"a"`
		B Field `json:"b"`
		C Field `json:"c"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.A.Equal(in.A) || !out.B.Equal(in.B) || out.C.Present() {
		t.Fatalf("round trip = %+v", out)
	}
}
