package change

import (
	"testing"

	"guia/internal/core/address"
)

func addr(street, neighborhood, municipality string) *address.Address {
	return &address.Address{
		Street:       address.String(street),
		Neighborhood: address.String(neighborhood),
		Municipality: address.String(municipality),
	}
}

func TestHasChanged_OneShot(t *testing.T) {
	d := NewDetector()
	a := addr("Rua das Flores", "Centro", "São Paulo")
	b := addr("Avenida Paulista", "Centro", "São Paulo")

	d.Observe(a, b, false)

	if !d.HasChanged(FieldStreet) {
		t.Fatalf("first query must report the street change")
	}
	if d.HasChanged(FieldStreet) {
		t.Fatalf("second query must not re-report")
	}
	if d.HasChanged(FieldMunicipality) {
		t.Fatalf("municipality did not change")
	}

	// a genuinely new transition re-arms the field
	c := addr("Rua Augusta", "Centro", "São Paulo")
	d.Observe(b, c, false)
	if !d.HasChanged(FieldStreet) {
		t.Fatalf("new transition must report once more")
	}
	if d.HasChanged(FieldStreet) {
		t.Fatalf("and only once")
	}
}

func TestHasChanged_NoPriorData(t *testing.T) {
	d := NewDetector()
	if d.HasChanged(FieldStreet) {
		t.Fatalf("no data yet")
	}
	d.Observe(nil, addr("Rua A", "", ""), false)
	if d.HasChanged(FieldStreet) {
		t.Fatalf("single entry is not a transition")
	}
}

func TestHasChanged_EqualValues(t *testing.T) {
	d := NewDetector()
	d.Observe(addr("Rua A", "Centro", "Serro"), addr("Rua A", "Centro", "Serro"), false)
	for _, f := range TrackedFields {
		if d.HasChanged(f) {
			t.Fatalf("%s: equal values must not report", f)
		}
	}
}

func TestHasChanged_NullTransitions(t *testing.T) {
	d := NewDetector()

	prev := &address.Address{}
	cur := addr("Rua A", "", "")
	d.Observe(prev, cur, false)
	if !d.HasChanged(FieldStreet) {
		t.Fatalf("absent to value counts as change")
	}

	d.Observe(cur, &address.Address{}, false)
	if !d.HasChanged(FieldStreet) {
		t.Fatalf("value to absent counts as change")
	}
}

func TestHasChanged_RepeatedIdenticalPush(t *testing.T) {
	d := NewDetector()
	a := addr("Rua A", "Centro", "Serro")
	b := addr("Rua B", "Centro", "Serro")

	d.Observe(a, b, false)
	if !d.HasChanged(FieldStreet) {
		t.Fatalf("first report")
	}
	// the same pair again must not re-arm the one-shot flag
	d.Observe(a, b, false)
	if d.HasChanged(FieldStreet) {
		t.Fatalf("identical pair must not re-report")
	}
}

func TestCallbacks_FieldIndependence(t *testing.T) {
	d := NewDetector()
	fired := map[TrackedField]int{}
	for _, f := range TrackedFields {
		f := f
		d.SetCallback(f, func(ev Details) {
			if ev.Field != f || !ev.HasChanged {
				t.Errorf("%s: bad event %+v", f, ev)
			}
			fired[f]++
		})
	}

	d.Observe(
		addr("Rua A", "Centro", "Serro"),
		addr("Rua B", "Milho Verde", "Diamantina"),
		false,
	)

	for _, f := range TrackedFields {
		if fired[f] != 1 {
			t.Fatalf("%s fired %d times", f, fired[f])
		}
	}
}

func TestCallbacks_PanicIsolated(t *testing.T) {
	d := NewDetector()
	d.SetCallback(FieldMunicipality, func(Details) { panic("boom") })
	var streetFired bool
	d.SetCallback(FieldStreet, func(Details) { streetFired = true })

	d.Observe(
		addr("Rua A", "", "Serro"),
		addr("Rua B", "", "Diamantina"),
		false,
	)

	if !streetFired {
		t.Fatalf("panicking callback must not block remaining fields")
	}
	if !d.HasChanged(FieldMunicipality) {
		t.Fatalf("panicking callback must not block the state transition")
	}
}

func TestCallbacks_ImmediateFlag(t *testing.T) {
	d := NewDetector()
	var got Details
	d.SetCallback(FieldStreet, func(ev Details) { got = ev })

	d.Observe(addr("Rua A", "", ""), addr("Rua B", "", ""), true)
	if !got.Immediate {
		t.Fatalf("bypass path must tag details immediate")
	}
}

func TestCallbacks_ClearWithNil(t *testing.T) {
	d := NewDetector()
	fired := 0
	d.SetCallback(FieldStreet, func(Details) { fired++ })
	d.SetCallback(FieldStreet, nil)

	d.Observe(addr("Rua A", "", ""), addr("Rua B", "", ""), false)
	if fired != 0 {
		t.Fatalf("cleared callback fired")
	}
}

func TestChangeDetails_NonConsuming(t *testing.T) {
	d := NewDetector()
	d.Observe(addr("Rua A", "", "Serro"), addr("Rua B", "", "Serro"), false)

	det := d.ChangeDetails(FieldStreet)
	if !det.HasChanged {
		t.Fatalf("details must report the change")
	}
	if got := det.Previous.Street.Str(); got != "Rua A" {
		t.Fatalf("previous street = %q", got)
	}
	if got := det.Current.Street.Str(); got != "Rua B" {
		t.Fatalf("current street = %q", got)
	}

	// details retrieval does not consume the flag
	if !d.HasChanged(FieldStreet) {
		t.Fatalf("one-shot flag consumed by details retrieval")
	}
}

func TestReset(t *testing.T) {
	d := NewDetector()
	d.Observe(addr("Rua A", "", ""), addr("Rua B", "", ""), false)
	d.Reset()
	if d.HasChanged(FieldStreet) {
		t.Fatalf("reset must drop pending state")
	}
}
