package builtin_test

import (
	"testing"
	"time"

	"tabload/internal/transformer/builtin"
	"tabload/pkg/records"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	c := builtin.Coerce{Types: map[string]string{
		"id":     "int",
		"salary": "float",
		"active": "bool",
		"joined": "date",
		"name":   "text",
	}}

	out := c.Apply([]records.Record{{
		"id":     "42",
		"salary": "90000.5",
		"active": "true",
		"joined": "2024-01-15",
		"name":   "Alice",
	}})

	r := out[0]
	if r["id"] != int64(42) {
		t.Errorf("id=%v (%T)", r["id"], r["id"])
	}
	if r["salary"] != 90000.5 {
		t.Errorf("salary=%v (%T)", r["salary"], r["salary"])
	}
	if r["active"] != true {
		t.Errorf("active=%v (%T)", r["active"], r["active"])
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !r["joined"].(time.Time).Equal(want) {
		t.Errorf("joined=%v", r["joined"])
	}
	if r["name"] != "Alice" {
		t.Errorf("name=%v", r["name"])
	}
}

func TestCoerceFailureNullsField(t *testing.T) {
	t.Parallel()

	c := builtin.Coerce{Types: map[string]string{"salary": "int"}}
	out := c.Apply([]records.Record{{"salary": "not-a-number"}})
	if v, ok := out[0]["salary"]; !ok || v != nil {
		t.Fatalf("salary=%v want nil", v)
	}
}

func TestCoerceLeavesUntypedAndNil(t *testing.T) {
	t.Parallel()

	c := builtin.Coerce{Types: map[string]string{"id": "int"}}
	out := c.Apply([]records.Record{{"id": nil, "note": "hello"}})
	if out[0]["id"] != nil {
		t.Errorf("id=%v", out[0]["id"])
	}
	if out[0]["note"] != "hello" {
		t.Errorf("note=%v", out[0]["note"])
	}
}

func TestCoerceCustomLayout(t *testing.T) {
	t.Parallel()

	c := builtin.Coerce{Types: map[string]string{"d": "date"}, Layout: "02/01/2006"}
	out := c.Apply([]records.Record{{"d": "15/01/2024"}})
	if _, ok := out[0]["d"].(time.Time); !ok {
		t.Fatalf("d=%v (%T)", out[0]["d"], out[0]["d"])
	}
}

func TestCoerceAlreadyTypedValueKept(t *testing.T) {
	t.Parallel()

	c := builtin.Coerce{Types: map[string]string{"id": "int"}}
	out := c.Apply([]records.Record{{"id": int64(7)}})
	if out[0]["id"] != int64(7) {
		t.Fatalf("id=%v", out[0]["id"])
	}
}
