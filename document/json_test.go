package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{name: "empty", doc: New(), want: `{}`},
		{name: "single", doc: Build(F("valid", "json")), want: `{"valid":"json"}`},
		{
			name: "insertion_order",
			doc:  Build(F("title", "X"), F("read", true), F("year", 2005)),
			want: `{"title":"X","read":true,"year":2005}`,
		},
		{
			name: "escapes",
			doc:  Build(F("s", "a\"b\\c\n\t<&>\x01é")),
			want: `{"s":"a\"b\\c\n\t<&>\u0001é"}`,
		},
		{
			name: "nested",
			doc:  Build(F("list", []any{nil, 1.5, Build(F("k", false))})),
			want: `{"list":[null,1.5,{"k":false}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Encode(tt.doc); got != tt.want {
				t.Fatalf("Encode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	d, err := Decode(`{ "valid_json": true, "n": 2005, "f": 1.5e3, "list": [1, "two"], "obj": {"z": null, "a": {}} }`)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if got, err := Get[bool](d, "valid_json"); err != nil || !got {
		t.Fatalf("Get[bool] = (%v, %v)", got, err)
	}
	if got, err := Get[uint16](d, "n"); err != nil || got != 2005 {
		t.Fatalf("Get[uint16] = (%d, %v)", got, err)
	}
	if got, err := Get[float64](d, "f"); err != nil || got != 1500 {
		t.Fatalf("Get[float64] = (%v, %v)", got, err)
	}
	if got := Encode(d); got != `{"valid_json":true,"n":2005,"f":1.5e3,"list":[1,"two"],"obj":{"z":null,"a":{}}}` {
		t.Fatalf("Encode(Decode()) = %s", got)
	}
}

func TestDecodeDuplicateKeyLastWins(t *testing.T) {
	t.Parallel()

	d, err := Decode(`{"a":1,"b":2,"a":3}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := Encode(d); got != `{"a":3,"b":2}` {
		t.Fatalf("Encode() = %s", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"not a valid json string",
		"{",
		`{"a":}`,
		`{"a":1} {"b":2}`,
		`{"a":1}]`,
		`[1,2]`,
		`42`,
		`"text"`,
		`null`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			d, err := Decode(input)
			if err == nil {
				t.Fatalf("Decode(%q) = %s, want error", input, d)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Decode(%q) err = %v, want ErrMalformed", input, err)
			}
		})
	}
}

func TestDecodeWrapsSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Decode(`{"a" 1}`)

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("err = %v, want *json.SyntaxError in chain", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	original := Build(
		F("title", "The Hitchhiker's Guide to the Galaxy"),
		F("novels", []*Document{
			Build(F("title", "The Hitchhiker's Guide to the Galaxy"), F("read", true)),
			Build(F("title", "Mostly Harmless"), F("read", false)),
		}),
		F("movie", Build(
			F("title", "The Hitchhiker's Guide to the Galaxy"),
			F("release_date", 2005),
		)),
		F("ratio", 0.42),
		F("nothing", nil),
		F("unicode", "ünïcødé  "),
	)

	decoded, err := Decode(Encode(original))
	if err != nil {
		t.Fatalf("Decode(Encode()) error: %v", err)
	}
	if !decoded.Equal(original) {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", decoded, original)
	}

	want, _ := Get[any](original, "novels")
	got, _ := Get[any](decoded, "novels")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("novels mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentJSONMarshalers(t *testing.T) {
	t.Parallel()

	type envelope struct {
		ID   int       `json:"id"`
		Body *Document `json:"body"`
		Meta Document  `json:"meta"`
	}

	in := envelope{ID: 7, Body: Build(F("z", 1), F("a", 2)), Meta: *Build(F("k", "v"))}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"id":7,"body":{"z":1,"a":2},"meta":{"k":"v"}}` {
		t.Fatalf("json.Marshal() = %s", data)
	}

	var out envelope
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Body.Equal(in.Body) || !out.Meta.Equal(&in.Meta) {
		t.Fatalf("json.Unmarshal() = %+v", out)
	}
	if keys := strings.Join(out.Body.Keys(), ","); keys != "z,a" {
		t.Fatalf("Keys() = %s, want z,a", keys)
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		kind  Kind
	}{
		{input: "null", kind: Null},
		{input: "true", kind: Bool},
		{input: "-1.5", kind: Number},
		{input: `"s"`, kind: String},
		{input: "[]", kind: Array},
		{input: `{"a":[]}`, kind: Object},
	}

	for _, tt := range tests {
		v, err := ParseValue(tt.input)
		if err != nil {
			t.Fatalf("ParseValue(%s) error: %v", tt.input, err)
		}
		if v.Kind() != tt.kind {
			t.Fatalf("ParseValue(%s) kind = %s, want %s", tt.input, v.Kind(), tt.kind)
		}
		if v.String() != tt.input {
			t.Fatalf("ParseValue(%s).String() = %s", tt.input, v.String())
		}
	}

	if _, err := ParseValue("tru"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseValue(tru) err = %v, want ErrMalformed", err)
	}
}
