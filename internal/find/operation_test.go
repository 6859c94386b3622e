package find

import (
	"encoding/json"
	"testing"
)

func TestOperationCancelSuppressesCompletion(t *testing.T) {
	op := NewOperation()
	cancels, completes := 0, 0
	op.OnCancel(func() { cancels++ })
	op.OnComplete(func() { completes++ })

	op.Cancel()
	op.Cancel()
	op.Complete()

	if cancels != 1 || completes != 0 {
		t.Fatalf("cancels=%d completes=%d, want 1/0", cancels, completes)
	}
	if !op.Finished() || op.State() != Cancelled {
		t.Fatalf("finished=%t state=%s", op.Finished(), op.State())
	}
}

func TestOperationCompletesOnce(t *testing.T) {
	op := NewOperation()
	completes := 0
	op.OnComplete(func() { completes++ })
	op.OnComplete(func() { t.Fatal("second registration must be ignored") })

	op.Complete()
	op.Complete()
	op.Cancel()

	if completes != 1 {
		t.Fatalf("completes=%d, want 1", completes)
	}
	if op.State() != Completed {
		t.Fatalf("state=%s, want completed", op.State())
	}
}

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cat", "cat"},
		{"a.b", `a\.b`},
		{"(x)|[y]", `\(x\)\|\[y\]`},
		{"1+1=2?", `1\+1=2\?`},
		{"a-b^$", `a\-b\^\$`},
		{`c:\{x}*`, `c:\\\{x\}\*`},
		{"a.\xff", "a\\.\xff"},
		{"\xffb", "\xffb"},
		{"ü+é", "ü\\+é"},
	}
	for _, tt := range tests {
		if got := EscapeQuery(tt.in); got != tt.want {
			t.Fatalf("EscapeQuery(%q)=%q want %q", tt.in, got, tt.want)
		}
		if !ParseQuery(tt.in).Pattern().MatchString(tt.in) {
			t.Fatalf("pattern for %q does not match itself", tt.in)
		}
	}
}

func TestParseQueryTrims(t *testing.T) {
	q := ParseQuery("  a.b \n")
	if q.Trimmed != "a.b" || q.Escaped != `a\.b` || q.Empty() {
		t.Fatalf("unexpected query %+v", q)
	}
	if !ParseQuery(" \t").Empty() {
		t.Fatal("blank query should be empty")
	}
	if ParseQuery("a.b").Pattern().MatchString("axb") {
		t.Fatal("dot must match literally")
	}
	if !ParseQuery("CaT").Pattern().MatchString("a cAt") {
		t.Fatal("matching is case-insensitive")
	}
}

func TestMessageJSON(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{TotalMessage(3), `{"totalResults":3}`},
		{CurrentMessage(0), `{"currentResult":0}`},
		{NoResultsMessage(), `{"currentResult":0,"totalResults":0}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.msg)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tt.want {
			t.Fatalf("got %s want %s", data, tt.want)
		}
	}
}

func TestEaseOutCubicEndpoints(t *testing.T) {
	if got := easeOutCubic(0, 10, 90, 400); got != 10 {
		t.Fatalf("start = %v", got)
	}
	if got := easeOutCubic(400, 10, 90, 400); got != 100 {
		t.Fatalf("end = %v", got)
	}
	if mid := easeOutCubic(200, 0, 100, 400); mid <= 50 {
		t.Fatalf("ease-out should be past halfway at half time, got %v", mid)
	}
}
