package status

import "testing"

func TestStatusErrorFormatting(t *testing.T) {
	s := New(CrcCheckFailed, "mismatch at offset %d", 12)
	if s.Error() != "CrcCheckFailed: mismatch at offset 12" {
		t.Fatalf("got %q", s.Error())
	}
	if Ok.Error() != "Success" {
		t.Fatalf("got %q", Ok.Error())
	}
}

func TestOK(t *testing.T) {
	if !Ok.Kind.OK() {
		t.Fatalf("expected Ok to report OK")
	}
	if (Status{Kind: ServerError}).Kind.OK() {
		t.Fatalf("expected ServerError not to report OK")
	}
}

func TestErrorHandlerInvoked(t *testing.T) {
	var seen Status
	var h ErrorHandler = func(s Status) { seen = s }
	h(New(Timeout, "deadline exceeded"))
	if seen.Kind != Timeout {
		t.Fatalf("got %v", seen.Kind)
	}
}
