package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfClassifiesApiErrors(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{NewInvalidInput("bad"), ErrorKindInvalidInput},
		{NewNotFound("missing"), ErrorKindNotFound},
		{NewInsufficientStock("short"), ErrorKindInsufficientStock},
		{NewConflict("busy"), ErrorKindConflict},
		{NewUnauthorized("who"), ErrorKindUnauthorized},
		{ErrorRecordNotFound, ErrorKindNotFound},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("driver: bad connection")); got != ErrorKindInternal {
		t.Fatalf("plain errors must classify as Internal, got %s", got)
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", NewInsufficientStock("short"))
	if got := KindOf(wrapped); got != ErrorKindInsufficientStock {
		t.Fatalf("wrapped kinds must survive, got %s", got)
	}
}
