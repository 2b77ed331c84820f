package sqlfrag

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type (
	B  = testing.B
	T  = testing.T
	TB = testing.TB
)

func eq(t TB, expected interface{}, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected:\n%#v\nactual:\n%#v", expected, actual)
	}
}

func noErr(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func errIs(t TB, expected error, actual error, msg string) {
	t.Helper()
	if actual == nil {
		t.Fatalf(`expected error %v, found nil`, expected)
	}
	if !errors.Is(actual, expected) {
		t.Fatalf(`expected error %v, found %v`, expected, actual)
	}
	if !strings.Contains(actual.Error(), msg) {
		t.Fatalf(`expected error containing %q, found %q`, msg, actual.Error())
	}
}

func panics(t TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected a panic, found no panic`)
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(`expected a panic with a message containing %q, found %q`, msg, str)
	}
}

func catchAny(fun func()) (val interface{}) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *interface{}) { *ptr = recover() }

func fragOf(t TB, vals ...string) *Frag {
	t.Helper()
	frag := NewFrag()
	for _, val := range vals {
		noErr(t, frag.Str(val))
	}
	return frag
}
