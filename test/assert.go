package test

import (
	"bytes"
	"testing"
)

func AssertEqual(t *testing.T, expected, actual any) bool {
	t.Helper()

	if expected != actual {
		t.Errorf(""+
			"Not equal: \n"+
			"Expected: %v\n"+
			"Actual: %v", expected, actual)
		return false
	}

	return true
}

func AssertBytes(t *testing.T, expected, actual []byte) bool {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Errorf(""+
			"Bytes not equal: \n"+
			"Expected: %q\n"+
			"Actual: %q", expected, actual)
		return false
	}

	return true
}

func AssertPrefix(t *testing.T, prefix, actual []byte) bool {
	t.Helper()

	if !bytes.HasPrefix(actual, prefix) {
		t.Errorf(""+
			"Missing prefix: \n"+
			"Prefix: %q\n"+
			"Actual: %q", prefix, actual)
		return false
	}

	return true
}
