package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestInitLevels(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	Init("debug", "", &buf)
	c.Assert(Level(), qt.Equals, LogLevelDebug)

	Init("warn", "", &buf)
	c.Assert(Level(), qt.Equals, LogLevelWarn)

	Init("bogus", "", &buf)
	c.Assert(Level(), qt.Equals, LogLevelInfo)
}

func TestStructuredFields(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	Init("debug", "", &buf)

	Debugw("casting ballot", "voter", "v1", "index", 3)
	c.Assert(strings.Contains(buf.String(), "casting ballot"), qt.IsTrue)
	c.Assert(strings.Contains(buf.String(), "voter"), qt.IsTrue)
}

func TestErrorLogsNilIsNoop(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	Init("debug", "", &buf)

	Error(nil)
	c.Assert(buf.Len(), qt.Equals, 0)

	Error(errors.New("boom"))
	c.Assert(strings.Contains(buf.String(), "boom"), qt.IsTrue)
}
