package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{LogLevel: "warn"}, &buf)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
}

func TestTagFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{LogLevel: "debug", EnabledTags: []string{"render"}}, &buf)

	DebugTagf("render", "kept")
	DebugTagf("tour", "dropped tag")
	Debugf("dropped untagged")

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "tag=render")
	assert.NotContains(t, out, "dropped")
}

func TestPackageAndFileFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{LogLevel: "debug", DisabledPackages: []string{"logger"}}, &buf)
	Infof("from logger package")
	assert.Empty(t, buf.String())

	buf.Reset()
	Init(Config{LogLevel: "debug", DisabledFiles: []string{"logger_test.go"}}, &buf)
	Infof("from test file")
	assert.Empty(t, buf.String())

	buf.Reset()
	Init(Config{LogLevel: "debug", EnabledFiles: []string{"logger_test.go"}}, &buf)
	Infof("allowed file")
	assert.Contains(t, buf.String(), "allowed file")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("Debug").String())
	assert.Equal(t, "WARN", ParseLevel("warning").String())
	assert.Equal(t, "ERROR", ParseLevel("err").String())
	assert.Equal(t, "INFO", ParseLevel("bogus").String())
}
