package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestKeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromCore(core).Named("ppt").With("deck", "abc")

	log.Warn("image unavailable", "slide", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "ppt" || e.Level != zapcore.WarnLevel {
		t.Errorf("entry = %+v", e.Entry)
	}
	fields := e.ContextMap()
	if fields["deck"] != "abc" || fields["slide"] != int64(3) {
		t.Errorf("fields = %v", fields)
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := New("debug", format)
		if err != nil {
			t.Fatalf("New(%s): %v", format, err)
		}
		log.Debug("ok")
	}
}
