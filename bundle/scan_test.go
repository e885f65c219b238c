package bundle_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/packlens/apkg/bundle"
	apkgerr "github.com/packlens/apkg/errors"
)

const bootstrap = `var modules = {};
function define(path, deps, factory) { modules[path] = factory; }
function require(path) { return modules[path]; }
`

func TestSplitSingleModule(t *testing.T) {
	blob := []byte(bootstrap + `define("pages/index.js", ["common/util.js"], function (require, module, exports) {
var util = require("common/util.js");
module.exports = util.hello();
});
`)
	records, err := bundle.Split("app-service.js", blob)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Path != "pages/index.js" {
		t.Errorf("path: got %q", rec.Path)
	}
	if len(rec.Deps) != 1 || rec.Deps[0] != "common/util.js" {
		t.Errorf("deps: got %v", rec.Deps)
	}
	if rec.Kind != bundle.KindSource {
		t.Errorf("kind: got %v", rec.Kind)
	}
	if rec.Truncated {
		t.Error("record should not be truncated")
	}
	body := string(rec.Body)
	if !strings.Contains(body, `require("common/util.js")`) {
		t.Errorf("body does not contain module source: %q", body)
	}
	if strings.Contains(body, "modules[path]") {
		t.Error("body contains bootstrap text")
	}
}

func TestSplitMultipleModules(t *testing.T) {
	blob := []byte(bootstrap +
		`define("a.js", [], function () { return 1; });` + "\n" +
		`define("b.js", ["a.js"], function () { return 2; });` + "\n" +
		`define("c.js", ["a.js", "b.js"], function () { return 3; });` + "\n" +
		`require("c.js");`)
	records, err := bundle.Split("svc.js", blob)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records: got %d, want 3", len(records))
	}
	wantPaths := []string{"a.js", "b.js", "c.js"}
	for i, want := range wantPaths {
		if records[i].Path != want {
			t.Errorf("record %d path: got %q, want %q", i, records[i].Path, want)
		}
	}
	if got := records[2].Deps; len(got) != 2 || got[0] != "a.js" || got[1] != "b.js" {
		t.Errorf("c.js deps: got %v", got)
	}
}

func TestSplitNoDepsArray(t *testing.T) {
	// The dependency array may be absent entirely.
	blob := []byte(`define("solo.js", function () { return 42; });`)
	records, err := bundle.Split("svc.js", blob)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(records) != 1 || records[0].Path != "solo.js" {
		t.Fatalf("records: got %+v", records)
	}
	if len(records[0].Deps) != 0 {
		t.Errorf("deps: got %v, want none", records[0].Deps)
	}
}

func TestSplitBraceInsideString(t *testing.T) {
	// A factory body containing the literal text "}" must be extracted in
	// full, not truncated at the embedded brace.
	blob := []byte(`define("tpl.js", [], function () {
var close = "}";
var open = "{";
return close + open;
});`)
	records, err := bundle.Split("svc.js", blob)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	body := string(records[0].Body)
	if !strings.Contains(body, `return close + open;`) {
		t.Errorf("body truncated at embedded brace: %q", body)
	}
}

func TestSplitFallback(t *testing.T) {
	blob := []byte("#!/usr/bin/env node\nconsole.log('not a bundle at all');\n")
	records, err := bundle.Split("plugin.js", blob)
	if err == nil {
		t.Fatal("expected recoverable warning")
	}
	if !apkgerr.IsRecoverable(err) {
		t.Fatalf("expected recoverable warning, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if records[0].Path != "plugin.js" {
		t.Errorf("fallback path: got %q, want entry path", records[0].Path)
	}
	if !bytes.Equal(records[0].Body, blob) {
		t.Error("fallback body must be the verbatim blob")
	}
}

func TestSplitBytecodePassthrough(t *testing.T) {
	payload := []byte{0xde, 0xad, 0x00, 0xbe, 0xef, 0x7d, 0x22, 0x00}
	var slot bytes.Buffer
	slot.WriteByte(0x00)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	slot.Write(lenBuf[:])
	slot.Write(payload)

	blob := append([]byte(`define("compiled.bin", [], `), slot.Bytes()...)
	blob = append(blob, []byte(`);`)...)

	records, err := bundle.Split("svc.js", blob)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Kind != bundle.KindBytecode {
		t.Fatalf("kind: got %v, want bytecode", rec.Kind)
	}
	if !bytes.Equal(rec.Body, payload) {
		t.Errorf("payload: got % x, want % x", rec.Body, payload)
	}
	if len(rec.Body) != len(payload) {
		t.Errorf("payload length: got %d, want %d", len(rec.Body), len(payload))
	}
}

func TestSplitTruncatedBody(t *testing.T) {
	blob := []byte(`define("cut.js", [], function () { var x = "unclosed`)
	records, err := bundle.Split("svc.js", blob)
	if err != nil {
		t.Fatalf("truncation must not be fatal: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if !records[0].Truncated {
		t.Error("record should be flagged truncated")
	}
	if !strings.Contains(string(records[0].Body), "unclosed") {
		t.Errorf("partial body missing recovered text: %q", records[0].Body)
	}
}

func TestScanTaggedSegments(t *testing.T) {
	blob := []byte(`ENTRY; define("a.js", [], function () { return 1; }); TAIL`)
	segs := bundle.Scan(blob)

	var recognized, residue int
	for _, seg := range segs {
		if seg.Module != nil {
			recognized++
		} else {
			residue++
		}
	}
	if recognized != 1 {
		t.Errorf("recognized: got %d, want 1", recognized)
	}
	if residue != 2 {
		t.Errorf("residue spans: got %d, want 2", residue)
	}
}

func TestScanIgnoresPropertyAccess(t *testing.T) {
	blob := []byte(`obj.define("x.js", [], function () {}); undefined("y.js", [], function () {});`)
	for _, seg := range bundle.Scan(blob) {
		if seg.Module != nil {
			t.Errorf("misrecognized call site: %q", seg.Module.Path)
		}
	}
}

func TestScanMalformedCallSiteIsResidue(t *testing.T) {
	blob := []byte(`define(42, [], function () {}); define("ok.js", [], function () { f(); });`)
	var paths []string
	for _, seg := range bundle.Scan(blob) {
		if seg.Module != nil {
			paths = append(paths, seg.Module.Path)
		}
	}
	if len(paths) != 1 || paths[0] != "ok.js" {
		t.Errorf("recognized paths: got %v, want [ok.js]", paths)
	}
}

func TestSplitDedupesDeps(t *testing.T) {
	blob := []byte(`define("d.js", ["u.js", "u.js", "v.js"], function () {});`)
	records, err := bundle.Split("svc.js", blob)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if got := records[0].Deps; len(got) != 2 || got[0] != "u.js" || got[1] != "v.js" {
		t.Errorf("deps: got %v, want [u.js v.js]", got)
	}
}
