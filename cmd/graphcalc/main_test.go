package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/graphcalc/analysis"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr bool
	}{
		{"ans", "", []string{"eval", "2+3*4", "ans+1"}, "14\n15\n", false},
		{"stdin", "sqrt(16)\nans/2\n", []string{"eval"}, "4\n2\n", false},
		{"params", "", []string{"eval", "a*b", "--param", "a=3,b=4"}, "12\n", false},
		{"plot line", "", []string{"eval", "y = x"}, "(explicit)\n", false},
		{"error", "", []string{"eval", "1 +", "2"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.stdin, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	out, err := run(t, "", "classify", "y = a*x", "x^2 + y^2 <= 4", "r = theta")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"explicit", "inequality", "polar", "a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	blob, err := run(t, "", "encode", "-e", "y = x^2", "--theme", "dark", "--view", "-5,5,-2,8")
	if err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "decode", strings.TrimSpace(blob))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"y = x^2", "dark", "xMin: -5"} {
		if !strings.Contains(out, want) {
			t.Errorf("decoded YAML missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "", "decode", "--strict", "!!!"); err == nil {
		t.Error("decode --strict of garbage succeeded")
	}
	if _, err := run(t, "", "encode", "--view", "1,2,3"); err == nil {
		t.Error("encode with a 3-number view succeeded")
	}
}

func TestStats(t *testing.T) {
	out, err := run(t, "", "stats", "normal(0, 1)", "--pdf", "0", "--cdf", "0")
	if err != nil {
		t.Fatal(err)
	}
	want := "pdf(0) = 0.3989422804\ncdf(0) = 0.5\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = run(t, "", "stats", "binomial(10, 0.5)", "--pdf", "5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "pmf(5) = 0.24609375") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, "", "stats", "poisson(2)", "--quantile", "0.5"); err == nil {
		t.Error("quantile of a discrete distribution succeeded")
	}
	if _, err := run(t, "", "stats", "cauchy(0, 1)"); err == nil {
		t.Error("unknown distribution succeeded")
	}
}

func TestCAS(t *testing.T) {
	out, err := run(t, "", "cas", "solve", "x^2 = 9", "--var", "x")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "x = -3, x = 3" {
		t.Errorf("solve = %q", out)
	}
	if _, err := run(t, "", "cas", "factor", "x^2 - 1"); err == nil {
		t.Error("factor succeeded with the numeric provider")
	}
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	_, err := run(t, "", "render", "-e", "y = sin(x)", "--preset", "disk", "--width", "120", "--height", "90", "-o", path)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 90 {
		t.Errorf("bounds = %v", b)
	}
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := run(t, "", "analyze", "-e", "y = x^2 - 4", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var pts []analysis.Point
	if err := json.Unmarshal([]byte(out), &pts); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	roots := 0
	for _, p := range pts {
		if p.Kind == analysis.XIntercept {
			roots++
		}
	}
	if roots != 2 {
		t.Errorf("found %d x-intercepts, want 2: %+v", roots, pts)
	}
}

func TestStoreCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "s.db")

	out, err := run(t, "", "save", "circles", "--db", db, "-e", "x^2 + y^2 = 4", "--title", "Circles")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "saved circles (1 lines)") {
		t.Errorf("save output = %q", out)
	}

	out, err = run(t, "", "list", "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "circles") || !strings.Contains(out, "Circles") {
		t.Errorf("list output = %q", out)
	}

	out, err = run(t, "", "load", "circles", "--db", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x^2 + y^2 = 4") {
		t.Errorf("load output = %q", out)
	}

	blob, err := run(t, "", "load", "circles", "--db", db, "--blob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "", "encode", "--blob", strings.TrimSpace(blob)); err != nil {
		t.Errorf("loaded blob does not decode: %v", err)
	}

	if _, err := run(t, "", "delete", "circles", "--db", db); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "", "delete", "circles", "--db", db); err == nil {
		t.Error("second delete succeeded")
	}
}
