package cli_test

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meenmo/curo/cmd/curo/internal/cli"
)

const loanDoc = `{
  "convention": "30/360",
  "interest_rate": 0.0825,
  "start_date": "2022-01-15",
  "series": [
    {"role": "advance", "value": -10000},
    {"role": "payment", "number_of": 6}
  ]
}`

const resolvedYAML = `
convention: 30/360
start_date: "2022-01-15"
series:
  - role: advance
    value: -10000
  - role: payment
    number_of: 6
    value: 1705.54
`

type output struct {
	File      string  `json:"file"`
	Result    float64 `json:"result"`
	Error     string  `json:"error"`
	CashFlows []struct {
		PostDate string  `json:"post_date"`
		Value    float64 `json:"value"`
	} `json:"cash_flows"`
}

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decode(t *testing.T, line string) output {
	t.Helper()
	var out output
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("invalid JSON output %q: %v", line, err)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestValueFromStdin(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := run(t, loanDoc, "value")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s, stdout = %s", code, stderr, stdout)
	}
	out := decode(t, stdout)
	if out.Result != 1705.54 || len(out.CashFlows) != 7 {
		t.Fatalf("output = %+v", out)
	}
}

func TestRateFromYAMLFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "loan.yaml", resolvedYAML)
	code, stdout, stderr := run(t, "", "rate", "--input", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s, stdout = %s", code, stderr, stdout)
	}
	if out := decode(t, stdout); math.Abs(out.Result-0.0825) > 1e-4 {
		t.Fatalf("rate = %v", out.Result)
	}
}

func TestCalculationErrorIsJSON(t *testing.T) {
	t.Parallel()

	// Solving for the rate with an unknown payment fails.
	code, stdout, _ := run(t, loanDoc, "rate")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if out := decode(t, stdout); !strings.Contains(out.Error, "must be known") {
		t.Fatalf("error = %q", out.Error)
	}

	code, stdout, _ = run(t, "{not json", "value")
	if code != 1 || !strings.Contains(decode(t, stdout).Error, "failed to parse input") {
		t.Fatalf("parse failure: code %d, stdout %s", code, stdout)
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"npv"},
		{"value", "--bogus"},
		{"value", "--log-level", "loud"},
		{"batch"},
	}
	for _, args := range cases {
		if code, _, _ := run(t, loanDoc, args...); code != 2 {
			t.Fatalf("%v: exit code = %d, want 2", args, code)
		}
	}
}

func TestSolverConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := writeFile(t, dir, "solver.toml", "max_iterations = 1\ntolerance = 1e-12\n")
	code, stdout, _ := run(t, loanDoc, "value", "--config", cfg)
	if code != 1 || !strings.Contains(decode(t, stdout).Error, "unsolvable") {
		t.Fatalf("one iteration should not converge: code %d, stdout %s", code, stdout)
	}

	yml := writeFile(t, dir, "solver.yaml", "max_iterations: 50\n")
	if code, stdout, _ := run(t, loanDoc, "value", "--config", yml); code != 0 || decode(t, stdout).Result != 1705.54 {
		t.Fatalf("yaml config: code %d, stdout %s", code, stdout)
	}

	if code, _, _ := run(t, loanDoc, "value", "--config", filepath.Join(dir, "missing.toml")); code != 2 {
		t.Fatalf("missing config: exit code = %d, want 2", code)
	}
}

func TestBatchKeepsArgumentOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	value := writeFile(t, dir, "value.json", strings.Replace(loanDoc, "{", `{"solve": "value",`, 1))
	rate := writeFile(t, dir, "rate.yaml", "solve: rate\n"+resolvedYAML)
	broken := writeFile(t, dir, "broken.toml", "solve = ")

	code, stdout, _ := run(t, "", "batch", "--workers", "2", rate, broken, value)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1 (one document fails)", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %s", len(lines), stdout)
	}

	first, second, third := decode(t, lines[0]), decode(t, lines[1]), decode(t, lines[2])
	if first.File != rate || math.Abs(first.Result-0.0825) > 1e-4 || first.Error != "" {
		t.Fatalf("line 1 = %+v", first)
	}
	if second.File != broken || second.Error == "" {
		t.Fatalf("line 2 = %+v", second)
	}
	if third.File != value || third.Result != 1705.54 {
		t.Fatalf("line 3 = %+v", third)
	}
}
