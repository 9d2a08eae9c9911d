package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantCode   int
		wantOut    []string
		wantErrOut string
	}{
		{
			name:     "正常系: 引数の単語",
			args:     []string{"-seed", "3", "-s", "10", "cat", "dog", "bird"},
			wantCode: 0,
			wantOut:  []string{"WORD SEARCH", "Find these words: BIRD, CAT, DOG", "Answer Key: "},
		},
		{
			name:     "正常系: 標準入力の単語",
			stdin:    "cat, dog\nbird",
			args:     []string{"-seed", "3"},
			wantCode: 0,
			wantOut:  []string{"Find these words: BIRD, CAT, DOG"},
		},
		{
			name:     "正常系: レベル指定",
			args:     []string{"-seed", "3", "-l", "1", "cat", "dog"},
			wantCode: 0,
			wantOut:  []string{"* Words can go E and S"},
		},
		{
			name:     "正常系: 解答キーのみ",
			args:     []string{"-seed", "3", "-o", "key", "cat"},
			wantCode: 0,
			wantOut:  []string{"CAT "},
		},
		{
			name:     "正常系: ランダムな単語",
			args:     []string{"-seed", "3", "-r", "5", "-theme", "space", "-o", "json"},
			wantCode: 0,
			wantOut:  []string{`"words"`},
		},
		{
			name:       "異常系: 単語なし",
			args:       []string{"-seed", "3"},
			wantCode:   1,
			wantErrOut: "at least one word is required",
		},
		{
			name:       "異常系: 不正なレベル",
			args:       []string{"-l", "UP", "cat"},
			wantCode:   1,
			wantErrOut: "invalid level",
		},
		{
			name:       "異常系: 不明な出力形式",
			args:       []string{"-o", "pdf", "cat"},
			wantCode:   1,
			wantErrOut: "unknown output format",
		},
		{
			name:       "異常系: ランダム単語数が多すぎる",
			args:       []string{"-r", "99"},
			wantCode:   1,
			wantErrOut: "-r must be between",
		},
		{
			name:     "異常系: 不明なフラグ",
			args:     []string{"-z"},
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, tt.stdin, tt.args...)

			assert.Equal(t, tt.wantCode, code, errOut)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			if tt.wantErrOut != "" {
				assert.Contains(t, errOut, tt.wantErrOut)
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-seed", "7", "-s", "12", "-o", "json", "-x", "owl", "cat", "dog")
	require.Equal(t, 0, code, errOut)

	var view struct {
		Size   int        `json:"size"`
		Puzzle [][]string `json:"puzzle"`
		Words  []string   `json:"words"`
		Key    map[string]struct {
			Secret bool `json:"secret"`
		} `json:"key"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 12, view.Size)
	assert.Len(t, view.Puzzle, 12)
	assert.Equal(t, []string{"CAT", "DOG"}, view.Words)
	assert.True(t, view.Key["OWL"].Secret)
}

func TestRun_DefinitionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
words: [cat, dog, emu]
size: 12
seed: 4
level: [E, S]
masks:
  - shape: circle
`), 0o600))

	code, out, errOut := runCLI(t, "", "-f", path, "-c")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Find these words: CAT, DOG, EMU")
	assert.Contains(t, out, "* Words can go E and S")

	// flags override the file
	code, out, errOut = runCLI(t, "", "-f", path, "-l", "3", "-o", "json")
	require.Equal(t, 0, code, errOut)
	var view struct {
		Level  []string `json:"level"`
		Masked bool     `json:"masked"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Level, 8)
	assert.True(t, view.Masked)
}

func TestRun_Seeded(t *testing.T) {
	_, a, _ := runCLI(t, "", "-seed", "11", "-o", "json", "cat", "dog", "emu")
	_, b, _ := runCLI(t, "", "-seed", "11", "-o", "json", "cat", "dog", "emu")
	assert.Equal(t, a, b)
}
