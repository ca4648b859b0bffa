package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "script.jdl")
	if err := os.WriteFile(file, []byte(`input "a";`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "zero_value", config: Config{}},
		{name: "full", config: Config{BaseDir: dir, SerialStart: 100, RateLimit: 2.5, MaxLineBytes: 1024}},
		{name: "negative_rate", config: Config{RateLimit: -1}, wantErr: ErrNegativeRateLimit},
		{name: "negative_line_limit", config: Config{MaxLineBytes: -5}, wantErr: ErrNegativeLineLimit},
		{name: "base_dir_is_file", config: Config{BaseDir: file}, wantErr: ErrBaseDirNotDir},
		{name: "base_dir_missing", config: Config{BaseDir: filepath.Join(dir, "missing")}, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	if got := len((&Config{}).Options()); got != 2 {
		t.Fatalf("len(Options()) = %d, want 2", got)
	}

	full := Config{BaseDir: "/tmp", RateLimit: 5}
	if got := len(full.Options()); got != 4 {
		t.Fatalf("len(Options()) = %d, want 4", got)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Values
	}{
		{
			name:  "flat",
			input: "base-dir: data\nserial-start: 10\nrate-limit: 2.5\nlog-pretty: true\n",
			want: Values{
				"base-dir":     "data",
				"serial-start": "10",
				"rate-limit":   "2.5",
				"log-pretty":   true,
			},
		},
		{
			name:  "nested_groups",
			input: "log:\n  level: debug\n  format: json\npprof:\n  mode: cpu\n",
			want: Values{
				"log-level":  "debug",
				"log-format": "json",
				"pprof-mode": "cpu",
			},
		},
		{
			name:  "underscores",
			input: "max_line_bytes: 4096\n",
			want:  Values{"max-line-bytes": "4096"},
		},
		{
			name:  "empty",
			input: "",
			want:  Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader("base-dir: [unclosed\n"))
	if !errors.Is(err, ErrInvalidConfigFile) {
		t.Fatalf("Decode() error = %v, want ErrInvalidConfigFile", err)
	}
}

type testCLI struct {
	Config      kong.ConfigFlag `name:"config"`
	SerialStart int64           `name:"serial-start" default:"1"`
	BaseDir     string          `name:"base-dir"`
}

func TestLoaderFlagsOverrideFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "jdl.yaml")
	if err := os.WriteFile(file, []byte("serial-start: 50\nbase-dir: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(Loader))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	if _, err := parser.Parse([]string{"--config", file, "--base-dir", "from-flag"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.SerialStart != 50 {
		t.Fatalf("SerialStart = %d, want 50 from file", cli.SerialStart)
	}
	if cli.BaseDir != "from-flag" {
		t.Fatalf("BaseDir = %q, want flag value", cli.BaseDir)
	}
}
