package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/enumdispatch/dispatcherr"
	"martianoff/enumdispatch/internal/decl"
)

const dispatchCode = `impl TestTrait for TestEnum {
    fn test(&self) {
        match self {
            Self::A(inner) => TestTrait::test(inner),
            Self::B(inner) => TestTrait::test(inner),
            Self::Any(inner) => TestTrait::test(inner.as_ref()),
        }
    }
}

impl From<i32> for TestEnum {
    fn from(inner: i32) -> Self {
        Self::A(inner)
    }
}

impl From<f32> for TestEnum {
    fn from(inner: f32) -> Self {
        Self::B(inner)
    }
}
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateToStdout(t *testing.T) {
	stdout, _, err := execute(t, "generate", testdataPath(t, "dispatch.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "// Code generated by enumdispatch. DO NOT EDIT.\n\n"+dispatchCode, stdout)
}

func TestGenerateNoHeader(t *testing.T) {
	stdout, _, err := execute(t, "generate", "-i", testdataPath(t, "dispatch.yaml"), "--no-header")
	require.NoError(t, err)
	assert.Equal(t, dispatchCode, stdout)
}

func TestGenerateToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dispatch.rs")
	stdout, stderr, err := execute(t, "generate", "-i", testdataPath(t, "dispatch.yaml"), "-o", out, "--no-header")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "generated dispatch code")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, dispatchCode, string(data))
}

func TestGenerateOutputFromDeclarations(t *testing.T) {
	input := copyTestdata(t, "shapes.json")
	_, _, err := execute(t, "generate", input, "--no-header", "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(input), "shapes.rs"))
	require.NoError(t, err)
	assert.Equal(t, `impl Shape<f64> for Shapes {
    fn area(&self, scale: f64) -> f64 {
        match self {
            Self::Circle(inner) => Shape::<f64>::area(inner, scale),
            Self::Borrowed(inner) => Shape::<f64>::area(*inner, scale),
        }
    }

    fn rename(&mut self, name: &str) {
        match self {
            Self::Circle(inner) => Shape::<f64>::rename(inner, name),
            Self::Borrowed(inner) => Shape::<f64>::rename(*inner, name),
        }
    }
}

impl From<Circle> for Shapes {
    fn from(inner: Circle) -> Self {
        Self::Circle(inner)
    }
}
`, string(data))
}

func TestGenerateFailures(t *testing.T) {
	stdout, _, err := execute(t, "generate", testdataPath(t, "mixed.yaml"))
	require.Error(t, err)
	assert.Empty(t, stdout)

	var missing *dispatcherr.MissingAttributeError
	assert.ErrorAs(t, err, &missing)
	var receiver *dispatcherr.ReceiverError
	assert.ErrorAs(t, err, &receiver)
}

func TestGenerateEmitErrors(t *testing.T) {
	stdout, _, err := execute(t, "generate", testdataPath(t, "mixed.yaml"), "--emit-errors", "--no-header")
	require.Error(t, err)

	parts := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n\n")
	require.Len(t, parts, 3)
	assert.True(t, strings.HasPrefix(parts[0], "impl Shape for Good {"))
	assert.True(t, strings.HasPrefix(parts[1], "::core::compile_error!(\"[MissingAttributeError] "))
	assert.True(t, strings.HasPrefix(parts[2], "::core::compile_error!(\"[ReceiverError] "))
	assert.Contains(t, parts[2], "expected a receiver parameter")
}

func TestGenerateNoInput(t *testing.T) {
	_, _, err := execute(t, "generate")
	assert.EqualError(t, err, "no input file specified")
}

func TestGenerateFileOrder(t *testing.T) {
	f, err := decl.Load(testdataPath(t, "mixed.yaml"))
	require.NoError(t, err)

	// Expansion runs in parallel but the output keeps the declaration order.
	for _, jobs := range []int{1, 4} {
		code, err := generateFile(context.Background(), newExpander(), f, generateConfig{emitErrors: true, noHeader: true, jobs: jobs}, zerolog.Nop())
		require.Error(t, err)
		good := strings.Index(code, "impl Shape for Good")
		missing := strings.Index(code, "MissingAttributeError")
		receiver := strings.Index(code, "ReceiverError")
		require.True(t, good >= 0 && missing >= 0 && receiver >= 0)
		assert.Less(t, good, missing)
		assert.Less(t, missing, receiver)
	}
}

func TestGenerateFileCancelled(t *testing.T) {
	f, err := decl.Load(testdataPath(t, "dispatch.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, err := generateFile(ctx, newExpander(), f, generateConfig{jobs: 1}, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, code)
}

func TestInspectJSON(t *testing.T) {
	stdout, _, err := execute(t, "inspect", testdataPath(t, "mixed.yaml"))
	require.NoError(t, err)

	var views []inspection
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 3)

	assert.Equal(t, inspection{
		Name:  "Good",
		Trait: "Shape",
		Functions: []functionView{
			{Name: "area", Receiver: "&self", Return: "f64"},
		},
		Variants: []variantView{
			{Name: "Circle", Payload: "Circle", Modifier: "none"},
		},
	}, views[0])
	assert.Equal(t, "NoTrait", views[1].Name)
	assert.Contains(t, views[1].Error, "MissingAttributeError")
	assert.Contains(t, views[2].Error, "ReceiverError")
}

func TestInspectDump(t *testing.T) {
	stdout, _, err := execute(t, "inspect", "-i", testdataPath(t, "dispatch.yaml"), "--format", "dump")
	require.NoError(t, err)
	assert.Contains(t, stdout, "TestEnum")
	assert.Contains(t, stdout, "VariantDescriptor")
}

func TestInspectUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "inspect", testdataPath(t, "dispatch.yaml"), "--format", "xml")
	assert.EqualError(t, err, `unknown format "xml"`)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "enumdispatch version dev\n", stdout)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")
	logger.Info().Msg("hidden")
	logger.Warn().Str("sum_type", "TestEnum").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"sum_type":"TestEnum"`)
	assert.Contains(t, out, `"message":"shown"`)

	buf.Reset()
	logger = newLogger(&buf, "loud", "json")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")

	buf.Reset()
	logger = newLogger(&buf, "debug", "console")
	logger.Debug().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestFileWatcher(t *testing.T) {
	path := copyTestdata(t, "dispatch.yaml")
	w, err := newFileWatcher(path, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changed <- struct{}{} })
	}()

	// Files next to the watched one are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("sum_types: []\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
