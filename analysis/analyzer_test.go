package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAnalyzerFlagsKnownPatterns(t *testing.T) {
	source := strings.Join([]string{
		"pragma solidity ^0.8.0;",
		"contract Vault {",
		"  function withdraw() public {",
		"    require(tx.origin == owner);",
		"    (bool ok,) = msg.sender.call{value: balance}(\"\");",
		"  }",
		"}",
	}, "\n")

	analyzer := NewStaticAnalyzer()
	result, err := analyzer.Analyze(context.Background(), NewArtifact("vault.sol", []byte(source)))
	require.NoError(t, err)

	types := make(map[string]int)
	for _, iss := range result.Issues {
		types[iss.Type]++
		assert.Equal(t, StageStatic, iss.Stage)
		assert.Equal(t, "vault.sol", iss.File)
		assert.Greater(t, iss.Line, 0)
	}

	assert.Equal(t, 1, types["floating-pragma"])
	assert.Equal(t, 1, types["tx-origin-auth"])
	assert.Equal(t, 1, types["unchecked-call-value"])

	// two high findings and one low: 100 - 15 - 15 - 3
	assert.Equal(t, 67, result.Score)
}

func TestStaticAnalyzerCleanSourceScoresFull(t *testing.T) {
	analyzer := NewStaticAnalyzer()
	result, err := analyzer.Analyze(context.Background(),
		NewArtifact("clean.sol", []byte("contract Clean {}\n")))
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Issues)
}

func TestStaticAnalyzerScoreNeverNegative(t *testing.T) {
	line := "selfdestruct(payable(tx.origin)); // delegatecall\n"
	source := strings.Repeat(line, 20)

	analyzer := NewStaticAnalyzer()
	result, err := analyzer.Analyze(context.Background(), NewArtifact("bad.sol", []byte(source)))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
}

func TestSemanticAnalyzerFlagsMarkersAndLongLines(t *testing.T) {
	source := strings.Join([]string{
		"// TODO: handle zero amounts",
		"function f() public { " + strings.Repeat("x", 130) + " }",
	}, "\n")

	analyzer := NewSemanticAnalyzer()
	result, err := analyzer.Analyze(context.Background(), NewArtifact("f.sol", []byte(source)))
	require.NoError(t, err)

	types := make(map[string]bool)
	for _, iss := range result.Issues {
		types[iss.Type] = true
		assert.Equal(t, StageSemantic, iss.Stage)
	}
	assert.True(t, types["unfinished-code"])
	assert.True(t, types["long-line"])
	assert.Less(t, result.Score, 100)
}

func TestSemanticAnalyzerAcceptsDocumentedFunction(t *testing.T) {
	source := strings.Join([]string{
		"// withdraw moves the caller balance out",
		"function withdraw() public {",
		"}",
	}, "\n")

	analyzer := NewSemanticAnalyzer()
	result, err := analyzer.Analyze(context.Background(), NewArtifact("doc.sol", []byte(source)))
	require.NoError(t, err)

	for _, iss := range result.Issues {
		assert.NotEqual(t, "undocumented-function", iss.Type)
	}
	assert.Equal(t, 100, result.Score)
}

func TestSimulationAnalyzerIsDeterministic(t *testing.T) {
	source := []byte(strings.Repeat("total = total + amounts[i] * rate;\nok = dest.call(data);\n", 30))
	analyzer := NewSimulationAnalyzer()

	first, err := analyzer.Analyze(context.Background(), NewArtifact("a.sol", source))
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), NewArtifact("a.sol", source))
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	require.Equal(t, len(first.Issues), len(second.Issues))
	for i := range first.Issues {
		assert.Equal(t, first.Issues[i].Line, second.Issues[i].Line)
		assert.Equal(t, first.Issues[i].Type, second.Issues[i].Type)
	}
}

func TestSimulationAnalyzerBoundsFindings(t *testing.T) {
	source := []byte(strings.Repeat("x = x + y * z;\n", 500))
	analyzer := NewSimulationAnalyzer()

	result, err := analyzer.Analyze(context.Background(), NewArtifact("loop.sol", source))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Issues), simulationMaxFindings)
	assert.GreaterOrEqual(t, result.Score, 0)
}

func TestAnalyzersHonorContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	artifact := NewArtifact("x.sol", []byte("contract X {}\n"))
	for _, analyzer := range DefaultAnalyzers() {
		_, err := analyzer.Analyze(ctx, artifact)
		assert.ErrorIs(t, err, context.Canceled, analyzer.Stage())
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 100, clampScore(120))
	assert.Equal(t, 42, clampScore(42))
}

func TestSnippetOfTrims(t *testing.T) {
	assert.Equal(t, "x = 1;", snippetOf("   x = 1;   "))
	assert.Len(t, snippetOf(strings.Repeat("a", 300)), 120)
}

func TestDefaultAnalyzersCoverAllStages(t *testing.T) {
	stages := make(map[string]bool)
	for _, a := range DefaultAnalyzers() {
		stages[a.Stage()] = true
	}
	assert.Equal(t, map[string]bool{
		StageStatic:     true,
		StageSemantic:   true,
		StageSimulation: true,
	}, stages)
}
