package analyzer_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	analyzer "github.com/FrenchMajesty/text-analyzer"
	"github.com/FrenchMajesty/text-analyzer/bayes"
	"github.com/FrenchMajesty/text-analyzer/model"
	"github.com/FrenchMajesty/text-analyzer/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func loadedSarcasm(t *testing.T) *analyzer.SarcasmDetector {
	t.Helper()
	d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
		Source: model.Static(testutil.SarcasmArtifact()),
	})
	require.NoError(t, d.Load(context.Background()))
	return d
}

func TestSarcasmDetector_PredictBeforeLoad(t *testing.T) {
	d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
		Source: model.Static(testutil.SarcasmArtifact()),
	})

	assert.False(t, d.Loaded())
	assert.Nil(t, d.Labels())

	_, err := d.Predict(context.Background(), "great")
	assert.ErrorIs(t, err, analyzer.ErrNotLoaded)
}

func TestSarcasmDetector_Predict(t *testing.T) {
	d := loadedSarcasm(t)

	tests := []struct {
		text       string
		label      string
		confidence float64
	}{
		{"This is GREAT", "not sarcastic", logistic(1.5)},
		{"awful awful great", "sarcastic", logistic(1.5)},
		{"great awful", "not sarcastic", 0.5},
		{"", "not sarcastic", 0.5},
		{"   ", "not sarcastic", 0.5},
		{"zzz qqq", "not sarcastic", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result, err := d.Predict(context.Background(), tt.text)
			require.NoError(t, err)

			assert.Equal(t, "sarcasm", result.Classifier)
			assert.Equal(t, tt.label, result.Label)
			assert.InDelta(t, tt.confidence, result.Confidence, 1e-9)
			assert.False(t, result.CacheHit)
		})
	}
}

func TestSarcasmDetector_Labels(t *testing.T) {
	d := loadedSarcasm(t)
	assert.True(t, d.Loaded())
	assert.Equal(t, []string{"not sarcastic", "sarcastic"}, d.Labels())
}

func TestSarcasmDetector_CustomLabels(t *testing.T) {
	d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
		Source: model.Static(testutil.SarcasmArtifact()),
		Labels: bayes.LabelMap{ByClass: map[model.ClassID]string{"0": "sincere", "1": "ironic"}},
	})
	require.NoError(t, d.Load(context.Background()))

	result, err := d.Predict(context.Background(), "awful")
	require.NoError(t, err)
	assert.Equal(t, "ironic", result.Label)
}

func TestSarcasmDetector_LoadFromFile(t *testing.T) {
	data, err := json.Marshal(testutil.SarcasmArtifact())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{ModelPath: path})
	require.NoError(t, d.Load(context.Background()))

	result, err := d.Predict(context.Background(), "awful")
	require.NoError(t, err)
	assert.Equal(t, "sarcastic", result.Label)
}

func TestSarcasmDetector_LoadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
			ModelPath: filepath.Join(t.TempDir(), "absent.json"),
		})
		err := d.Load(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, d.Loaded())
	})

	t.Run("invalid artifact", func(t *testing.T) {
		bad := testutil.SarcasmArtifact()
		bad.ClassLogPrior = bad.ClassLogPrior[:1]

		d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
			Source: &testutil.MockModelSource{Artifact: bad},
		})
		err := d.Load(context.Background())
		assert.ErrorIs(t, err, model.ErrInvalidArtifact)

		_, err = d.Predict(context.Background(), "great")
		assert.ErrorIs(t, err, analyzer.ErrNotLoaded)
	})
}

func TestSarcasmDetector_FailedReloadKeepsModel(t *testing.T) {
	source := &testutil.MockModelSource{Artifact: testutil.SarcasmArtifact()}
	d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{Source: source})
	require.NoError(t, d.Load(context.Background()))

	source.LoadFunc = func(ctx context.Context) (*model.Artifact, error) {
		return nil, errors.New("bucket unavailable")
	}
	require.Error(t, d.Load(context.Background()))
	assert.Equal(t, 2, source.LoadCount)

	result, err := d.Predict(context.Background(), "awful")
	require.NoError(t, err)
	assert.Equal(t, "sarcastic", result.Label)
}

func TestSarcasmDetector_ReloadSwapsModel(t *testing.T) {
	source := &testutil.MockModelSource{Artifact: testutil.SarcasmArtifact()}
	d := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{Source: source})
	require.NoError(t, d.Load(context.Background()))

	flipped := testutil.SarcasmArtifact()
	flipped.FeatureLogProb[0], flipped.FeatureLogProb[1] = flipped.FeatureLogProb[1], flipped.FeatureLogProb[0]
	source.Artifact = flipped
	require.NoError(t, d.Load(context.Background()))

	result, err := d.Predict(context.Background(), "awful")
	require.NoError(t, err)
	assert.Equal(t, "not sarcastic", result.Label)
}

func TestSarcasmDetector_ConcurrentPredictAndReload(t *testing.T) {
	d := loadedSarcasm(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				assert.NoError(t, d.Load(context.Background()))
				return
			}
			result, err := d.Predict(context.Background(), "this is awful")
			if assert.NoError(t, err) {
				assert.Equal(t, "sarcastic", result.Label)
			}
		}(i)
	}
	wg.Wait()
}
