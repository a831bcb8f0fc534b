package analyzer_test

import (
	"context"
	"fmt"
	"log"

	analyzer "github.com/FrenchMajesty/text-analyzer"
	"github.com/FrenchMajesty/text-analyzer/model"
	"github.com/FrenchMajesty/text-analyzer/pkg/testutil"
)

// Example shows loading the sarcasm model and classifying text
func Example_sarcasm() {
	detector := analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
		Source: model.Static(testutil.SarcasmArtifact()),
	})

	if err := detector.Load(context.Background()); err != nil {
		log.Fatal(err)
	}

	result, err := detector.Predict(context.Background(), "Oh great, another awful awful Monday")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Label)
	// Output: sarcastic
}

// Example shows driving both classifiers through an Analyzer
func Example_analyzer() {
	a, err := analyzer.New(
		analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{
			Source: model.Static(testutil.SarcasmArtifact()),
		}),
		analyzer.NewPlatformDetector(analyzer.PlatformConfig{
			EmbeddingClient: &testutil.MockEmbeddingClient{},
			VectorClient:    testutil.NewMockVectorClient(),
			LLMClient:       &testutil.MockLLMClient{},
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if err := a.Load(context.Background()); err != nil {
		log.Fatal(err)
	}

	for _, name := range a.Names() {
		result, err := a.Predict(context.Background(), name, "this is great #blessed")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %s\n", name, result.Label)
	}
	// Output:
	// sarcasm: not sarcastic
	// platform: twitter
}
