package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Analyzer holds named text classifiers and treats them uniformly: every
// classifier is loaded before use and answers Predict with a Result.
type Analyzer struct {
	names       []string
	classifiers map[string]TextClassifier
}

// New creates an Analyzer from classifiers. Names must be unique.
func New(classifiers ...TextClassifier) (*Analyzer, error) {
	a := &Analyzer{
		names:       make([]string, 0, len(classifiers)),
		classifiers: make(map[string]TextClassifier, len(classifiers)),
	}

	for _, c := range classifiers {
		if c == nil {
			return nil, errors.New("nil classifier")
		}
		name := c.Name()
		if _, dup := a.classifiers[name]; dup {
			return nil, fmt.Errorf("duplicate classifier name %q", name)
		}
		a.names = append(a.names, name)
		a.classifiers[name] = c
	}

	return a, nil
}

// Load loads every classifier concurrently and returns the first failure
func (a *Analyzer) Load(ctx context.Context) error {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	for _, name := range a.names {
		c := a.classifiers[name]
		g.Go(func() error {
			if err := c.Load(ctx); err != nil {
				return fmt.Errorf("load %s: %w", c.Name(), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("classifiers loaded", "classifiers", a.names, "duration", time.Since(start))
	return nil
}

// Predict runs the named classifier on text
func (a *Analyzer) Predict(ctx context.Context, name string, text string) (*Result, error) {
	c, err := a.Classifier(name)
	if err != nil {
		return nil, err
	}
	return c.Predict(ctx, text)
}

// Classifier returns the classifier registered under name
func (a *Analyzer) Classifier(name string) (TextClassifier, error) {
	c, ok := a.classifiers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClassifier, name)
	}
	return c, nil
}

// Names returns classifier names in registration order
func (a *Analyzer) Names() []string {
	return append([]string(nil), a.names...)
}

// Close closes every classifier that holds resources
func (a *Analyzer) Close() error {
	var errs []error
	for _, name := range a.names {
		if closer, ok := a.classifiers[name].(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
