//go:build integration

package testinfra

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type TestSuite struct {
	Postgres *PostgresContainer
	Kafka    *KafkaContainer
}

type SuiteOptions struct {
	WithKafka bool
}

// NewTestSuite creates all infrastructure for tests
// Containers are started in parallel for speed
func NewTestSuite(ctx context.Context, opts SuiteOptions) (*TestSuite, error) {
	suite := &TestSuite{}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		pg, err := NewPostgres(ctx)
		if err != nil {
			fail(fmt.Errorf("postgres: %w", err))
			return
		}
		suite.Postgres = pg
	}()

	if opts.WithKafka {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k, err := NewKafka(ctx)
			if err != nil {
				fail(fmt.Errorf("kafka: %w", err))
				return
			}
			suite.Kafka = k
		}()
	}

	wg.Wait()

	if len(errs) > 0 {
		suite.Cleanup(ctx) // cleanup partially started containers
		return nil, fmt.Errorf("failed to start containers: %w", errors.Join(errs...))
	}

	return suite, nil
}

func (s *TestSuite) Cleanup(ctx context.Context) {
	if s.Kafka != nil {
		s.Kafka.Cleanup(ctx)
	}
	if s.Postgres != nil {
		s.Postgres.Cleanup(ctx)
	}
}
