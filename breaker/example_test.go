package breaker_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/cmdcore/breaker"
)

func ExampleCircuitBreaker_Execute() {
	cb := breaker.New(breaker.Config{
		ErrorThresholdPercent: 50,
		MinRequestVolume:      2,
	})

	boom := errors.New("downstream unavailable")
	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func(ctx context.Context) error {
			return boom
		}, nil)
		fmt.Println(err)
	}
	fmt.Println(cb.State())
	// Output:
	// downstream unavailable
	// downstream unavailable
	// breaker: circuit is open
	// open
}
