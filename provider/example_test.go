package provider_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cmdcore/provider"
)

func ExampleConstant() {
	p := provider.NewConstant("http://payments.internal:8080")

	result, err := provider.Run(context.Background(), p, func(ctx context.Context, baseURI string) (string, error) {
		return baseURI + "/v1/charge", nil
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result)
	// Output: http://payments.internal:8080/v1/charge
}

func ExampleDiscovery() {
	pool := provider.NewInstancePool(provider.PoolConfig{
		Fetch: func(ctx context.Context) ([]provider.Instance, error) {
			return []provider.Instance{
				{ID: "inst-1", BaseURI: "http://10.0.0.1:8080"},
				{ID: "inst-2", BaseURI: "http://10.0.0.2:8080"},
			}, nil
		},
	})
	_ = pool.Refresh(context.Background())

	d := provider.NewDiscovery(pool, provider.NewRoundRobin())

	err := d.Run(context.Background(), func(ctx context.Context, baseURI string) error {
		fmt.Println("calling", baseURI)
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
	}
	// Output: calling http://10.0.0.1:8080
}
