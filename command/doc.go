// Package command implements the Command descriptor and its [Builder]:
// the immutable-after-build bundle of provider, callback, and policies
// that one CommandEngine submission executes.
//
// # Quick Start
//
//	cmd, err := command.NewBuilder[OrderResponse](logger).
//	    WithName("orders.get").
//	    WithProvider(provider.NewConstant("http://orders.internal")).
//	    WithCallback(func(ctx context.Context, baseURI string) (OrderResponse, error) {
//	        return fetchOrder(ctx, baseURI)
//	    }).
//	    WithMaxAttempts(3).
//	    Build()
//
// # Builder Contract
//
//   - Provider and Callback are required; Build fails with
//     failure.KindInvalidDescriptor if either is missing.
//   - maxAttempts ≤ 0 is silently repaired to 1, with a logged warning.
//   - An unset name defaults to "ApiCommand".
//   - An unset backoff defaults to exponential with a 500ms initial interval.
//   - An unset classifier defaults to failure.DefaultTable().
//
// # Interceptors
//
// [Interceptor] wraps the resolved callback invocation, innermost-last:
// the first interceptor added via WithInterceptor is the outermost
// wrapper, mirroring typical Go HTTP middleware chaining.
package command
