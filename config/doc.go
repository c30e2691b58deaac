// Package config binds external property stores to the option structs
// consumed by breaker, retry, cache and engine.
//
// Properties holds flat dotted keys of the form described by the
// configuration surface (`<prefix>.client.*`): global defaults with
// optional per-command overrides, e.g. `orders.client.numRetries` with
// a more specific `orders.client.numRetries.get` taking precedence for
// command "get". Binding (see NewBinding) resolves that table into an
// engine.Policies (breaker.Config + breaker.BulkheadConfig) and
// satisfies engine.PolicyResolver, so a Binding over a *config.Properties
// can be handed to engine.New via engine.WithPolicyResolver.
//
// Values may reference environment variables (`${VAR}`, with `$$` as a
// literal-dollar escape, see ExpandEnvStrict) or secrets behind a
// pluggable Provider via the "secretref:<provider>:<ref>" convention
// (see Resolver), for binding things like cache backend credentials
// that should not live in plaintext property files.
package config
