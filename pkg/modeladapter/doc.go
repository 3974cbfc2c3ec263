// Package modeladapter defines the callable model handle returned by
// providers and the embeddable base that concrete handles build on.
//
// It contains the [Completer] interface and the embeddable [ModelAdapter] base
// struct with HTTP helpers, auth, and custom headers.
//
// This package contains no backend-specific code. Concrete handles live in
// the provider packages that import modeladapter.
package modeladapter
