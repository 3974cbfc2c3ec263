// Package providers groups the provider abstraction that lets an application
// address local language-model backends through one contract.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/modelgate/pkg/providers/settings]: resolution of per-provider connection settings from layered sources
//   - [github.com/germanamz/modelgate/pkg/providers/model]: the normalized model descriptor
//   - [github.com/germanamz/modelgate/pkg/providers/provider]: the Provider interface and static identity metadata
//   - [github.com/germanamz/modelgate/pkg/providers/lmstudio]: LM Studio discovery and handles
//   - [github.com/germanamz/modelgate/pkg/providers/ollama]: Ollama discovery and native handles
//   - [github.com/germanamz/modelgate/pkg/providers/openai]: OpenAI-compatible chat handle used by LM Studio
//
// This package contains no code.
package providers
