// Package openai implements the ai interfaces against OpenAI-compatible
// services via langchaingo. One Provider carries an embedder and a
// completer sharing credentials and configuration.
package openai
